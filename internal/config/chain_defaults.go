package config

import "chainstore/internal/domain/entity"

// Compile-time check
var _ entity.FieldSource = ChainDefaults{}

// Lookup returns the configured raw value for a chain field key.
func (c ChainDefaults) Lookup(key string) (string, bool) {
	var value string
	switch key {
	case entity.FieldLogo:
		value = c.Logo
	case entity.FieldChainID:
		value = c.ChainID
	case entity.FieldChainDisplayName:
		value = c.ChainDisplayName
	case entity.FieldNodeAddresses:
		value = c.NodeAddresses
	case entity.FieldDenom:
		value = c.Denom
	case entity.FieldDisplayDenom:
		value = c.DisplayDenom
	case entity.FieldDisplayDenomExponent:
		value = c.DisplayDenomExponent
	case entity.FieldAssets:
		value = c.Assets
	case entity.FieldGasPrice:
		value = c.GasPrice
	case entity.FieldAddressPrefix:
		value = c.AddressPrefix
	case entity.FieldExplorerLink:
		value = c.ExplorerLink
	default:
		return "", false
	}
	return value, value != ""
}
