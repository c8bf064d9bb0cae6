package entity

import (
	"encoding/json"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var chainValidate = validator.New()

// Validate checks the registry name is set. Other fields are stored as given.
func (c ChainInfo) Validate() error {
	return chainValidate.Struct(c)
}

// EncodedField is one chain field in its query string form.
type EncodedField struct {
	Key   string
	Value string
	// Set is false when the field holds its zero value.
	Set bool
}

// EncodeFields returns every field of c in query string form, in a stable order.
// Lists and objects are JSON; a nil list encodes like an empty one.
func (c ChainInfo) EncodeFields() []EncodedField {
	return []EncodedField{
		textField(FieldRegistryName, c.RegistryName),
		textField(FieldLogo, c.Logo),
		textField(FieldChainID, c.ChainID),
		textField(FieldChainDisplayName, c.ChainDisplayName),
		textField(FieldNodeAddress, c.NodeAddress),
		jsonField(FieldNodeAddresses, c.NodeAddresses, len(c.NodeAddresses) > 0),
		textField(FieldDenom, c.Denom),
		textField(FieldDisplayDenom, c.DisplayDenom),
		{
			Key:   FieldDisplayDenomExponent,
			Value: strconv.Itoa(c.DisplayDenomExponent),
			Set:   c.DisplayDenomExponent != 0,
		},
		jsonField(FieldAssets, c.Assets, len(c.Assets) > 0),
		textField(FieldGasPrice, c.GasPrice),
		textField(FieldAddressPrefix, c.AddressPrefix),
		textField(FieldExplorerLink, c.ExplorerLink),
	}
}

func textField(key, value string) EncodedField {
	return EncodedField{Key: key, Value: value, Set: value != ""}
}

func jsonField[T any](key string, value []T, set bool) EncodedField {
	if value == nil {
		value = []T{}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		// Plain strings and asset structs always marshal.
		encoded = []byte("[]")
	}
	return EncodedField{Key: key, Value: string(encoded), Set: set}
}
