package seed_dto

import "chainstore/internal/domain/entity"

// RegistryRaw is the registry seed file as written on disk.
type RegistryRaw struct {
	Mainnets []ChainRaw `yaml:"mainnets"`
	Testnets []ChainRaw `yaml:"testnets"`
}

// ChainRaw is one chain entry in the seed file, named after chain-registry keys.
type ChainRaw struct {
	ChainName            string         `yaml:"chain_name"`
	PrettyName           string         `yaml:"pretty_name,omitempty"`
	ChainID              string         `yaml:"chain_id,omitempty"`
	Logo                 string         `yaml:"logo,omitempty"`
	Bech32Prefix         string         `yaml:"bech32_prefix,omitempty"`
	Denom                string         `yaml:"denom,omitempty"`
	DisplayDenom         string         `yaml:"display_denom,omitempty"`
	DisplayDenomExponent int            `yaml:"display_denom_exponent,omitempty"`
	GasPrice             string         `yaml:"gas_price,omitempty"`
	ExplorerTxLink       string         `yaml:"explorer_tx_link,omitempty"`
	APIs                 APIsRaw        `yaml:"apis,omitempty"`
	Assets               []entity.Asset `yaml:"assets,omitempty"`
}

// APIsRaw groups a chain's public endpoints.
type APIsRaw struct {
	RPC []EndpointRaw `yaml:"rpc,omitempty"`
}

// EndpointRaw is a single public endpoint.
type EndpointRaw struct {
	Address  string `yaml:"address"`
	Provider string `yaml:"provider,omitempty"`
}
