package entity

// NetworkType defines the registry partition a chain belongs to.
type NetworkType string

// Constants for known network types.
const (
	NetworkMainnet NetworkType = "mainnet"
	NetworkTestnet NetworkType = "testnet"
	NetworkLocal   NetworkType = "localnet"
)

// MaxRecentChains is how many registry names the recently used list keeps.
const MaxRecentChains = 4

// ChainInfo describes one chain the front-end can connect to.
type ChainInfo struct {
	RegistryName         string   `json:"registryName" yaml:"registryName" validate:"required"`
	Logo                 string   `json:"logo,omitempty" yaml:"logo,omitempty"`
	ChainID              string   `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	ChainDisplayName     string   `json:"chainDisplayName,omitempty" yaml:"chainDisplayName,omitempty"`
	NodeAddress          string   `json:"nodeAddress,omitempty" yaml:"nodeAddress,omitempty"`
	NodeAddresses        []string `json:"nodeAddresses,omitempty" yaml:"nodeAddresses,omitempty"`
	Denom                string   `json:"denom,omitempty" yaml:"denom,omitempty"`
	DisplayDenom         string   `json:"displayDenom,omitempty" yaml:"displayDenom,omitempty"`
	DisplayDenomExponent int      `json:"displayDenomExponent,omitempty" yaml:"displayDenomExponent,omitempty"`
	Assets               []Asset  `json:"assets,omitempty" yaml:"assets,omitempty"`
	GasPrice             string   `json:"gasPrice,omitempty" yaml:"gasPrice,omitempty"`
	AddressPrefix        string   `json:"addressPrefix,omitempty" yaml:"addressPrefix,omitempty"`
	ExplorerLink         string   `json:"explorerLink,omitempty" yaml:"explorerLink,omitempty"`
}

// Asset is a chain-registry asset descriptor.
type Asset struct {
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Base        string      `json:"base" yaml:"base"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Display     string      `json:"display,omitempty" yaml:"display,omitempty"`
	Symbol      string      `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	DenomUnits  []DenomUnit `json:"denom_units,omitempty" yaml:"denom_units,omitempty"`
	LogoURIs    *LogoURIs   `json:"logo_URIs,omitempty" yaml:"logo_URIs,omitempty"`
	CoingeckoID string      `json:"coingecko_id,omitempty" yaml:"coingecko_id,omitempty"`
	TypeAsset   string      `json:"type_asset,omitempty" yaml:"type_asset,omitempty"`
}

// DenomUnit is one denomination of an asset and its exponent relative to the base.
type DenomUnit struct {
	Denom    string   `json:"denom" yaml:"denom"`
	Exponent int      `json:"exponent" yaml:"exponent"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// LogoURIs holds asset logo locations.
type LogoURIs struct {
	PNG string `json:"png,omitempty" yaml:"png,omitempty"`
	SVG string `json:"svg,omitempty" yaml:"svg,omitempty"`
}

// ChainItems partitions known chains by network type, each keyed by registry name.
type ChainItems struct {
	Mainnets  map[string]ChainInfo
	Testnets  map[string]ChainInfo
	Localnets map[string]ChainInfo
}

// NewChainItems returns ChainItems with three empty partitions.
func NewChainItems() ChainItems {
	return ChainItems{
		Mainnets:  make(map[string]ChainInfo),
		Testnets:  make(map[string]ChainInfo),
		Localnets: make(map[string]ChainInfo),
	}
}

// Lookup finds a chain by registry name, preferring localnets, then testnets, then mainnets.
func (c ChainItems) Lookup(name string) (ChainInfo, NetworkType, bool) {
	if chain, ok := c.Localnets[name]; ok {
		return chain, NetworkLocal, true
	}
	if chain, ok := c.Testnets[name]; ok {
		return chain, NetworkTestnet, true
	}
	if chain, ok := c.Mainnets[name]; ok {
		return chain, NetworkMainnet, true
	}
	return ChainInfo{}, "", false
}

// Clone copies the partition maps. Chain values are shared.
func (c ChainItems) Clone() ChainItems {
	return ChainItems{
		Mainnets:  cloneChains(c.Mainnets),
		Testnets:  cloneChains(c.Testnets),
		Localnets: cloneChains(c.Localnets),
	}
}

func cloneChains(in map[string]ChainInfo) map[string]ChainInfo {
	out := make(map[string]ChainInfo, len(in))
	for name, chain := range in {
		out[name] = chain
	}
	return out
}

// EmptyChain returns the chain every unresolvable lookup yields.
func EmptyChain() ChainInfo {
	return ChainInfo{
		NodeAddresses: []string{},
		Assets:        []Asset{},
	}
}

// IsEmpty reports whether the chain carries no registry name.
func (c ChainInfo) IsEmpty() bool {
	return c.RegistryName == ""
}

// RegistrySnapshot is the canonical mainnets and testnets supplied by the registry source.
type RegistrySnapshot struct {
	Mainnets map[string]ChainInfo
	Testnets map[string]ChainInfo
	// SHA identifies the registry content the partitions were read from.
	SHA string
}
