package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Field keys shared by the URL query string, the environment defaults and JSON.
const (
	FieldRegistryName         = "registryName"
	FieldLogo                 = "logo"
	FieldChainID              = "chainId"
	FieldChainDisplayName     = "chainDisplayName"
	FieldNodeAddress          = "nodeAddress"
	FieldNodeAddresses        = "nodeAddresses"
	FieldDenom                = "denom"
	FieldDisplayDenom         = "displayDenom"
	FieldDisplayDenomExponent = "displayDenomExponent"
	FieldAssets               = "assets"
	FieldGasPrice             = "gasPrice"
	FieldAddressPrefix        = "addressPrefix"
	FieldExplorerLink         = "explorerLink"
)

// FieldSource yields raw string values by field key.
type FieldSource interface {
	Lookup(key string) (string, bool)
}

// PartialChain is a sparse ChainInfo. Nil fields are absent.
type PartialChain struct {
	RegistryName         string   `json:"registryName"`
	Logo                 *string  `json:"logo,omitempty"`
	ChainID              *string  `json:"chainId,omitempty"`
	ChainDisplayName     *string  `json:"chainDisplayName,omitempty"`
	NodeAddress          *string  `json:"nodeAddress,omitempty"`
	NodeAddresses        []string `json:"nodeAddresses,omitempty"`
	Denom                *string  `json:"denom,omitempty"`
	DisplayDenom         *string  `json:"displayDenom,omitempty"`
	DisplayDenomExponent *int     `json:"displayDenomExponent,omitempty"`
	Assets               []Asset  `json:"assets,omitempty"`
	GasPrice             *string  `json:"gasPrice,omitempty"`
	AddressPrefix        *string  `json:"addressPrefix,omitempty"`
	ExplorerLink         *string  `json:"explorerLink,omitempty"`
}

type fieldDecoder struct {
	key    string
	decode func(p *PartialChain, raw string)
}

func text(set func(p *PartialChain, v *string)) func(p *PartialChain, raw string) {
	return func(p *PartialChain, raw string) {
		v := raw
		set(p, &v)
	}
}

// partialDecoders is applied in order by BuildPartial. Empty raw values never reach a decoder.
var partialDecoders = []fieldDecoder{
	{FieldLogo, text(func(p *PartialChain, v *string) { p.Logo = v })},
	{FieldChainID, text(func(p *PartialChain, v *string) { p.ChainID = v })},
	{FieldChainDisplayName, text(func(p *PartialChain, v *string) { p.ChainDisplayName = v })},
	{FieldNodeAddresses, func(p *PartialChain, raw string) {
		var addresses []string
		if err := json.Unmarshal([]byte(raw), &addresses); err != nil || len(addresses) == 0 {
			return
		}
		// The singular address is superseded by the list.
		blank := ""
		p.NodeAddress = &blank
		p.NodeAddresses = addresses
	}},
	{FieldDenom, text(func(p *PartialChain, v *string) { p.Denom = v })},
	{FieldDisplayDenom, text(func(p *PartialChain, v *string) { p.DisplayDenom = v })},
	{FieldDisplayDenomExponent, func(p *PartialChain, raw string) {
		exponent, ok := parseExponent(raw)
		if !ok {
			return
		}
		p.DisplayDenomExponent = &exponent
	}},
	{FieldAssets, func(p *PartialChain, raw string) {
		var assets []Asset
		if err := json.Unmarshal([]byte(raw), &assets); err != nil || len(assets) == 0 {
			return
		}
		p.Assets = assets
	}},
	{FieldGasPrice, text(func(p *PartialChain, v *string) { p.GasPrice = v })},
	{FieldAddressPrefix, text(func(p *PartialChain, v *string) { p.AddressPrefix = v })},
	{FieldExplorerLink, text(func(p *PartialChain, v *string) { p.ExplorerLink = v })},
}

// BuildPartial reads every known field from src. Missing, empty or undecodable values are left absent.
func BuildPartial(name string, src FieldSource) PartialChain {
	partial := PartialChain{RegistryName: name}
	for _, d := range partialDecoders {
		raw, ok := src.Lookup(d.key)
		if !ok || raw == "" {
			continue
		}
		d.decode(&partial, raw)
	}
	return partial
}

// AsPartial marks every field of c as present.
func (c ChainInfo) AsPartial() PartialChain {
	exponent := c.DisplayDenomExponent
	nodeAddresses := c.NodeAddresses
	if nodeAddresses == nil {
		nodeAddresses = []string{}
	}
	assets := c.Assets
	if assets == nil {
		assets = []Asset{}
	}
	return PartialChain{
		RegistryName:         c.RegistryName,
		Logo:                 ptr(c.Logo),
		ChainID:              ptr(c.ChainID),
		ChainDisplayName:     ptr(c.ChainDisplayName),
		NodeAddress:          ptr(c.NodeAddress),
		NodeAddresses:        nodeAddresses,
		Denom:                ptr(c.Denom),
		DisplayDenom:         ptr(c.DisplayDenom),
		DisplayDenomExponent: &exponent,
		Assets:               assets,
		GasPrice:             ptr(c.GasPrice),
		AddressPrefix:        ptr(c.AddressPrefix),
		ExplorerLink:         ptr(c.ExplorerLink),
	}
}

// ApplyTo overlays the present fields of p on base.
func (p PartialChain) ApplyTo(base ChainInfo) ChainInfo {
	out := base
	if p.RegistryName != "" {
		out.RegistryName = p.RegistryName
	}
	assign(&out.Logo, p.Logo)
	assign(&out.ChainID, p.ChainID)
	assign(&out.ChainDisplayName, p.ChainDisplayName)
	assign(&out.NodeAddress, p.NodeAddress)
	if p.NodeAddresses != nil {
		out.NodeAddresses = p.NodeAddresses
	}
	assign(&out.Denom, p.Denom)
	assign(&out.DisplayDenom, p.DisplayDenom)
	if p.DisplayDenomExponent != nil {
		out.DisplayDenomExponent = *p.DisplayDenomExponent
	}
	if p.Assets != nil {
		out.Assets = p.Assets
	}
	assign(&out.GasPrice, p.GasPrice)
	assign(&out.AddressPrefix, p.AddressPrefix)
	assign(&out.ExplorerLink, p.ExplorerLink)
	return out
}

// HasFields reports whether any field besides the registry name is present.
func (p PartialChain) HasFields() bool {
	return p.Logo != nil || p.ChainID != nil || p.ChainDisplayName != nil ||
		p.NodeAddress != nil || p.NodeAddresses != nil || p.Denom != nil ||
		p.DisplayDenom != nil || p.DisplayDenomExponent != nil || p.Assets != nil ||
		p.GasPrice != nil || p.AddressPrefix != nil || p.ExplorerLink != nil
}

func ptr(s string) *string {
	return &s
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// parseExponent accepts any numeric literal with an integral value, so "6", "6.0" and "6e0" all read as 6.
func parseExponent(raw string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
