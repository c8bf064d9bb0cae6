package seed

import (
	"net/url"

	dto "chainstore/internal/adapter/storage/seed/dto"
	"chainstore/internal/domain/entity"

	"go.uber.org/zap"
)

// toDomainChains converts raw seed entries to chains keyed by registry name.
func toDomainChains(rawChains []dto.ChainRaw, network entity.NetworkType, logger *zap.Logger) map[string]entity.ChainInfo {
	chains := make(map[string]entity.ChainInfo, len(rawChains))
	for _, raw := range rawChains {
		if raw.ChainName == "" {
			logger.Warn("Skipping seed chain without chain_name",
				zap.String("network", string(network)),
				zap.String("chainId", raw.ChainID))
			continue
		}

		var nodeAddresses []string
		for _, endpoint := range raw.APIs.RPC {
			if _, err := url.ParseRequestURI(endpoint.Address); err != nil {
				logger.Warn("Skipping invalid RPC address during mapping",
					zap.String("address", endpoint.Address),
					zap.String("chainName", raw.ChainName),
					zap.Error(err))
				continue
			}
			nodeAddresses = append(nodeAddresses, endpoint.Address)
		}

		if _, dup := chains[raw.ChainName]; dup {
			logger.Warn("Duplicate seed chain, later entry wins", zap.String("chainName", raw.ChainName))
		}
		chains[raw.ChainName] = entity.ChainInfo{
			RegistryName:         raw.ChainName,
			Logo:                 raw.Logo,
			ChainID:              raw.ChainID,
			ChainDisplayName:     raw.PrettyName,
			NodeAddresses:        nodeAddresses,
			Denom:                raw.Denom,
			DisplayDenom:         raw.DisplayDenom,
			DisplayDenomExponent: raw.DisplayDenomExponent,
			Assets:               raw.Assets,
			GasPrice:             raw.GasPrice,
			AddressPrefix:        raw.Bech32Prefix,
			ExplorerLink:         raw.ExplorerTxLink,
		}
	}
	return chains
}
