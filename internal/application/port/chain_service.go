package port

import (
	"context"

	"chainstore/internal/domain/entity"
	domainRepo "chainstore/internal/domain/repository"
)

// ChainService defines the chain context operations exposed to delivery layers.
type ChainService interface {
	// Chains returns a copy of every known chain, by partition.
	Chains(ctx context.Context) entity.ChainItems

	// ResolveChain merges the stored record, the environment defaults and the location's query,
	// later sources overriding earlier ones. An empty name falls back to the most recent chain,
	// then to the environment chain.
	ResolveChain(ctx context.Context, name string, loc domainRepo.Location) (entity.ChainInfo, error)

	// AddLocalChain stores a user-defined chain.
	AddLocalChain(ctx context.Context, chain entity.ChainInfo) error

	// RemoveLocalChain deletes a user-defined chain.
	RemoveLocalChain(ctx context.Context, name string) error

	// RecentChains returns recently used chains, most recent first.
	RecentChains(ctx context.Context) ([]entity.ChainInfo, error)

	// TouchRecentChain marks a known chain as the most recently used.
	TouchRecentChain(ctx context.Context, name string) error

	// WriteChainURL mirrors chain into loc.
	WriteChainURL(ctx context.Context, chain entity.ChainInfo, loc domainRepo.Location)

	// RegistrySHA returns the hash of the registry content currently stored.
	RegistrySHA(ctx context.Context) (string, error)

	// SyncRegistry replaces mainnets and testnets when the snapshot differs from the stored one.
	SyncRegistry(ctx context.Context, snapshot entity.RegistrySnapshot) (bool, error)
}
