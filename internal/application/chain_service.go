package application

import (
	"context"
	"fmt"
	"sync"

	"chainstore/internal/application/port"
	"chainstore/internal/domain"
	"chainstore/internal/domain/entity"
	domainRepo "chainstore/internal/domain/repository"

	"go.uber.org/zap"
)

// Compile-time check to ensure chainService implements ChainService
var _ port.ChainService = (*chainService)(nil)

// chainService keeps the loaded ChainItems in memory and persists every mutation through ChainStore.
// items only changes once the mutation has been saved.
type chainService struct {
	store  *ChainStore
	logger *zap.Logger

	mu    sync.RWMutex
	items entity.ChainItems
}

// NewChainService loads the stored chains and returns a service over them.
func NewChainService(ctx context.Context, store *ChainStore, logger *zap.Logger) (port.ChainService, error) {
	items, err := store.LoadChains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored chains: %w", err)
	}

	svc := &chainService{
		store:  store,
		logger: logger.Named("ChainService"),
		items:  items,
	}
	svc.logger.Info("Chain service ready",
		zap.Int("mainnets", len(items.Mainnets)),
		zap.Int("testnets", len(items.Testnets)),
		zap.Int("localnets", len(items.Localnets)))
	return svc, nil
}

// Chains returns a copy of every known chain.
func (uc *chainService) Chains(_ context.Context) entity.ChainItems {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.items.Clone()
}

// ResolveChain merges storage, environment and location, in increasing precedence.
func (uc *chainService) ResolveChain(ctx context.Context, name string, loc domainRepo.Location) (entity.ChainInfo, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if name == "" {
		recent, ok, err := uc.store.FirstRecentChain(ctx, uc.items)
		if err != nil {
			return entity.ChainInfo{}, err
		}
		if ok {
			name = recent.RegistryName
		} else {
			name = uc.store.EnvRegistryName()
		}
	}
	if name == "" {
		return entity.ChainInfo{}, fmt.Errorf("%w: no chain name given and no default available", domain.ErrChainNotFound)
	}

	_, _, stored := uc.items.Lookup(name)
	fromEnv := uc.store.EnvRegistryName() == name
	urlChain := uc.store.FromURL(loc, name)
	if !stored && !fromEnv && !urlChain.HasFields() {
		uc.logger.Debug("Chain unknown to every source", zap.String("registryName", name))
		return entity.ChainInfo{}, fmt.Errorf("%w: %s", domain.ErrChainNotFound, name)
	}

	chain := uc.store.FromStorage(name, uc.items)
	chain.RegistryName = name
	if fromEnv {
		chain = uc.store.FromEnv(name).ApplyTo(chain)
	}
	chain = urlChain.ApplyTo(chain)

	uc.logger.Debug("Resolved chain",
		zap.String("registryName", name),
		zap.Bool("stored", stored),
		zap.Bool("env", fromEnv),
		zap.Bool("url", urlChain.HasFields()))
	return chain, nil
}

// AddLocalChain stores chain as a localnet unless a registry chain already uses its name.
func (uc *chainService) AddLocalChain(ctx context.Context, chain entity.ChainInfo) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	_, inMainnets := uc.items.Mainnets[chain.RegistryName]
	_, inTestnets := uc.items.Testnets[chain.RegistryName]
	if inMainnets || inTestnets {
		return fmt.Errorf("%w: %s", domain.ErrLocalChainConflict, chain.RegistryName)
	}

	next := uc.items.Clone()
	if err := uc.store.AddLocalChain(ctx, chain, &next); err != nil {
		uc.logger.Error("Failed to add local chain", zap.String("registryName", chain.RegistryName), zap.Error(err))
		return err
	}
	uc.items = next
	uc.logger.Info("Local chain added", zap.String("registryName", chain.RegistryName))
	return nil
}

// RemoveLocalChain deletes a localnet.
func (uc *chainService) RemoveLocalChain(ctx context.Context, name string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.items.Localnets[name]; !ok {
		return fmt.Errorf("%w: local chain %s", domain.ErrChainNotFound, name)
	}
	next := uc.items.Clone()
	if err := uc.store.RemoveLocalChain(ctx, name, &next); err != nil {
		uc.logger.Error("Failed to remove local chain", zap.String("registryName", name), zap.Error(err))
		return err
	}
	uc.items = next
	uc.logger.Info("Local chain removed", zap.String("registryName", name))
	return nil
}

// RecentChains returns the recently used chains that are still known.
func (uc *chainService) RecentChains(ctx context.Context) ([]entity.ChainInfo, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.store.RecentChains(ctx, uc.items)
}

// TouchRecentChain moves a known chain to the front of the recently used list.
func (uc *chainService) TouchRecentChain(ctx context.Context, name string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, _, ok := uc.items.Lookup(name); !ok {
		return fmt.Errorf("%w: %s", domain.ErrChainNotFound, name)
	}
	return uc.store.AddRecentChainName(ctx, name)
}

// WriteChainURL mirrors chain into loc against the current partitions.
func (uc *chainService) WriteChainURL(_ context.Context, chain entity.ChainInfo, loc domainRepo.Location) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	uc.store.WriteToURL(loc, chain, uc.items)
}

// RegistrySHA returns the stored registry content hash.
func (uc *chainService) RegistrySHA(ctx context.Context) (string, error) {
	return uc.store.RegistrySHA(ctx)
}

// SyncRegistry swaps in the snapshot's mainnets and testnets when its SHA is new. Localnets are kept.
func (uc *chainService) SyncRegistry(ctx context.Context, snapshot entity.RegistrySnapshot) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	storedSHA, err := uc.store.RegistrySHA(ctx)
	if err != nil {
		return false, err
	}
	if storedSHA != "" && storedSHA == snapshot.SHA {
		uc.logger.Debug("Registry unchanged", zap.String("sha", storedSHA))
		return false, nil
	}

	next := entity.ChainItems{
		Mainnets:  snapshot.Mainnets,
		Testnets:  snapshot.Testnets,
		Localnets: uc.items.Localnets,
	}.Clone()
	if err := uc.store.SaveChains(ctx, next); err != nil {
		return false, fmt.Errorf("failed to save synced registry: %w", err)
	}
	if err := uc.store.SetRegistrySHA(ctx, snapshot.SHA); err != nil {
		return false, fmt.Errorf("failed to store registry sha: %w", err)
	}
	uc.items = next

	uc.logger.Info("Registry synced",
		zap.String("previousSha", storedSHA),
		zap.String("sha", snapshot.SHA),
		zap.Int("mainnets", len(next.Mainnets)),
		zap.Int("testnets", len(next.Testnets)))
	return true, nil
}
