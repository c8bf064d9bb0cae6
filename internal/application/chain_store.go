package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"chainstore/internal/config"
	"chainstore/internal/domain/entity"
	domainRepo "chainstore/internal/domain/repository"
	"chainstore/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Storage keys.
const (
	registryShaStorageKey  = "context-registry-sha"
	chainsStorageKey       = "context-chain-items"
	recentChainsStorageKey = "context-recent-chains"
)

// ChainStore reads and writes chain records across persistent storage, the page
// location and the environment defaults. It holds no chain state of its own.
type ChainStore struct {
	kv     domainRepo.KeyValueStore
	env    config.ChainDefaults
	logger *zap.Logger
}

// NewChainStore creates a ChainStore over the given backend and environment chain.
func NewChainStore(kv domainRepo.KeyValueStore, env config.ChainDefaults, logger *zap.Logger) *ChainStore {
	return &ChainStore{
		kv:     kv,
		env:    env,
		logger: logger.Named("ChainStore"),
	}
}

// RegistrySHA returns the last seen registry content hash, or "" if none was stored.
func (s *ChainStore) RegistrySHA(ctx context.Context) (string, error) {
	sha, _, err := s.kv.Get(ctx, registryShaStorageKey)
	return sha, err
}

// SetRegistrySHA stores the registry content hash.
func (s *ChainStore) SetRegistrySHA(ctx context.Context, sha string) error {
	return s.kv.Set(ctx, registryShaStorageKey, sha)
}

// chainsSnapshot is the persisted form of ChainItems: each partition is a list of [name, chain] pairs.
type chainsSnapshot struct {
	Mainnets  []json.RawMessage `json:"mainnets"`
	Testnets  []json.RawMessage `json:"testnets"`
	Localnets []json.RawMessage `json:"localnets"`
}

// LoadChains reads the stored snapshot. A missing or undecodable snapshot yields empty partitions;
// an undecodable one also forgets the registry SHA.
func (s *ChainStore) LoadChains(ctx context.Context) (entity.ChainItems, error) {
	raw, found, err := s.kv.Get(ctx, chainsStorageKey)
	if err != nil {
		return entity.ChainItems{}, err
	}
	if !found {
		return entity.NewChainItems(), nil
	}

	items, err := decodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("Stored chain snapshot is malformed, starting empty", zap.Error(err))
		// Registry partitions are lost with the snapshot; forget their SHA too.
		if err := s.SetRegistrySHA(ctx, ""); err != nil {
			return entity.ChainItems{}, err
		}
		return entity.NewChainItems(), nil
	}

	s.logger.Debug("Loaded chain snapshot",
		zap.Int("mainnets", len(items.Mainnets)),
		zap.Int("testnets", len(items.Testnets)),
		zap.Int("localnets", len(items.Localnets)))
	return items, nil
}

// SaveChains overwrites the stored snapshot with items.
func (s *ChainStore) SaveChains(ctx context.Context, items entity.ChainItems) error {
	data, err := json.Marshal(map[string][][2]interface{}{
		"mainnets":  toPairs(items.Mainnets),
		"testnets":  toPairs(items.Testnets),
		"localnets": toPairs(items.Localnets),
	})
	if err != nil {
		return fmt.Errorf("%w: encode chain snapshot: %v", apperrors.ErrInternal, err)
	}
	return s.kv.Set(ctx, chainsStorageKey, string(data))
}

// AddLocalChain inserts or replaces chain in the localnets partition and persists items.
func (s *ChainStore) AddLocalChain(ctx context.Context, chain entity.ChainInfo, items *entity.ChainItems) error {
	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if items.Localnets == nil {
		items.Localnets = make(map[string]entity.ChainInfo)
	}
	items.Localnets[chain.RegistryName] = chain
	s.logger.Debug("Local chain stored", zap.String("registryName", chain.RegistryName))
	return s.SaveChains(ctx, *items)
}

// RemoveLocalChain deletes name from the localnets partition and persists items.
func (s *ChainStore) RemoveLocalChain(ctx context.Context, name string, items *entity.ChainItems) error {
	delete(items.Localnets, name)
	s.logger.Debug("Local chain removed", zap.String("registryName", name))
	return s.SaveChains(ctx, *items)
}

// RecentChainNames returns the recently used registry names, most recent first.
func (s *ChainStore) RecentChainNames(ctx context.Context) ([]string, error) {
	raw, found, err := s.kv.Get(ctx, recentChainsStorageKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		s.logger.Warn("Stored recent chain names are malformed, starting empty", zap.Error(err))
		return []string{}, nil
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// SetRecentChainNames overwrites the recently used list.
func (s *ChainStore) SetRecentChainNames(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("%w: encode recent chain names: %v", apperrors.ErrInternal, err)
	}
	return s.kv.Set(ctx, recentChainsStorageKey, string(data))
}

// AddRecentChainName moves name to the front of the recently used list, keeping at most MaxRecentChains.
func (s *ChainStore) AddRecentChainName(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty chain name", apperrors.ErrInvalidInput)
	}
	stored, err := s.RecentChainNames(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, entity.MaxRecentChains)
	names = append(names, name)
	for _, storedName := range stored {
		if len(names) == entity.MaxRecentChains {
			break
		}
		if storedName != name {
			names = append(names, storedName)
		}
	}
	return s.SetRecentChainNames(ctx, names)
}

// RecentChains resolves the recently used names against items, skipping names no partition knows.
func (s *ChainStore) RecentChains(ctx context.Context, items entity.ChainItems) ([]entity.ChainInfo, error) {
	names, err := s.RecentChainNames(ctx)
	if err != nil {
		return nil, err
	}

	chains := make([]entity.ChainInfo, 0, len(names))
	for _, name := range names {
		if chain, _, ok := items.Lookup(name); ok {
			chains = append(chains, chain)
		}
	}
	return chains, nil
}

// FirstRecentChain returns the most recently used chain that items can resolve.
func (s *ChainStore) FirstRecentChain(ctx context.Context, items entity.ChainItems) (entity.ChainInfo, bool, error) {
	chains, err := s.RecentChains(ctx, items)
	if err != nil || len(chains) == 0 {
		return entity.ChainInfo{}, false, err
	}
	return chains[0], true, nil
}

// queryFields exposes url.Values as an entity.FieldSource.
type queryFields url.Values

func (q queryFields) Lookup(key string) (string, bool) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// FromURL builds a sparse chain from the location's query string.
func (s *ChainStore) FromURL(loc domainRepo.Location, name string) entity.PartialChain {
	if name == "" {
		return entity.EmptyChain().AsPartial()
	}
	return entity.BuildPartial(name, queryFields(loc.Query()))
}

// FromEnv builds a sparse chain from the environment defaults, which describe a single chain.
func (s *ChainStore) FromEnv(name string) entity.PartialChain {
	if name != "" && s.env.RegistryName != name {
		return entity.EmptyChain().AsPartial()
	}
	return entity.BuildPartial(name, s.env)
}

// EnvRegistryName returns the registry name of the environment chain.
func (s *ChainStore) EnvRegistryName() string {
	return s.env.RegistryName
}

// FromStorage looks name up in items, returning EmptyChain when no partition has it.
func (s *ChainStore) FromStorage(name string, items entity.ChainItems) entity.ChainInfo {
	if name == "" {
		return entity.EmptyChain()
	}
	chain, _, ok := items.Lookup(name)
	if !ok {
		return entity.EmptyChain()
	}
	return chain
}

// WriteToURL mirrors chain into the location. Chains unknown to items, or local ones, are written in
// full; registry chains only carry the fields that differ from their stored record.
func (s *ChainStore) WriteToURL(loc domainRepo.Location, chain entity.ChainInfo, items entity.ChainItems) {
	stored, _, found := items.Lookup(chain.RegistryName)
	_, isLocal := items.Localnets[chain.RegistryName]

	params := url.Values{}
	fields := chain.EncodeFields()
	if !found || isLocal {
		for _, f := range fields {
			if f.Set {
				params.Set(f.Key, f.Value)
			}
		}
	} else {
		storedFields := stored.EncodeFields()
		for i, f := range fields {
			if f.Value != storedFields[i].Value {
				params.Set(f.Key, f.Value)
			}
		}
	}

	path := "/"
	if strings.Contains(loc.Path(), chain.RegistryName) {
		path = loc.Path()
	}
	loc.Replace(path, params)

	s.logger.Debug("Chain written to location",
		zap.String("registryName", chain.RegistryName),
		zap.Bool("custom", !found || isLocal),
		zap.Int("params", len(params)))
}

func toPairs(chains map[string]entity.ChainInfo) [][2]interface{} {
	names := make([]string, 0, len(chains))
	for name := range chains {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([][2]interface{}, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, [2]interface{}{name, chains[name]})
	}
	return pairs
}

func decodeSnapshot(raw string) (entity.ChainItems, error) {
	var snapshot chainsSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return entity.ChainItems{}, err
	}

	items := entity.NewChainItems()
	partitions := []struct {
		pairs []json.RawMessage
		into  map[string]entity.ChainInfo
	}{
		{snapshot.Mainnets, items.Mainnets},
		{snapshot.Testnets, items.Testnets},
		{snapshot.Localnets, items.Localnets},
	}
	for _, p := range partitions {
		for _, rawPair := range p.pairs {
			var pair []json.RawMessage
			if err := json.Unmarshal(rawPair, &pair); err != nil {
				return entity.ChainItems{}, err
			}
			if len(pair) != 2 {
				return entity.ChainItems{}, fmt.Errorf("chain pair has %d elements, want 2", len(pair))
			}
			var name string
			if err := json.Unmarshal(pair[0], &name); err != nil {
				return entity.ChainItems{}, err
			}
			var chain entity.ChainInfo
			if err := json.Unmarshal(pair[1], &chain); err != nil {
				return entity.ChainItems{}, err
			}
			p.into[name] = chain
		}
	}
	return items, nil
}
