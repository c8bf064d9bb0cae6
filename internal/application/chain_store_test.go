package application

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"chainstore/internal/adapter/location"
	"chainstore/internal/adapter/storage/memory"
	"chainstore/internal/config"
	"chainstore/internal/domain/entity"
	"chainstore/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, env config.ChainDefaults) (*ChainStore, *memory.KVRepository) {
	t.Helper()
	kv := memory.NewKVRepository(config.CacheConfig{}, zap.NewNop())
	t.Cleanup(func() { _ = kv.Close() })
	return NewChainStore(kv, env, zap.NewNop()), kv
}

func sampleItems() entity.ChainItems {
	items := entity.NewChainItems()
	items.Mainnets["cosmoshub"] = entity.ChainInfo{
		RegistryName:         "cosmoshub",
		ChainID:              "cosmoshub-4",
		Denom:                "uatom",
		DisplayDenom:         "atom",
		DisplayDenomExponent: 6,
		GasPrice:             "0.025",
		NodeAddresses:        []string{"https://rpc.cosmos.network"},
		Assets:               []entity.Asset{{Base: "uatom", Symbol: "ATOM"}},
	}
	items.Testnets["theta-testnet"] = entity.ChainInfo{RegistryName: "theta-testnet", Denom: "uatom"}
	items.Localnets["local-1"] = entity.ChainInfo{RegistryName: "local-1", Denom: "ustake", AddressPrefix: "wasm"}
	return items
}

func TestChainStore_RegistrySHA(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()

	sha, err := store.RegistrySHA(ctx)
	require.NoError(t, err)
	assert.Empty(t, sha)

	require.NoError(t, store.SetRegistrySHA(ctx, "f00d"))
	sha, err = store.RegistrySHA(ctx)
	require.NoError(t, err)
	assert.Equal(t, "f00d", sha)
}

func TestChainStore_LoadChainsEmpty(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})

	items, err := store.LoadChains(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items.Mainnets)
	assert.NotNil(t, items.Testnets)
	assert.NotNil(t, items.Localnets)
	assert.Empty(t, items.Mainnets)
}

func TestChainStore_SaveLoadRoundTrip(t *testing.T) {
	store, kv := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()
	items := sampleItems()

	require.NoError(t, store.SaveChains(ctx, items))
	loaded, err := store.LoadChains(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)

	first, _, err := kv.Get(ctx, chainsStorageKey)
	require.NoError(t, err)
	require.NoError(t, store.SaveChains(ctx, loaded))
	second, _, err := kv.Get(ctx, chainsStorageKey)
	require.NoError(t, err)
	assert.Equal(t, first, second, "saving what was loaded rewrites identical bytes")
}

func TestChainStore_SnapshotShape(t *testing.T) {
	store, kv := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()
	items := entity.NewChainItems()
	items.Localnets["local-1"] = entity.ChainInfo{RegistryName: "local-1", Denom: "ustake"}

	require.NoError(t, store.SaveChains(ctx, items))
	raw, _, err := kv.Get(ctx, chainsStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"mainnets":[],"testnets":[],"localnets":[["local-1",{"registryName":"local-1","denom":"ustake"}]]}`,
		raw)
}

func TestChainStore_LoadChainsMalformedDegradesToEmpty(t *testing.T) {
	store, kv := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()

	for _, raw := range []string{`{not json`, `{"mainnets":[["only-name"]]}`, `{"localnets":[[1,{}]]}`} {
		require.NoError(t, store.SetRegistrySHA(ctx, "f00d"))
		require.NoError(t, kv.Set(ctx, chainsStorageKey, raw))
		items, err := store.LoadChains(ctx)
		require.NoError(t, err, raw)
		assert.Equal(t, entity.NewChainItems(), items, raw)

		sha, err := store.RegistrySHA(ctx)
		require.NoError(t, err)
		assert.Empty(t, sha, "registry sha is forgotten with the snapshot: %s", raw)
	}
}

func TestChainStore_AddLocalChainKeepsRelativeAddresses(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()
	items := entity.NewChainItems()

	chain := entity.ChainInfo{RegistryName: "l", NodeAddress: "localhost:26657", Logo: "/logos/l.svg"}
	require.NoError(t, store.AddLocalChain(ctx, chain, &items))

	persisted, err := store.LoadChains(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain, persisted.Localnets["l"])
}

func TestChainStore_AddAndRemoveLocalChain(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()
	items := entity.NewChainItems()

	chain := entity.ChainInfo{RegistryName: "local-1", Denom: "uatom"}
	require.NoError(t, store.AddLocalChain(ctx, chain, &items))
	assert.Equal(t, chain, items.Localnets["local-1"])

	loaded, err := store.LoadChains(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain, loaded.Localnets["local-1"])

	updated := entity.ChainInfo{RegistryName: "local-1", Denom: "ustake"}
	require.NoError(t, store.AddLocalChain(ctx, updated, &items))
	assert.Equal(t, "ustake", items.Localnets["local-1"].Denom)

	require.NoError(t, store.RemoveLocalChain(ctx, "local-1", &items))
	assert.NotContains(t, items.Localnets, "local-1")
	loaded, err = store.LoadChains(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Localnets)
}

func TestChainStore_AddLocalChainRejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := entity.ChainItems{}

	err := store.AddLocalChain(context.Background(), entity.ChainInfo{Denom: "uatom"}, &items)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, items.Localnets)
}

func TestChainStore_RecentChainNames(t *testing.T) {
	store, kv := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()

	names, err := store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)

	require.NoError(t, store.SetRecentChainNames(ctx, []string{"b", "a"}))
	names, err = store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	require.NoError(t, kv.Set(ctx, recentChainsStorageKey, "garbage"))
	names, err = store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)
}

func TestChainStore_AddRecentChainName(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.AddRecentChainName(ctx, name))
	}
	names, err := store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d", "c", "b"}, names)

	require.NoError(t, store.AddRecentChainName(ctx, "c"))
	names, err = store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "e", "d", "b"}, names)

	require.NoError(t, store.AddRecentChainName(ctx, "c"))
	names, err = store.RecentChainNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "e", "d", "b"}, names)

	require.ErrorIs(t, store.AddRecentChainName(ctx, ""), apperrors.ErrInvalidInput)
}

func TestChainStore_AddRecentChainNameInvariants(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()

	sequence := []string{"a", "b", "a", "c", "a", "d", "e", "b", "b", "f", "a"}
	for _, name := range sequence {
		require.NoError(t, store.AddRecentChainName(ctx, name))
		names, err := store.RecentChainNames(ctx)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(names), entity.MaxRecentChains)
		assert.Equal(t, name, names[0])
		seen := make(map[string]bool)
		for _, n := range names {
			assert.False(t, seen[n], "duplicate %q in %v", n, names)
			seen[n] = true
		}
	}
}

func TestChainStore_RecentChains(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	ctx := context.Background()
	items := sampleItems()

	chain, ok, err := store.FirstRecentChain(ctx, items)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, entity.ChainInfo{}, chain)

	require.NoError(t, store.SetRecentChainNames(ctx, []string{"gone", "local-1", "cosmoshub", "theta-testnet"}))
	chains, err := store.RecentChains(ctx, items)
	require.NoError(t, err)
	require.Len(t, chains, 3)
	assert.Equal(t, "local-1", chains[0].RegistryName)
	assert.Equal(t, "cosmoshub", chains[1].RegistryName)
	assert.Equal(t, "theta-testnet", chains[2].RegistryName)

	chain, ok, err = store.FirstRecentChain(ctx, items)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "local-1", chain.RegistryName)
}

func TestChainStore_FromURL(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})

	assert.Equal(t, entity.EmptyChain().AsPartial(), store.FromURL(location.New("/", "denom=uatom"), ""))

	loc := location.New("/local-1", url.Values{
		"denom":                {"ustake"},
		"displayDenomExponent": {"6"},
		"nodeAddresses":        {`["http://localhost:26657"]`},
		"assets":               {`{broken`},
		"logo":                 {""},
	}.Encode())
	partial := store.FromURL(loc, "local-1")

	assert.Equal(t, "local-1", partial.RegistryName)
	require.NotNil(t, partial.Denom)
	assert.Equal(t, "ustake", *partial.Denom)
	require.NotNil(t, partial.DisplayDenomExponent)
	assert.Equal(t, 6, *partial.DisplayDenomExponent)
	assert.Equal(t, []string{"http://localhost:26657"}, partial.NodeAddresses)
	require.NotNil(t, partial.NodeAddress)
	assert.Empty(t, *partial.NodeAddress)
	assert.Nil(t, partial.Assets)
	assert.Nil(t, partial.Logo)
}

func TestChainStore_FromEnv(t *testing.T) {
	env := config.ChainDefaults{
		RegistryName:         "devnet",
		Denom:                "udev",
		DisplayDenomExponent: "6",
		ExplorerLink:         "https://explorer.devnet.example/tx/",
		NodeAddresses:        `["http://localhost:26657"]`,
	}
	store, _ := newTestStore(t, env)

	assert.Equal(t, entity.EmptyChain().AsPartial(), store.FromEnv("other"))

	partial := store.FromEnv("devnet")
	assert.Equal(t, "devnet", partial.RegistryName)
	require.NotNil(t, partial.Denom)
	assert.Equal(t, "udev", *partial.Denom)
	require.NotNil(t, partial.ExplorerLink)
	assert.Equal(t, "https://explorer.devnet.example/tx/", *partial.ExplorerLink)
	assert.Equal(t, []string{"http://localhost:26657"}, partial.NodeAddresses)
	assert.Nil(t, partial.GasPrice)

	unnamed := store.FromEnv("")
	assert.Equal(t, "", unnamed.RegistryName)
	require.NotNil(t, unnamed.Denom)
	assert.Equal(t, "udev", *unnamed.Denom)
}

func TestChainStore_FromStorage(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := entity.NewChainItems()
	local := entity.ChainInfo{RegistryName: "local-1", Denom: "uatom", ChainID: "local-1"}
	items.Localnets["local-1"] = local

	assert.Equal(t, local, store.FromStorage("local-1", items))
	assert.Equal(t, entity.EmptyChain(), store.FromStorage("missing", items))
	assert.Equal(t, entity.EmptyChain(), store.FromStorage("", items))
}

func TestChainStore_WriteToURLCustomChain(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	loc := location.New("/somewhere/else", "stale=1")

	store.WriteToURL(loc, entity.ChainInfo{RegistryName: "x", Denom: "foo"}, sampleItems())

	assert.Equal(t, "/", loc.Path())
	assert.Equal(t, url.Values{"registryName": {"x"}, "denom": {"foo"}}, loc.Query())
}

func TestChainStore_WriteToURLLocalChainWritesEverything(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := sampleItems()
	loc := location.New("/local-1/send", "")

	chain := items.Localnets["local-1"]
	chain.NodeAddresses = []string{"http://localhost:26657"}
	store.WriteToURL(loc, chain, items)

	assert.Equal(t, "/local-1/send", loc.Path())
	query := loc.Query()
	assert.Equal(t, "local-1", query.Get("registryName"))
	assert.Equal(t, "ustake", query.Get("denom"))
	assert.Equal(t, "wasm", query.Get("addressPrefix"))
	assert.Equal(t, `["http://localhost:26657"]`, query.Get("nodeAddresses"))
	assert.False(t, query.Has("gasPrice"))
}

func TestChainStore_WriteToURLRegistryChainWritesDiff(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := sampleItems()
	loc := location.New("/cosmoshub", "")

	chain := items.Mainnets["cosmoshub"]
	chain.GasPrice = "0.1"
	store.WriteToURL(loc, chain, items)

	assert.Equal(t, "/cosmoshub", loc.Path())
	assert.Equal(t, url.Values{"gasPrice": {"0.1"}}, loc.Query())
	assert.Equal(t, "/cosmoshub?gasPrice=0.1", loc.String())
}

func TestChainStore_WriteToURLRegistryChainListDiff(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := sampleItems()
	loc := location.New("/", "")

	chain := items.Mainnets["cosmoshub"]
	chain.NodeAddresses = []string{"https://rpc.other.example"}
	chain.DisplayDenomExponent = 0
	store.WriteToURL(loc, chain, items)

	assert.Equal(t, url.Values{
		"nodeAddresses":        {`["https://rpc.other.example"]`},
		"displayDenomExponent": {"0"},
	}, loc.Query())
}

func TestChainStore_WriteToURLUnchangedChainClearsQuery(t *testing.T) {
	store, _ := newTestStore(t, config.ChainDefaults{})
	items := sampleItems()
	loc := location.New("/theta-testnet/staking", "gasPrice=9")

	store.WriteToURL(loc, items.Testnets["theta-testnet"], items)

	assert.Equal(t, "/theta-testnet/staking", loc.String())
}

type failingKV struct{}

var errDiskGone = errors.New("disk gone")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errDiskGone }
func (failingKV) Set(context.Context, string, string) error         { return errDiskGone }
func (failingKV) Close() error                                      { return nil }

func TestChainStore_BackendErrorsPropagate(t *testing.T) {
	store := NewChainStore(failingKV{}, config.ChainDefaults{}, zap.NewNop())
	ctx := context.Background()

	_, err := store.LoadChains(ctx)
	require.ErrorIs(t, err, errDiskGone)
	_, err = store.RecentChainNames(ctx)
	require.ErrorIs(t, err, errDiskGone)
	require.ErrorIs(t, store.AddRecentChainName(ctx, "a"), errDiskGone)
	require.ErrorIs(t, store.SaveChains(ctx, entity.NewChainItems()), errDiskGone)
}
