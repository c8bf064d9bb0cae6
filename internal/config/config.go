package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Registry RegistryConfig `mapstructure:"registry"`
	Chain    ChainDefaults  `mapstructure:"chain"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Storage backend names.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendBadger  = "badger"
)

// StorageConfig selects and configures the persistent key/value backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	Path       string `mapstructure:"path"`
	SyncWrites bool   `mapstructure:"sync_writes"`
}

// CacheConfig holds settings for the in-memory backend.
type CacheConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RegistryConfig points at the chain registry seed supplying mainnets and testnets.
type RegistryConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// ChainDefaults is the single chain baked into the environment.
type ChainDefaults struct {
	RegistryName         string `mapstructure:"registry_name"`
	Logo                 string `mapstructure:"logo"`
	ChainID              string `mapstructure:"chain_id"`
	ChainDisplayName     string `mapstructure:"chain_display_name"`
	NodeAddresses        string `mapstructure:"node_addresses"`
	Denom                string `mapstructure:"denom"`
	DisplayDenom         string `mapstructure:"display_denom"`
	DisplayDenomExponent string `mapstructure:"display_denom_exponent"`
	Assets               string `mapstructure:"assets"`
	GasPrice             string `mapstructure:"gas_price"`
	AddressPrefix        string `mapstructure:"address_prefix"`
	ExplorerLink         string `mapstructure:"explorer_link_tx"`
}

// chainEnvKeys maps chain.* config keys to the bare environment names they also accept.
var chainEnvKeys = map[string]string{
	"registry_name":          "REGISTRY_NAME",
	"logo":                   "LOGO",
	"chain_id":               "CHAIN_ID",
	"chain_display_name":     "CHAIN_DISPLAY_NAME",
	"node_addresses":         "NODE_ADDRESSES",
	"denom":                  "DENOM",
	"display_denom":          "DISPLAY_DENOM",
	"display_denom_exponent": "DISPLAY_DENOM_EXPONENT",
	"assets":                 "ASSETS",
	"gas_price":              "GAS_PRICE",
	"address_prefix":         "ADDRESS_PREFIX",
	"explorer_link_tx":       "EXPLORER_LINK_TX",
}

const envPrefix = "CHAINSTORE"

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "chainstore")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("storage.backend", BackendLevelDB)
	v.SetDefault("storage.path", "data/chainstore")
	v.SetDefault("storage.sync_writes", true)
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("registry.seed_file", "")
	for key := range chainEnvKeys {
		v.SetDefault("chain."+key, "")
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The prefixed name wins, then the bare name, then the front-end build name.
	for key, env := range chainEnvKeys {
		if err := v.BindEnv("chain."+key, envPrefix+"_CHAIN_"+env, env, "NEXT_PUBLIC_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind env for chain.%s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}
