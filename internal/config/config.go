// Package config loads the engine daemon configuration from a YAML file,
// with environment variable overrides under the DEXCORE_ prefix.
package config

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/viper"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// Config represents the complete daemon configuration.
type Config struct {
	Chain   ChainConfig   `mapstructure:"chain"`
	API     APIConfig     `mapstructure:"api"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// ChainConfig holds chain identity and block pacing.
type ChainConfig struct {
	ChainID   string        `mapstructure:"chain_id"`
	BlockTime time.Duration `mapstructure:"block_time"`
}

// APIConfig holds REST API server configuration.
type APIConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MetricsConfig holds the prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// EngineConfig holds the engine parameter overrides. Decimal values are
// strings so they parse losslessly into fixed-point.
type EngineConfig struct {
	FeeModel              string `mapstructure:"fee_model"`
	MaxFee                string `mapstructure:"max_fee"`
	VolumeDiscount        string `mapstructure:"volume_discount"`
	HighVolumeThreshold   int64  `mapstructure:"high_volume_threshold"`
	MaxPriceImpact        string `mapstructure:"max_price_impact"`
	MaxPoolDrainPercent   string `mapstructure:"max_pool_drain_percent"`
	VolatilityDecay       string `mapstructure:"volatility_decay"`
	MaxSwapHops           int    `mapstructure:"max_swap_hops"`
	MaxTradesPerBlock     int64  `mapstructure:"max_trades_per_block"`
	MaxUnusualVolumeFlags int64  `mapstructure:"max_unusual_volume_flags"`
	UnusualVolumeRatio    string `mapstructure:"unusual_volume_ratio"`
	DefaultTickSpacing    int64  `mapstructure:"default_tick_spacing"`
	MinLiquidity          int64  `mapstructure:"min_liquidity"`
}

// Load reads the configuration file at path. A missing path yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DEXCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := types.DefaultParams()

	v.SetDefault("chain.chain_id", def.ChainID)
	v.SetDefault("chain.block_time", "5s")

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("engine.fee_model", def.FeeModel)
	v.SetDefault("engine.max_fee", def.MaxFee.String())
	v.SetDefault("engine.volume_discount", def.VolumeDiscount.String())
	v.SetDefault("engine.high_volume_threshold", def.HighVolumeThreshold.Int64())
	v.SetDefault("engine.max_price_impact", def.MaxPriceImpact.String())
	v.SetDefault("engine.max_pool_drain_percent", def.MaxPoolDrainPercent.String())
	v.SetDefault("engine.volatility_decay", def.VolatilityDecay.String())
	v.SetDefault("engine.max_swap_hops", def.MaxSwapHops)
	v.SetDefault("engine.max_trades_per_block", def.MaxTradesPerBlock)
	v.SetDefault("engine.max_unusual_volume_flags", def.MaxUnusualVolumeFlags)
	v.SetDefault("engine.unusual_volume_ratio", def.UnusualVolumeRatio.String())
	v.SetDefault("engine.default_tick_spacing", def.DefaultTickSpacing)
	v.SetDefault("engine.min_liquidity", def.MinLiquidity.Int64())
}

// Validate checks the server-side settings; engine parameters are validated
// when converted through EngineParams.
func (c *Config) Validate() error {
	if c.Chain.ChainID == "" {
		return fmt.Errorf("chain id is required")
	}
	if c.Chain.BlockTime <= 0 {
		return fmt.Errorf("block time must be positive")
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics path is required when metrics are enabled")
	}
	return nil
}

// ListenAddr returns the API server bind address.
func (c *APIConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineParams converts the configuration into validated engine parameters.
func (c *Config) EngineParams() (types.Params, error) {
	params := types.DefaultParams()
	params.ChainID = c.Chain.ChainID
	params.FeeModel = c.Engine.FeeModel
	params.HighVolumeThreshold = math.NewInt(c.Engine.HighVolumeThreshold)
	params.MaxSwapHops = c.Engine.MaxSwapHops
	params.MaxTradesPerBlock = c.Engine.MaxTradesPerBlock
	params.MaxUnusualVolumeFlags = c.Engine.MaxUnusualVolumeFlags
	params.DefaultTickSpacing = c.Engine.DefaultTickSpacing
	params.MinLiquidity = math.NewInt(c.Engine.MinLiquidity)

	for _, field := range []struct {
		name  string
		value string
		dst   *math.LegacyDec
	}{
		{"max_fee", c.Engine.MaxFee, &params.MaxFee},
		{"volume_discount", c.Engine.VolumeDiscount, &params.VolumeDiscount},
		{"max_price_impact", c.Engine.MaxPriceImpact, &params.MaxPriceImpact},
		{"max_pool_drain_percent", c.Engine.MaxPoolDrainPercent, &params.MaxPoolDrainPercent},
		{"volatility_decay", c.Engine.VolatilityDecay, &params.VolatilityDecay},
		{"unusual_volume_ratio", c.Engine.UnusualVolumeRatio, &params.UnusualVolumeRatio},
	} {
		dec, err := math.LegacyNewDecFromStr(field.value)
		if err != nil {
			return types.Params{}, fmt.Errorf("engine.%s: %w", field.name, err)
		}
		*field.dst = dec
	}

	if err := params.Validate(); err != nil {
		return types.Params{}, err
	}
	return params, nil
}
