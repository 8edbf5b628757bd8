package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`

	Factory FactoryConfig `mapstructure:"factory"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Events  EventsConfig  `mapstructure:"events"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PriceSample    string `mapstructure:"price_sample"`
	EventRetention string `mapstructure:"event_retention"`
}

// FactoryConfig carries the challenge-creation bounds enforced on every
// createChallenge call. Amounts are ETH strings converted to wei once at load.
type FactoryConfig struct {
	Owner                string        `mapstructure:"owner"`
	MinEntryFeeETH       string        `mapstructure:"min_entry_fee_eth"`
	MinChallengeDuration time.Duration `mapstructure:"min_challenge_duration"`
	MaxChallengeDuration time.Duration `mapstructure:"max_challenge_duration"`
	MinLockDuration      time.Duration `mapstructure:"min_lock_duration"`
	MaxLockDuration      time.Duration `mapstructure:"max_lock_duration"`
	SettlementDuration   time.Duration `mapstructure:"settlement_duration"`
	SettlementFeePercent int64         `mapstructure:"settlement_fee_percent"`
	SettlementFeeMaxETH  string        `mapstructure:"settlement_fee_max_eth"`
}

type OracleConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxStaleness time.Duration `mapstructure:"max_staleness"`
	SampleKeep   time.Duration `mapstructure:"sample_keep"`
}

// ChainConfig drives the pseudo block-height source. Heights are derived from
// a genesis timestamp and a fixed block interval; they are informational only.
type ChainConfig struct {
	GenesisTime   string        `mapstructure:"genesis_time"`
	BlockInterval time.Duration `mapstructure:"block_interval"`
}

type EventsConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	SubscriberBuf int           `mapstructure:"subscriber_buf"`
}

var weiPerEth = decimal.New(1, 18)

// MinEntryFeeWei parses the configured ETH amount into wei.
func (f FactoryConfig) MinEntryFeeWei() (decimal.Decimal, error) {
	return ethToWei(f.MinEntryFeeETH)
}

// SettlementFeeMaxWei parses the configured ETH cap into wei.
func (f FactoryConfig) SettlementFeeMaxWei() (decimal.Decimal, error) {
	return ethToWei(f.SettlementFeeMaxETH)
}

func (c ChainConfig) Genesis() (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(c.GenesisTime))
}

func ethToWei(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse eth amount %q: %w", s, err)
	}
	return d.Mul(weiPerEth), nil
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.price_sample", "@every 30s")
	v.SetDefault("cron.event_retention", "@every 1h")

	// Bounds mirror the original testnet deployment: 0.01 ETH minimum stake,
	// lock time between 1 minute and 1 day out, settlement start between
	// 1 minute and 4 weeks after lock, 1 hour settlement window.
	v.SetDefault("factory.owner", "0x0000000000000000000000000000000000000001")
	v.SetDefault("factory.min_entry_fee_eth", "0.01")
	v.SetDefault("factory.min_challenge_duration", "60s")
	v.SetDefault("factory.max_challenge_duration", "24h")
	v.SetDefault("factory.min_lock_duration", "60s")
	v.SetDefault("factory.max_lock_duration", "672h")
	v.SetDefault("factory.settlement_duration", "1h")
	v.SetDefault("factory.settlement_fee_percent", 1)
	v.SetDefault("factory.settlement_fee_max_eth", "0.001")

	v.SetDefault("oracle.endpoint", "https://api.binance.com/api/v3/ticker/price?symbol=ETHUSDT")
	v.SetDefault("oracle.timeout", "10s")
	v.SetDefault("oracle.max_staleness", "15m")
	v.SetDefault("oracle.sample_keep", "168h")

	v.SetDefault("chain.genesis_time", "2023-01-01T00:00:00Z")
	v.SetDefault("chain.block_interval", "12s")

	v.SetDefault("events.retention", "720h")
	v.SetDefault("events.subscriber_buf", 64)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if _, err := cfg.Factory.MinEntryFeeWei(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Factory.SettlementFeeMaxWei(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Chain.Genesis(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
