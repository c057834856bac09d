package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full configuration of the hoodlink binary. The library
// packages take their parameters explicitly; only the CLI reads this.
type Config struct {
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Trailing    TrailingConfig    `mapstructure:"trailing"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Watches     []WatchConfig     `mapstructure:"watches"`
}

// CredentialsConfig holds the venue login. DeviceToken is optional; a fresh
// one is minted when empty.
type CredentialsConfig struct {
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	DeviceToken string `mapstructure:"device_token"`
}

// TrailingConfig sets monitor defaults; per-watch values override them.
type TrailingConfig struct {
	Percent      int           `mapstructure:"percent"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// JournalConfig configures the optional Postgres audit journal. Empty
// ConnStr means events are discarded.
type JournalConfig struct {
	ConnStr string `mapstructure:"conn_str"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// WatchConfig names one order to protect with a trailing stop.
type WatchConfig struct {
	OrderID string `mapstructure:"order_id"`
	Asset   string `mapstructure:"asset"` // equity | crypto
	Percent int    `mapstructure:"percent"`
}

// Load reads the config file and environment (HOODLINK_ prefix).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("hoodlink")
	v.AutomaticEnv()

	v.SetDefault("trailing.percent", 5)
	v.SetDefault("trailing.poll_interval", "30s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
