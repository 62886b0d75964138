package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries everything the service needs at startup. Values come from
// an optional config file plus BOARD_INSIGHTS_* environment variables; env
// wins.
type Config struct {
	Addr string `mapstructure:"addr"`

	APIBaseURL        string `mapstructure:"api_base_url"`
	APIToken          string `mapstructure:"api_token"`
	DealsBoardID      string `mapstructure:"deals_board_id"`
	WorkOrdersBoardID string `mapstructure:"work_orders_board_id"`
	PageSize          int    `mapstructure:"page_size"`
	FetchRetries      int    `mapstructure:"fetch_retries"`

	// DefaultCurrency tags bare numeric amounts that carry no symbol or
	// ISO code.
	DefaultCurrency string `mapstructure:"default_currency"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	Model           string `mapstructure:"model"`

	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("api_base_url", "https://api.monday.com")
	v.SetDefault("page_size", 100)
	v.SetDefault("fetch_retries", 3)
	v.SetDefault("default_currency", "INR")
	v.SetDefault("session_ttl_minutes", 30)
	// Keys without a meaningful default still need registering so that
	// AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("api_token", "")
	v.SetDefault("deals_board_id", "")
	v.SetDefault("work_orders_board_id", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("model", "")

	v.SetEnvPrefix("BOARD_INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate reports the settings a server start cannot proceed without.
// Board ids are deliberately not required here: a missing id only fails
// plans that request that source.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("api_token is required")
	}
	return nil
}
