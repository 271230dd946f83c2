package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir string    `mapstructure:"data_dir"`
	UserID  string    `mapstructure:"user_id"`
	API     APIConfig `mapstructure:"api"`
	Library LibConfig `mapstructure:"library"`
	LLM     LLMConfig `mapstructure:"llm"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LibConfig struct {
	PageSize            int `mapstructure:"page_size"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".mindstore")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("api.base_url", "http://localhost:3001/api")
	viper.SetDefault("library.page_size", 10)
	viper.SetDefault("library.poll_interval_seconds", 5)
	viper.SetDefault("llm.provider", "anthropic")
	viper.SetDefault("llm.model", "claude-haiku-4-5-20251001")

	// Environment variable overrides
	viper.SetEnvPrefix("MINDSTORE")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "MINDSTORE_DATA_DIR")
	viper.BindEnv("user_id", "MINDSTORE_USER_ID")
	viper.BindEnv("api.base_url", "MINDSTORE_API_BASE_URL")
	viper.BindEnv("llm.provider", "MINDSTORE_LLM_PROVIDER")
	viper.BindEnv("llm.model", "MINDSTORE_LLM_MODEL")
	viper.BindEnv("llm.base_url", "MINDSTORE_LLM_BASE_URL")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "mindstore.db")
}

func (c *Config) PollInterval() time.Duration {
	if c.Library.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Library.PollIntervalSeconds) * time.Second
}
