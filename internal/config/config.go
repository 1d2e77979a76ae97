// Package config loads the application configuration from a YAML file,
// a .env file, and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Pipeline   Pipeline   `mapstructure:"pipeline"`
	Compliance Compliance `mapstructure:"compliance"`
	Storage    Storage    `mapstructure:"storage"`
}

// App holds general application configuration.
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI selects and configures the generator provider.
type AI struct {
	Provider string `mapstructure:"provider"` // "gemini" or "openai"
	Gemini   Gemini `mapstructure:"gemini"`
	OpenAI   OpenAI `mapstructure:"openai"`
}

// Gemini holds Google Gemini configuration.
type Gemini struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
}

// OpenAI holds configuration for OpenAI-compatible endpoints.
type OpenAI struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Pipeline holds orchestrator thresholds and budgets.
type Pipeline struct {
	MaxAttempts      int           `mapstructure:"max_attempts"`       // Retry attempts per external call
	RetryBackoff     time.Duration `mapstructure:"retry_backoff"`      // Sleep between rate-limited attempts
	RunTimeout       time.Duration `mapstructure:"run_timeout"`        // Wall-clock budget for one run
	MinApprovedFacts int           `mapstructure:"min_approved_facts"` // Hard gate threshold
	MinApprovalRate  float64       `mapstructure:"min_approval_rate"`  // Soft gate threshold
}

// Compliance holds scorer thresholds and the tenant avoid list.
type Compliance struct {
	MinWordCount   int      `mapstructure:"min_word_count"`
	MaxTitleLength int      `mapstructure:"max_title_length"`
	MaxMetaLength  int      `mapstructure:"max_meta_length"`
	AvoidWords     []string `mapstructure:"avoid_words"` // Tenant-configured tone-of-voice avoid list
}

// Storage holds persistence configuration.
type Storage struct {
	DataDir string `mapstructure:"data_dir"`
}

var globalConfig *Config

// Load reads configuration from the given file (or the default search
// path), layering .env and environment variables on top.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".contentpipe")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.SetEnvPrefix("CONTENTPIPE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("ai.gemini.temperature", 0.3)
	viper.SetDefault("ai.gemini.max_tokens", 8192)
	viper.SetDefault("ai.openai.model", "gpt-4o-mini")
	viper.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")

	viper.SetDefault("pipeline.max_attempts", 3)
	viper.SetDefault("pipeline.retry_backoff", "60s")
	viper.SetDefault("pipeline.run_timeout", "5m")
	viper.SetDefault("pipeline.min_approved_facts", 5)
	viper.SetDefault("pipeline.min_approval_rate", 0.6)

	viper.SetDefault("compliance.min_word_count", 650)
	viper.SetDefault("compliance.max_title_length", 60)
	viper.SetDefault("compliance.max_meta_length", 155)
	viper.SetDefault("compliance.avoid_words", []string{})

	viper.SetDefault("storage.data_dir", ".contentpipe")
}

func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})
	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})
	bindEnvKeys("ai.provider", []string{
		"CONTENTPIPE_AI_PROVIDER",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key.
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

func validateConfig(config *Config) error {
	switch config.AI.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("invalid ai.provider %q (expected gemini or openai)", config.AI.Provider)
	}
	if config.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("pipeline.max_attempts must be at least 1")
	}
	if config.Pipeline.MinApprovalRate < 0 || config.Pipeline.MinApprovalRate > 1 {
		return fmt.Errorf("pipeline.min_approval_rate must be between 0 and 1")
	}
	return nil
}
