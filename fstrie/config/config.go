package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/fstrie/fstrie"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Trie TrieConfig `mapstructure:"trie"`
	Log  LogConfig  `mapstructure:"log"`
}

// TrieConfig controls how directory tries are built
type TrieConfig struct {
	MaxDepth       int      `mapstructure:"maxDepth"`
	IncludeHidden  bool     `mapstructure:"includeHidden"`
	IgnoreFile     string   `mapstructure:"ignoreFile"`
	IgnorePatterns []string `mapstructure:"ignorePatterns"`
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Set default values
	v.SetDefault("trie.maxDepth", internal.DefaultMaxDepth)
	v.SetDefault("trie.includeHidden", true)
	v.SetDefault("trie.ignoreFile", internal.DefaultIgnoreFile)
	v.SetDefault("trie.ignorePatterns", []string{})
	v.SetDefault("log.level", internal.DefaultLogLevel)
	v.SetDefault("log.pretty", false)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.AutomaticEnv()                                   // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. trie.maxDepth becomes FSTRIE_TRIE_MAXDEPTH

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	AppConfig = cfg
	return &cfg, nil
}
