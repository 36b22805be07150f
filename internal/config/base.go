package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// User is recorded as uploader and note author when no --user flag is given.
	User string `mapstructure:"user" yaml:"user"`

	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"  yaml:"catalog"`
	Archive  ArchiveConfig  `mapstructure:"archive"  yaml:"archive"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Catalog.Database == "" {
		return nil, fmt.Errorf("catalog.database must not be empty")
	}

	return cfg, nil
}
