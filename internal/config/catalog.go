package config

// CatalogConfig holds the location and behaviour of the relational catalog store
type CatalogConfig struct {
	Database string             `mapstructure:"database"  yaml:"database"`
	LogLevel string             `mapstructure:"log_level" yaml:"log_level"`
	Retry    CatalogRetryConfig `mapstructure:"retry"     yaml:"retry"`
}

// CatalogRetryConfig bounds the backoff used while opening the store
type CatalogRetryConfig struct {
	MaxRetries      uint64 `mapstructure:"max_retries"      yaml:"max_retries"`
	InitialInterval string `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     string `mapstructure:"max_interval"     yaml:"max_interval"`
}

// ArchiveConfig holds the roots of the two file trees
type ArchiveConfig struct {
	Images    string `mapstructure:"images"    yaml:"images"`
	Documents string `mapstructure:"documents" yaml:"documents"`
}

// TaxonomyConfig lists the vocabulary written by `taxonomy seed`
type TaxonomyConfig struct {
	Categories  []string `mapstructure:"categories"  yaml:"categories"`
	Disciplines []string `mapstructure:"disciplines" yaml:"disciplines"`
}
