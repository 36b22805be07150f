package config

import "github.com/spf13/viper"

func GetDefault() BaseConfig {
	return BaseConfig{
		ShutdownTimeout: "10s",
		User:            "demo",

		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Catalog: CatalogConfig{
			Database: "palanaeum.sqlite",
			LogLevel: "silent",
			Retry: CatalogRetryConfig{
				MaxRetries:      3,
				InitialInterval: "200ms",
				MaxInterval:     "2s",
			},
		},

		Archive: ArchiveConfig{
			Images:    "archive/images",
			Documents: "archive/documents",
		},

		Taxonomy: TaxonomyConfig{
			Categories:  []string{"Codes and Standards", "Reference Material", "Catalogues", "Calculations"},
			Disciplines: []string{"Mech", "Structural", "Geotech", "Electrical", "Seismic"},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)
	viper.SetDefault("user", defaults.User)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("catalog.database", defaults.Catalog.Database)
	viper.SetDefault("catalog.log_level", defaults.Catalog.LogLevel)
	viper.SetDefault("catalog.retry.max_retries", defaults.Catalog.Retry.MaxRetries)
	viper.SetDefault("catalog.retry.initial_interval", defaults.Catalog.Retry.InitialInterval)
	viper.SetDefault("catalog.retry.max_interval", defaults.Catalog.Retry.MaxInterval)

	viper.SetDefault("archive.images", defaults.Archive.Images)
	viper.SetDefault("archive.documents", defaults.Archive.Documents)

	viper.SetDefault("taxonomy.categories", defaults.Taxonomy.Categories)
	viper.SetDefault("taxonomy.disciplines", defaults.Taxonomy.Disciplines)
}
