package config

// Config represents the complete djangolens configuration.
// It can be loaded from .djangolens/config.yml with environment variable
// overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which files the project scan visits.
type PathsConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// CacheConfig bounds the per-file result cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
	TTLSeconds int `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// StorageConfig locates the snapshot database.
type StorageConfig struct {
	Location string `yaml:"location" mapstructure:"location"` // Override default .djangolens/snapshots.db
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Ignore: []string{
				".git/**",
				".venv/**",
				"venv/**",
				"env/**",
				"node_modules/**",
				"__pycache__/**",
				"**/migrations/**",
				"staticfiles/**",
			},
		},
		Cache: CacheConfig{
			MaxEntries: 1024,
			TTLSeconds: 300,
		},
		Storage: StorageConfig{
			Location: "", // Empty means use default .djangolens/snapshots.db
		},
	}
}
