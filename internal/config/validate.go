package config

import "fmt"

// Validate checks a loaded configuration for values the engine cannot run
// with.
func Validate(cfg *Config) error {
	if cfg.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got %d", cfg.Cache.TTLSeconds)
	}
	return nil
}
