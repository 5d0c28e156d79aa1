package fieldauth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/shelterhub/fieldauth/policy"
)

// EnvPrefix prefixes the environment variables read by LoadConfig.
const EnvPrefix = "FIELDAUTH_"

// Config holds configuration for the field authorization engine.
type Config struct {
	// ShelterCacheTTL is how long a user's managed shelter id is reused.
	ShelterCacheTTL time.Duration `json:"shelter_cache_ttl,omitempty" yaml:"shelter_cache_ttl" koanf:"shelter_cache_ttl"`

	// FragmentCacheTTL is how long owned/affiliated filter fragments are
	// reused per user and kind.
	FragmentCacheTTL time.Duration `json:"fragment_cache_ttl,omitempty" yaml:"fragment_cache_ttl" koanf:"fragment_cache_ttl"`

	// RequirementResultTime is how many minutes an ownership or
	// affiliation count result is reused. Zero disables the cache.
	RequirementResultTime int `json:"requirement_result_time,omitempty" yaml:"requirement_result_time" koanf:"requirement_result_time"`

	// CacheMaxSize bounds each cache's entry count.
	CacheMaxSize int `json:"cache_max_size,omitempty" yaml:"cache_max_size" koanf:"cache_max_size"`

	// DefaultPageSize applies when a lookup asks for no page size.
	DefaultPageSize int `json:"default_page_size,omitempty" yaml:"default_page_size" koanf:"default_page_size"`

	// MaxPageSize caps a lookup's page size.
	MaxPageSize int `json:"max_page_size,omitempty" yaml:"max_page_size" koanf:"max_page_size"`

	// Policies replaces the built-in permission policies when non-empty.
	Policies []policy.Policy `json:"policies,omitempty" yaml:"policies" koanf:"policies"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ShelterCacheTTL:       10 * time.Minute,
		FragmentCacheTTL:      5 * time.Minute,
		RequirementResultTime: 1,
		CacheMaxSize:          10000,
		DefaultPageSize:       20,
		MaxPageSize:           100,
	}
}

// RequirementTTL returns RequirementResultTime as a duration.
func (c Config) RequirementTTL() time.Duration {
	return time.Duration(c.RequirementResultTime) * time.Minute
}

// PageSize clamps a requested page size.
func (c Config) PageSize(requested int) int {
	switch {
	case requested <= 0:
		return c.DefaultPageSize
	case c.MaxPageSize > 0 && requested > c.MaxPageSize:
		return c.MaxPageSize
	default:
		return requested
	}
}

// LoadConfig layers defaults, the YAML file at path (skipped when path is
// empty or missing) and FIELDAUTH_* environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("fieldauth: load config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("fieldauth: load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("fieldauth: load config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("fieldauth: unmarshal config: %w", err)
	}
	return cfg, nil
}

// envKey maps FIELDAUTH_MAX_PAGE_SIZE to max_page_size.
func envKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}
