package extension

import "github.com/shelterhub/fieldauth"

// Config holds the field authorization extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// a YAML file and FIELDAUTH_* environment variables via WithConfigFile.
type Config struct {
	// DisableMigrate prevents index creation on start.
	DisableMigrate bool `json:"disable_migrate" yaml:"disable_migrate" koanf:"disable_migrate"`

	// ConfigFile is an optional YAML file read by fieldauth.LoadConfig when
	// the extension registers.
	ConfigFile string `json:"config_file,omitempty" yaml:"config_file" koanf:"config_file"`

	// Engine is passed to the engine unless ConfigFile is set.
	Engine fieldauth.Config `json:"engine" yaml:"engine" koanf:"engine"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine: fieldauth.DefaultConfig(),
	}
}
