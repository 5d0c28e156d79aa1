package extension

import (
	"log/slog"

	"github.com/shelterhub/fieldauth"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/store"
)

// ExtOption configures the field authorization Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, fieldauth.WithStore(s))
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithConfigFile loads the engine configuration from path at registration.
func WithConfigFile(path string) ExtOption {
	return func(e *Extension) {
		e.config.ConfigFile = path
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...fieldauth.Option) ExtOption {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableMigrate disables index creation on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
