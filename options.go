package fieldauth

import (
	"log/slog"

	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/store"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the document store.
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithPolicies sets the permission policy provider. It takes precedence
// over Config.Policies.
func WithPolicies(p policy.Provider) Option { return func(e *Engine) { e.policies = p } }

// WithClaims sets where the caller's identity is read from.
func WithClaims(c principal.Extractor) Option { return func(e *Engine) { e.claims = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
