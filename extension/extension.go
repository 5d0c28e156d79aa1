// Package extension provides a Forge extension entry point for the field
// authorization engine.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	"github.com/shelterhub/fieldauth"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/store"
	"github.com/shelterhub/fieldauth/store/mongo"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "fieldauth"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Field-level authorization, censoring and authorized queries"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the field authorization engine as a Forge extension.
type Extension struct {
	config     Config
	eng        *fieldauth.Engine
	logger     *slog.Logger
	engineOpts []fieldauth.Option
	plugins    []plugin.Plugin
}

// New creates a field authorization Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{config: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying engine.
func (e *Extension) Engine() *fieldauth.Engine { return e.eng }

// Register implements [forge.Extension]. It initializes the engine and
// registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*fieldauth.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("fieldauth: register engine in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := e.config.Engine
	if e.config.ConfigFile != "" {
		loaded, err := fieldauth.LoadConfig(e.config.ConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	opts := make([]fieldauth.Option, 0, len(e.engineOpts)+len(e.plugins)+3)
	opts = append(opts, fieldauth.WithLogger(logger), fieldauth.WithConfig(cfg))

	// Prefer a store from the container, then a grove database.
	if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
		opts = append(opts, fieldauth.WithStore(s))
	} else if db, err := forge.Inject[*grove.DB](fapp.Container()); err == nil {
		opts = append(opts, fieldauth.WithStore(mongo.New(db)))
	}

	// User-provided options may override the store.
	opts = append(opts, e.engineOpts...)

	for _, x := range e.plugins {
		opts = append(opts, fieldauth.WithPlugin(x))
	}

	eng, err := fieldauth.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("fieldauth: create engine: %w", err)
	}
	e.eng = eng
	return nil
}

// Start creates store indexes unless disabled.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("fieldauth: extension not initialized")
	}
	if e.config.DisableMigrate {
		return nil
	}
	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("fieldauth: extension not initialized")
	}
	return e.eng.Store().Ping(ctx)
}
