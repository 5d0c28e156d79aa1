package fieldauth

import (
	"errors"

	"github.com/shelterhub/fieldauth/censor"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/principal"
)

var (
	// ErrInvalidField is returned when a requested field path does not
	// resolve against the entity schema.
	ErrInvalidField = fields.ErrInvalidField

	// ErrForbidden is returned when an operation needs an authenticated
	// user and none is present, or a direct check fails.
	ErrForbidden = principal.ErrForbidden

	// ErrSchemaInconsistent is returned at startup when a relation has no
	// censor, lookup or builder.
	ErrSchemaInconsistent = censor.ErrSchemaInconsistent

	// ErrNotFound is returned by FindOne when no authorized row matches.
	ErrNotFound = errors.New("fieldauth: not found")

	// ErrUnknownEntity is returned for an entity kind without a schema.
	ErrUnknownEntity = errors.New("fieldauth: unknown entity")

	// ErrNoStore is returned by NewEngine without a store.
	ErrNoStore = errors.New("fieldauth: store is required")
)
