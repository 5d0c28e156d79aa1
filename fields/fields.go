// Package fields manipulates dotted PascalCase field paths such as
// "Shelter.ShelterName" or "AttachedPhotos.*".
package fields

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shelterhub/fieldauth/entity"
)

// Wildcard selects every native field plus every key-bearing relation root.
const Wildcard = "*"

// Separator joins path segments.
const Separator = "."

// ErrInvalidField is returned when a field path does not resolve against
// an entity's schema.
var ErrInvalidField = errors.New("fieldauth: invalid field")

// PrepareFieldsList normalizes every path to PascalCase segments, drops
// empty entries and removes duplicates while keeping first-seen order.
func PrepareFieldsList(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if n := Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return Dedupe(out)
}

// Normalize trims a path and upper-cases the first rune of each segment.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	segs := strings.Split(path, Separator)
	kept := segs[:0]
	for _, s := range segs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		kept = append(kept, string(unicode.ToUpper(r))+s[size:])
	}
	return strings.Join(kept, Separator)
}

// Dedupe removes repeated paths keeping first-seen order.
func Dedupe(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// ExtractNonPrefixed returns the paths without a separator.
func ExtractNonPrefixed(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.Contains(p, Separator) {
			out = append(out, p)
		}
	}
	return Dedupe(out)
}

// ExtractPrefixed returns the remainders of the paths rooted at root.
// A bare root is shorthand for its "Id" field.
func ExtractPrefixed(paths []string, root string) []string {
	prefix := root + Separator
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		switch {
		case p == root:
			out = append(out, "Id")
		case strings.HasPrefix(p, prefix) && len(p) > len(prefix):
			out = append(out, p[len(prefix):])
		}
	}
	return Dedupe(out)
}

// Root returns the first segment of path.
func Root(path string) string {
	if i := strings.Index(path, Separator); i >= 0 {
		return path[:i]
	}
	return path
}

// Join prefixes every path with root.
func Join(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = root + Separator + p
	}
	return out
}

// ExpandWildcard replaces a top-level "*" with the schema's native fields
// and its key-bearing relation roots. Inverse relations are never added.
func ExpandWildcard(s *entity.Schema, paths []string) []string {
	expanded := false
	out := make([]string, 0, len(paths)+len(s.Natives))
	for _, p := range paths {
		if p != Wildcard {
			out = append(out, p)
			continue
		}
		if expanded {
			continue
		}
		expanded = true
		out = append(out, s.Natives...)
		out = append(out, s.ForeignRoots()...)
	}
	return Dedupe(out)
}

// Split partitions paths into native fields and per-relation remainders.
// Unknown roots are dropped.
func Split(s *entity.Schema, paths []string) ([]string, map[string][]string) {
	natives := make([]string, 0, len(paths))
	nested := make(map[string][]string)
	for _, p := range paths {
		root := Root(p)
		if root == p && s.IsNative(p) {
			natives = append(natives, p)
			continue
		}
		if _, ok := s.Relation(root); ok {
			if _, done := nested[root]; !done {
				nested[root] = ExtractPrefixed(paths, root)
			}
		}
	}
	return Dedupe(natives), nested
}

// ──────────────────────────────────────────────────
// Validation
// ──────────────────────────────────────────────────

// ValidateField checks that path resolves against kind's schema. The first
// segment must be a declared property or a relation; relation remainders
// are checked against the related kind.
func ValidateField(kind entity.Kind, path string) error {
	s, ok := entity.SchemaOf(kind)
	if !ok {
		return fmt.Errorf("%w: unknown entity %q", ErrInvalidField, kind)
	}
	return validate(s, path, path)
}

// ValidateFieldsForEntity validates every path and reports the first
// failure.
func ValidateFieldsForEntity(kind entity.Kind, paths []string) error {
	for _, p := range paths {
		if err := ValidateField(kind, p); err != nil {
			return err
		}
	}
	return nil
}

func validate(s *entity.Schema, full, path string) error {
	if path == Wildcard {
		return nil
	}
	root, rest, nested := strings.Cut(path, Separator)
	if rel, ok := s.Relation(root); ok {
		if !nested {
			return nil
		}
		return validate(entity.MustSchema(rel.Target), full, rest)
	}
	if s.HasProperty(root) {
		return nil
	}
	return fmt.Errorf("%w: %q is not a field of %s", ErrInvalidField, full, s.Kind)
}
