// Package tablespec holds the static metadata for every supported Daktela
// table and plans extraction order over the parent/child dependency graph.
//
// The registry is built once at process start and never mutated. Specialized
// child tables (activities_email, activities_call, ...) reference their
// parent table by name; they are fetched per parent record, not by a
// top-level query.
package tablespec

import (
	"regexp"
	"strings"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
)

// ChildSpec describes how a child table hangs off its parent.
type ChildSpec struct {
	// Parent is the owning table name, e.g. "activities"
	Parent string `yaml:"parent"`
	// Endpoint is the child path segment under the parent record,
	// e.g. "email" for /api/v6/activities/{id}/email.json
	Endpoint string `yaml:"endpoint"`
	// ParentColumn is the parent column supplying record ids, e.g. "name"
	ParentColumn string `yaml:"parent_column"`
}

// Spec is the static metadata for one table. Plain data, no behavior
// beyond convenience accessors.
type Spec struct {
	Name               string     `yaml:"name"`
	Endpoint           string     `yaml:"endpoint"`
	Columns            []string   `yaml:"columns"`
	DateFiltered       bool       `yaml:"date_filtered"`
	PrimaryKeys        []string   `yaml:"primary_keys"`
	SecondaryKeys      []string   `yaml:"secondary_keys"`
	Keys               []string   `yaml:"keys"`
	ListColumns        []string   `yaml:"list_columns"`
	ListOfDictsColumns []string   `yaml:"list_of_dicts_columns"`
	NoPrefixColumns    []string   `yaml:"no_prefix_columns"`
	Child              *ChildSpec `yaml:"child"`

	// Passthrough marks a table that has no curated spec: it is extracted
	// generically with server + id + raw fields, supporting custom
	// Daktela entities.
	Passthrough bool `yaml:"-"`
}

// IsChild reports whether the table is fetched per parent record.
func (s Spec) IsChild() bool {
	return s.Child != nil
}

// ParentTable returns the parent table name, or "" for top-level tables.
func (s Spec) ParentTable() string {
	if s.Child == nil {
		return ""
	}
	return s.Child.Parent
}

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

// Normalize lowercases and trims a requested table name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Registry is the immutable set of known table specs.
type Registry struct {
	specs map[string]Spec
}

// Default returns the registry of built-in Daktela table specs.
func Default() *Registry {
	return &Registry{specs: builtinSpecs}
}

// Names returns the names of all built-in table specs.
func Names() []string {
	names := make([]string, 0, len(builtinSpecs))
	for name := range builtinSpecs {
		names = append(names, name)
	}
	return names
}

// Lookup returns the spec for a table name if it is registered.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[Normalize(name)]
	return s, ok
}

// Resolve returns the registered spec for a name, or a generic passthrough
// spec for unrecognized custom entities. Invalid names fail with an
// unknown-table error.
func (r *Registry) Resolve(name string) (Spec, error) {
	normalized := Normalize(name)
	if s, ok := r.specs[normalized]; ok {
		return s, nil
	}
	if !validName.MatchString(normalized) {
		return Spec{}, errors.Newf(errors.ErrorTypeConfig,
			"unknown table %q: not a registered table and not a valid custom entity name", name)
	}
	return Spec{
		Name:        normalized,
		Endpoint:    normalized,
		PrimaryKeys: []string{"name"},
		Passthrough: true,
	}, nil
}

// Plan expands the requested table set with required ancestors and returns
// specs in extraction order: every parent precedes its children, ties among
// independent tables keep the original request order.
func (r *Registry) Plan(requested []string) ([]Spec, error) {
	if len(requested) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "at least one table must be requested")
	}

	var order []Spec
	seen := make(map[string]bool)

	var add func(name string) error
	add = func(name string) error {
		normalized := Normalize(name)
		if seen[normalized] {
			return nil
		}

		spec, err := r.Resolve(normalized)
		if err != nil {
			return err
		}

		// Parents first. The DAG has depth one today but the recursion
		// keeps deeper chains correct.
		if spec.IsChild() {
			if err := add(spec.ParentTable()); err != nil {
				return err
			}
		}

		seen[normalized] = true
		order = append(order, spec)
		return nil
	}

	for _, name := range requested {
		if Normalize(name) == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "unknown table: empty table name requested")
		}
		if err := add(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}
