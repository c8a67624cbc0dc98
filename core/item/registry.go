package item

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goto/encoded/core/validator"
	"gopkg.in/yaml.v2"
)

// Registry resolves type names, item types and aliases to
// registered types. It is immutable after construction and
// safe for concurrent use.
type Registry struct {
	types  map[string]Type
	lookup map[string]string
}

type typesFile struct {
	Types []Type `yaml:"types" validate:"dive"`
}

// LoadRegistry reads a YAML types file.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read types file: %w", err)
	}

	var f typesFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, fmt.Errorf("parse types file %q: %w", path, err)
	}
	if err := validator.ValidateStruct(f); err != nil {
		return nil, fmt.Errorf("validate types file %q: %w", path, err)
	}

	return NewRegistry(f.Types...)
}

// NewRegistry builds a registry from the given types. Item is
// registered implicitly when absent.
func NewRegistry(types ...Type) (*Registry, error) {
	if len(types) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		types:  make(map[string]Type, len(types)+1),
		lookup: make(map[string]string),
	}
	for _, t := range types {
		if err := validator.ValidateStruct(t); err != nil {
			return nil, err
		}
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	if _, ok := r.types[ItemTypeName]; !ok {
		if err := r.add(Type{Name: ItemTypeName, ItemType: "item", Title: "Items"}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(t Type) error {
	if t.ItemType == "" {
		t.ItemType = snakeCase(t.Name)
	}
	keys := append([]string{t.Name, t.ItemType}, t.Aliases...)
	for _, k := range keys {
		if owner, ok := r.lookup[k]; ok && owner != t.Name {
			return DuplicateTypeError{Name: t.Name, Key: k}
		}
	}
	if _, ok := r.types[t.Name]; ok {
		return DuplicateTypeError{Name: t.Name, Key: t.Name}
	}

	r.types[t.Name] = t
	for _, k := range keys {
		r.lookup[k] = t.Name
	}
	return nil
}

// Lookup resolves name, which may be a canonical type name, an
// item type or an alias.
func (r *Registry) Lookup(name string) (Type, bool) {
	canonical, ok := r.lookup[name]
	if !ok {
		return Type{}, false
	}
	return r.types[canonical], true
}

// Names returns every canonical type name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snakeCase converts a type name like ExperimentSetReplicate
// to its item type experiment_set_replicate.
func snakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
