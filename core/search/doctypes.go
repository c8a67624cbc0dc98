package search

import (
	"sort"
	"strings"

	"github.com/goto/encoded/core/item"
)

const wildcardType = "*"

// ResolveDocTypes maps the requested type values to the sorted,
// de-duplicated set of canonical type names. A lone "*" means Item.
// Every unknown value is reported, not only the first. Blank values
// are ignored.
func ResolveDocTypes(reg *item.Registry, requested []string) ([]string, error) {
	requested = nonBlank(requested)
	if len(requested) == 1 && requested[0] == wildcardType {
		requested = []string{item.ItemTypeName}
	}

	var (
		seen    = make(map[string]bool, len(requested))
		names   = make([]string, 0, len(requested))
		invalid []string
	)
	for _, name := range requested {
		typ, ok := reg.Lookup(name)
		if !ok {
			invalid = append(invalid, name)
			continue
		}
		if seen[typ.Name] {
			continue
		}
		seen[typ.Name] = true
		names = append(names, typ.Name)
	}
	if len(invalid) > 0 {
		return nil, InvalidTypeError{Types: invalid}
	}

	sort.Strings(names)
	return names, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
