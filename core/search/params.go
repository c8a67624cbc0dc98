package search

import (
	"net/url"
	"strings"

	"github.com/goto/encoded/core/item"
)

// Param is a single key/value pair of a query string.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query-string multimap. Order matters because
// the canonical query string doubles as the result's @id.
type Params []Param

// ParseParams splits a raw query string into its ordered pairs.
// Pairs that fail to unescape are kept verbatim.
func ParseParams(rawQuery string) Params {
	var params Params
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params = append(params, Param{
			Key:   unescape(key),
			Value: unescape(value),
		})
	}
	return params
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// Get returns the first value of key, or an empty string.
func (p Params) Get(key string) string {
	for _, param := range p {
		if param.Key == key {
			return param.Value
		}
	}
	return ""
}

// GetAll returns every value of key in request order.
func (p Params) GetAll(key string) []string {
	var values []string
	for _, param := range p {
		if param.Key == key {
			values = append(values, param.Value)
		}
	}
	return values
}

// Has reports whether key appears at least once.
func (p Params) Has(key string) bool {
	for _, param := range p {
		if param.Key == key {
			return true
		}
	}
	return false
}

// Without returns a copy of p with every key=value pair removed.
func (p Params) Without(key, value string) Params {
	out := make(Params, 0, len(p))
	for _, param := range p {
		if param.Key == key && param.Value == value {
			continue
		}
		out = append(out, param)
	}
	return out
}

// Encode serialises the pairs in order, UTF-8 percent-encoded with
// '+' for spaces.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// Normalize rewrites every type and type! value that the registry
// knows under an item type or alias into its canonical type name.
// Unknown values pass through untouched so they can be reported as
// invalid later.
func Normalize(reg *item.Registry, params Params) Params {
	out := make(Params, len(params))
	for i, param := range params {
		if param.Key == paramType || param.Key == paramType+negationSuffix {
			if typ, ok := reg.Lookup(param.Value); ok {
				param.Value = typ.Name
			}
		}
		out[i] = param
	}
	return out
}

// withPath joins a route path and an encoded query string.
func withPath(path string, params Params) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
