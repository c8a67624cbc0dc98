package search

import (
	"strconv"
	"strings"

	"github.com/goto/encoded/core/item"
)

const limitAll = "all"

func parseText(params Params) string {
	for _, key := range []string{paramQuery, paramSearchTerm} {
		if text := strings.TrimSpace(params.Get(key)); text != "" {
			return text
		}
	}
	return wildcardType
}

// parseLimit returns the page size, or all=true for limit=all.
// Missing, malformed and negative limits fall back to def.
func parseLimit(params Params, def int) (size int, all bool) {
	raw := params.Get(paramLimit)
	if raw == limitAll {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def, false
	}
	return n, false
}

func parseFrom(params Params) int {
	n, err := strconv.Atoi(params.Get(paramFrom))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFrame(params Params) string {
	if params.Get(paramFrame) == FrameObject {
		return FrameObject
	}
	return FrameEmbedded
}

func parseFields(params Params) []string {
	var fields []string
	for _, f := range params.GetAll(paramField) {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// parseSort reads sort params ("field" ascending, "-field" descending).
// Without any, relevance orders full-text searches; otherwise the
// schema of a single requested type, then creation date and label.
func parseSort(params Params, reg *item.Registry, docTypes []string, text string) []SortKey {
	var keys []SortKey
	for _, s := range params.GetAll(paramSort) {
		s = strings.TrimSpace(s)
		desc := strings.HasPrefix(s, "-")
		s = strings.TrimPrefix(s, "-")
		if s == "" {
			continue
		}
		if s == ScoreField {
			desc = true
		}
		keys = append(keys, SortKey{Field: s, Desc: desc})
	}
	if len(keys) > 0 {
		return keys
	}

	if text != wildcardType {
		return []SortKey{{Field: ScoreField, Desc: true}}
	}

	if len(docTypes) == 1 {
		if typ, ok := reg.Lookup(docTypes[0]); ok && len(typ.Schema.SortBy) > 0 {
			for _, k := range typ.Schema.SortBy {
				keys = append(keys, SortKey{Field: k.Field, Desc: k.Desc()})
			}
			return keys
		}
	}

	return []SortKey{
		{Field: "date_created", Desc: true},
		{Field: "label", Desc: false},
	}
}
