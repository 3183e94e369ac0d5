package router

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"cryptoadvisor/internal/knowledge"
)

// CalledFunction records a tool invocation for attribution.
type CalledFunction struct {
	Name       string
	Parameters map[string]interface{}
}

// attributionFooter renders the source and function-call attribution
// appended to every response. Sources are deduplicated in first-seen
// order; function parameters are printed with sorted keys.
func attributionFooter(source string, docs []knowledge.Document, fn *CalledFunction) string {
	var parts []string

	if source == SourceKnowledgeBase && len(docs) > 0 {
		var names []string
		seen := make(map[string]struct{})
		for _, doc := range docs {
			raw := doc.Source()
			if raw == "" {
				continue
			}
			name := sourceName(raw)
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		if len(names) > 0 {
			parts = append(parts, fmt.Sprintf("\n\n**Source:** %s", strings.Join(names, ", ")))
		}
	}

	if fn != nil {
		if len(fn.Parameters) > 0 {
			parts = append(parts, fmt.Sprintf("\n\n**Function Called:** `%s(%s)`", fn.Name, formatParams(fn.Parameters)))
		} else {
			parts = append(parts, fmt.Sprintf("\n\n**Function Called:** `%s`", fn.Name))
		}
	}

	return strings.Join(parts, "")
}

// sourceName shortens a document origin: URLs keep host and path, file
// paths keep the base name.
func sourceName(raw string) string {
	if strings.HasPrefix(raw, "http") {
		if u, err := url.Parse(raw); err == nil {
			return u.Host + u.Path
		}
	}
	return filepath.Base(raw)
}

func formatParams(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, formatParamValue(params[k])))
	}
	return strings.Join(pairs, ", ")
}

func formatParamValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("'%s'", val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
