// Package filter implements allow-list and deny-list property-path filtering
// over JSON-ready map data.
//
// Property paths use dot notation for nested fields ("address.city") and
// array notation for array elements ("items[].id"). Filtering never mutates
// its input; new maps and slices are built for every level that changes.
package filter

import (
	"strings"

	"github.com/vyrodovalexey/avaserial/internal/observability"
)

// Filter applies allow and deny property-path filtering.
type Filter struct {
	logger observability.Logger
}

// New creates a new Filter instance.
func New(logger observability.Logger) *Filter {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Filter{logger: logger}
}

// Allow returns a copy of data containing only the fields named by paths.
// An empty path list disables allow filtering and returns data unchanged.
func (f *Filter) Allow(data map[string]interface{}, paths []string) map[string]interface{} {
	if len(paths) == 0 {
		return data
	}
	return f.allowLevel(data, buildPathTree(paths))
}

// Deny returns a copy of data with the fields named by paths removed.
// An empty path list disables deny filtering and returns data unchanged.
func (f *Filter) Deny(data map[string]interface{}, paths []string) map[string]interface{} {
	if len(paths) == 0 {
		return data
	}
	return f.denyLevel(data, buildPathSet(paths), "")
}

// allowLevel keeps the keys of data present in tree, descending into nested
// maps and arrays when the tree names sub-keys below them.
func (f *Filter) allowLevel(
	data map[string]interface{},
	tree map[string]interface{},
) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range data {
		subtree, keyAllowed := tree[key]
		if !keyAllowed {
			if _, wildcard := tree["*"]; !wildcard {
				continue
			}
		}

		subtreeMap, _ := subtree.(map[string]interface{})
		if len(subtreeMap) == 0 {
			// Leaf path: the whole value is retained.
			result[key] = value
			continue
		}

		if kept, ok := f.allowValue(value, subtreeMap); ok {
			result[key] = kept
		}
	}

	return result
}

// allowValue filters a single non-leaf value. The second return value is
// false when the value filtered down to nothing and its key must be dropped.
func (f *Filter) allowValue(value interface{}, tree map[string]interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		kept := f.allowLevel(v, tree)
		if len(kept) == 0 {
			return nil, false
		}
		return kept, true
	case []interface{}:
		elemTree, hasArrayNotation := tree["[]"]
		if !hasArrayNotation {
			return v, true
		}
		elemTreeMap, _ := elemTree.(map[string]interface{})
		kept := f.allowArray(v, elemTreeMap)
		if len(kept) == 0 {
			return nil, false
		}
		return kept, true
	default:
		// Scalar under a dotted path: nothing to descend into, keep it.
		return value, true
	}
}

// allowArray filters each map element of an array; non-map elements pass
// through unchanged.
func (f *Filter) allowArray(arr []interface{}, tree map[string]interface{}) []interface{} {
	result := make([]interface{}, 0, len(arr))

	for _, item := range arr {
		elem, ok := item.(map[string]interface{})
		if !ok || len(tree) == 0 {
			result = append(result, item)
			continue
		}
		if kept := f.allowLevel(elem, tree); len(kept) > 0 {
			result = append(result, kept)
		}
	}

	return result
}

// denyLevel removes the keys of data whose full path is in the deny set,
// descending into nested maps and arrays for dotted paths.
func (f *Filter) denyLevel(
	data map[string]interface{},
	denySet map[string]bool,
	prefix string,
) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range data {
		path := joinPath(prefix, key)
		if denySet[path] {
			f.logger.Debug("removing denied field",
				observability.String("path", path))
			continue
		}
		result[key] = f.denyValue(value, denySet, path)
	}

	return result
}

// denyValue descends into maps and arrays; scalars pass through.
func (f *Filter) denyValue(value interface{}, denySet map[string]bool, path string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return f.denyLevel(v, denySet, path)
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			if elem, ok := item.(map[string]interface{}); ok {
				result = append(result, f.denyLevel(elem, denySet, path+"[]"))
			} else {
				result = append(result, item)
			}
		}
		return result
	default:
		return value
	}
}

// joinPath joins a path prefix and a key.
func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// buildPathTree builds a nested lookup tree from a list of paths.
// Example: ["user.name", "user.email", "items[].id"] becomes
//
//	{
//	  "user": {"name": {}, "email": {}},
//	  "items": {"[]": {"id": {}}}
//	}
func buildPathTree(paths []string) map[string]interface{} {
	tree := make(map[string]interface{})

	for _, path := range paths {
		current := tree
		parts := splitPath(path)
		for i, part := range parts {
			if _, exists := current[part]; !exists {
				current[part] = make(map[string]interface{})
			}
			if i < len(parts)-1 {
				current = current[part].(map[string]interface{})
			}
		}
	}

	return tree
}

// buildPathSet builds a set of paths for exact lookup.
func buildPathSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, path := range paths {
		set[path] = true
	}
	return set
}

// splitPath splits a property path into parts, handling both dot notation
// and array notation. Example: "items[].name" -> ["items", "[]", "name"].
func splitPath(path string) []string {
	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '.':
			flush()
		case '[':
			flush()
			if i+1 < len(path) && path[i+1] == ']' {
				parts = append(parts, "[]")
				i++
			}
		case ']':
			// Consumed together with '['.
		default:
			current.WriteByte(path[i])
		}
	}
	flush()

	return parts
}
