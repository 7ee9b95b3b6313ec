package orchestrate

import (
	"regexp"
	"strconv"
	"strings"
)

// stepRefRe matches a bare "$stepN" or "$stepN.dotted.path" reference.
var stepRefRe = regexp.MustCompile(`^\$step(\d+)(?:\.(.+))?$`)

// ResolveParams replaces every $stepN / $stepN.path string value in params
// with the corresponding entry of results (1-indexed: results[0] is step
// 1's output). Unresolved references — out-of-range N, or a path that
// doesn't exist in that step's data — pass through unchanged, per
// spec.md §4.8.
func ResolveParams(params map[string]interface{}, results []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = resolveValue(v, results)
	}
	return out
}

func resolveValue(v interface{}, results []interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	m := stepRefRe.FindStringSubmatch(s)
	if m == nil {
		return v
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > len(results) {
		return v
	}
	data := results[n-1]
	if m[2] == "" {
		return data
	}
	resolved, ok := resolvePath(data, strings.Split(m[2], "."))
	if !ok {
		return v
	}
	return resolved
}

func resolvePath(data interface{}, path []string) (interface{}, bool) {
	cur := data
	for _, segment := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		next, ok := m[segment]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
