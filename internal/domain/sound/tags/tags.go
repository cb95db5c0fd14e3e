// Package tags resolves the tag shapes found at the storage and API boundary
// into one canonical collection of label strings.
package tags

import "strings"

// Separator joins labels in the delimited string form.
const Separator = ","

// Resolve accepts a delimited string, a string slice, a decoded JSON array
// (strings or objects with a "name" field) and returns trimmed, non-empty labels
// in input order. Any other shape resolves to nil.
func Resolve(raw any) []string {
	switch v := raw.(type) {
	case string:
		return FromDelimited(v)
	case []string:
		return clean(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if label, ok := labelOf(item); ok {
				out = append(out, label)
			}
		}
		return nilIfEmpty(out)
	case []map[string]any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if label, ok := labelOf(item); ok {
				out = append(out, label)
			}
		}
		return nilIfEmpty(out)
	default:
		return nil
	}
}

// FromDelimited splits the comma-joined form.
func FromDelimited(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return clean(strings.Split(s, Separator))
}

// Join renders labels in the comma-joined form.
func Join(labels []string) string {
	return strings.Join(clean(labels), Separator)
}

func labelOf(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case map[string]any:
		name, ok := v["name"].(string)
		if !ok {
			return "", false
		}
		s := strings.TrimSpace(name)
		return s, s != ""
	default:
		return "", false
	}
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return nilIfEmpty(out)
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
