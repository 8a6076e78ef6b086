// Package interpolation expands placeholders in user-facing messages and in
// config values.
package interpolation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholders look like {event.flags.dir} or {items.0}.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9$_][A-Za-z0-9$_-]*(?:\.[A-Za-z0-9$_-]+)*)\}`)

// Render replaces every {a.b.c} placeholder with the value found by walking
// data along the dotted path. Placeholders whose path cannot be resolved, or
// resolves to nil, are left untouched.
func Render(template string, data map[string]any) string {
	if template == "" {
		return ""
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := match[1 : len(match)-1]
		value, ok := Lookup(data, path)
		if !ok || value == nil {
			return match
		}
		return format(value)
	})
}

// Lookup walks a dotted path through nested maps and slices.
func Lookup(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current any, segment string) (any, bool) {
	switch v := current.(type) {
	case map[string]any:
		next, ok := v[segment]
		return next, ok
	case map[string]string:
		next, ok := v[segment]
		return next, ok
	case []any:
		return index(len(v), segment, func(i int) any { return v[i] })
	case []string:
		return index(len(v), segment, func(i int) any { return v[i] })
	default:
		return nil, false
	}
}

func index(n int, segment string, at func(int) any) (any, bool) {
	i, err := strconv.Atoi(segment)
	if err != nil || i < 0 || i >= n {
		return nil, false
	}
	return at(i), true
}

func format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = format(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
