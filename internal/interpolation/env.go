package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ${NAME} or ${NAME:default}
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc resolves an environment variable.
type LookupFunc func(string) (string, bool)

// ExpandEnv expands ${NAME} and ${NAME:default} references using the
// process environment.
func ExpandEnv(input string) (string, error) {
	return ExpandEnvWith(input, os.LookupEnv)
}

// ExpandEnvWith expands references using lookup. A reference without a
// default whose variable is unset is left in place and reported in the
// returned error.
func ExpandEnvWith(input string, lookup LookupFunc) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	out := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		m := envPattern.FindStringSubmatch(match)
		name, hasDefault, fallback := m[1], m[2] == ":", m[3]

		if value, ok := lookup(name); ok {
			return value
		}
		if hasDefault {
			return fallback
		}
		missing = append(missing, fmt.Errorf("environment variable not defined: %s", name))
		return match
	})
	return out, errors.Join(missing...)
}
