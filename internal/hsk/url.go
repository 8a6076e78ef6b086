// Package hsk is the helper HomeyScripts use at run time: it parses the
// hsk:// invocation URL passed as the first script argument, runs the
// script's handler and reports the outcome through a hub tag.
package hsk

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches hsk://script/command[/result][?query].
var urlPattern = regexp.MustCompile(`^hsk://(?P<script>[^/]+)/(?P<command>[^/?]+)(?:/(?P<result>[^/?]+))?(?:\?(?P<query>.+))?$`)

var (
	// ErrInvalidURL is returned for strings that are not hsk:// URLs.
	ErrInvalidURL = errors.New("Invalid HSK URL format. Expected: hsk://script/command[/result]?params")
	// ErrEmptyScript is returned when the script segment is blank.
	ErrEmptyScript = errors.New("Script name cannot be empty")
	// ErrEmptyCommand is returned when the command segment is blank.
	ErrEmptyCommand = errors.New("Command name cannot be empty")
)

// Config is a parsed invocation URL.
type Config struct {
	Script  string            `json:"script"`
	Command string            `json:"command"`
	Result  string            `json:"result"` // Tag the handler's result is written to.
	Params  map[string]string `json:"params"`
}

// ParseURL parses raw. The result tag is "<script>.<result>.Result" when the
// URL has a result segment and "<script>.<command>.Result" otherwise. Repeated
// query keys keep their last value.
func ParseURL(raw string) (Config, error) {
	m := urlPattern.FindStringSubmatch(raw)
	if m == nil {
		return Config{}, ErrInvalidURL
	}
	group := func(name string) string { return m[urlPattern.SubexpIndex(name)] }

	script := strings.TrimSpace(group("script"))
	if script == "" {
		return Config{}, ErrEmptyScript
	}
	command := strings.TrimSpace(group("command"))
	if command == "" {
		return Config{}, ErrEmptyCommand
	}

	tag := command
	if result := group("result"); result != "" {
		tag = result
	}

	params := map[string]string{}
	if query := group("query"); query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return Config{}, fmt.Errorf("Invalid query parameters: %s", query)
		}
		for k, v := range values {
			params[k] = v[len(v)-1]
		}
	}

	return Config{
		Script:  script,
		Command: command,
		Result:  script + "." + tag + ".Result",
		Params:  params,
	}, nil
}
