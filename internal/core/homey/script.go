// Package homey talks to the HomeyScript app API on a Homey hub.
package homey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Script is a HomeyScript as stored on the hub.
//
// Name is the only key shared between the hub and the local filesystem: it is
// used as the file stem for pulled, pushed and backed-up scripts.
type Script struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Code         string  `json:"code,omitempty"`
	Version      Version `json:"version,omitempty"`
	LastExecuted string  `json:"lastExecuted,omitempty"`
}

// Label returns a display label for the script, falling back to the ID when
// the name is unknown.
func (s Script) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Version is a script version. Hubs report it as a number (3) or as a
// string ("1.0.0"). The raw JSON token is kept so it is written back in the
// form it was read; the zero value means no version.
type Version string

// NumberVersion returns the numeric version n.
func NumberVersion(n int) Version {
	return Version(strconv.Itoa(n))
}

// TextVersion returns the string version s, e.g. "1.0.0".
func TextVersion(s string) Version {
	return Version(strconv.Quote(s))
}

// String returns the version for display, without JSON quoting.
func (v Version) String() string {
	if strings.HasPrefix(string(v), `"`) {
		var s string
		if err := json.Unmarshal([]byte(v), &s); err == nil {
			return s
		}
	}
	return string(v)
}

// Int returns the version as a number when it is one.
func (v Version) Int() (int, bool) {
	n, err := strconv.Atoi(string(v))
	return n, err == nil
}

// MarshalJSON writes the raw token back.
func (v Version) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(v)) {
		return nil, fmt.Errorf("invalid version %q", string(v))
	}
	return []byte(v), nil
}

// UnmarshalJSON accepts a JSON string, a number or null.
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("version must be a string or a number: %s", data)
		}
		*v = Version(n)
	}
	return nil
}
