package homey_test

import (
	"encoding/json"
	"testing"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    homey.Version
		display string
	}{
		{"number", `{"name":"a","version":3}`, homey.NumberVersion(3), "3"},
		{"string", `{"name":"a","version":"1.0.0"}`, homey.TextVersion("1.0.0"), "1.0.0"},
		{"null", `{"name":"a","version":null}`, "", ""},
		{"missing", `{"name":"a"}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s homey.Script
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s.Version)
			assert.Equal(t, tt.display, s.Version.String())
		})
	}
}

func TestVersionDecodeRejectsOtherTypes(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`true`, `{}`, `[1]`} {
		var s homey.Script
		err := json.Unmarshal([]byte(`{"name":"a","version":`+input+`}`), &s)
		assert.Error(t, err, input)
	}
}

func TestVersionKeepsForm(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`{"id":"1","name":"a","version":"1.0.0"}`,
		`{"id":"1","name":"a","version":7}`,
		`{"name":"a"}`,
	} {
		var s homey.Script
		require.NoError(t, json.Unmarshal([]byte(input), &s))
		out, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	}
}

func TestVersionInt(t *testing.T) {
	t.Parallel()

	n, ok := homey.NumberVersion(5).Int()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = homey.TextVersion("1.0.0").Int()
	assert.False(t, ok)
}
