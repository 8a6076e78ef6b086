package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"event": map[string]any{
			"flags": map[string]any{
				"dir":   "packages",
				"https": true,
				"empty": nil,
			},
			"args": []string{"lights", "heater"},
		},
		"config": map[string]string{"ip": "10.0.0.2"},
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"nested map", "Overwrite '{event.flags.dir}'?", "Overwrite 'packages'?"},
		{"bool value", "https={event.flags.https}", "https=true"},
		{"string map", "hub {config.ip}", "hub 10.0.0.2"},
		{"slice index", "first {event.args.0}", "first lights"},
		{"whole slice", "all {event.args}", "all lights,heater"},
		{"missing key kept", "dir {event.flags.missing}", "dir {event.flags.missing}"},
		{"nil kept", "v {event.flags.empty}", "v {event.flags.empty}"},
		{"index out of range kept", "{event.args.5}", "{event.args.5}"},
		{"path through scalar kept", "{event.flags.dir.x}", "{event.flags.dir.x}"},
		{"no placeholders", "plain text", "plain text"},
		{"not a placeholder", "{ spaced }", "{ spaced }"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Render(tt.template, data))
		})
	}
}

func TestRenderNilData(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "{a.b}", Render("{a.b}", nil))
}

func TestExpandEnvWith(t *testing.T) {
	t.Parallel()

	env := map[string]string{"HOMEY_KEY": "secret", "EMPTY": ""}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "set", input: "${HOMEY_KEY}", want: "secret"},
		{name: "set ignores default", input: "${HOMEY_KEY:other}", want: "secret"},
		{name: "set but empty", input: "[${EMPTY:x}]", want: "[]"},
		{name: "default", input: "${HOMEY_IP:10.0.0.2}", want: "10.0.0.2"},
		{name: "empty default", input: "[${HOMEY_IP:}]", want: "[]"},
		{name: "embedded", input: "http://${HOMEY_IP:1.2.3.4}/x", want: "http://1.2.3.4/x"},
		{name: "missing", input: "${NOPE}", want: "${NOPE}", wantErr: "environment variable not defined: NOPE"},
		{name: "literal", input: "no vars", want: "no vars"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExpandEnvWith(tt.input, lookup)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("HSK_TEST_EXPAND", "value")

	got, err := ExpandEnv("${HSK_TEST_EXPAND}")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
