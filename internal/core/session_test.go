package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/homeyscriptkit/hsk/internal/core/homey/homeytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionConfigHubURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     SessionConfig
		want    string
		wantErr error
	}{
		{"http", SessionConfig{APIKey: "k", IP: "192.168.1.10"}, "http://192.168.1.10", nil},
		{"https", SessionConfig{APIKey: "k", IP: "192.168.1.10", HTTPS: true}, "https://192-168-1-10.homey.homeylocal.com", nil},
		{"explicit host", SessionConfig{APIKey: "k", IP: "192.168.1.10", Host: "http://hub.local"}, "http://hub.local", nil},
		{"host without ip", SessionConfig{APIKey: "k", Host: "http://hub.local"}, "http://hub.local", nil},
		{"missing key", SessionConfig{IP: "192.168.1.10"}, "", ErrMissingCredentials},
		{"missing address", SessionConfig{APIKey: "k"}, "", ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.cfg.HubURL()
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionConfigTemplateDataHidesKey(t *testing.T) {
	t.Parallel()

	data := SessionConfig{APIKey: "secret", IP: "10.0.0.2", HTTPS: true}.TemplateData()
	assert.Equal(t, map[string]any{"ip": "10.0.0.2", "host": "", "https": true}, data)
	assert.NotContains(t, data, "apiKey")
}

func TestNewClientFactory(t *testing.T) {
	t.Parallel()

	hub := homeytest.New("")
	t.Cleanup(hub.Close)
	hub.Seed(homey.Script{Name: "lights", Code: "log(1)"})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	factory := NewClientFactory(logger)
	client, err := factory(context.Background(), SessionConfig{APIKey: hub.Token(), Host: hub.URL() + "/"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "url="+hub.URL()+homey.AppPath)

	scripts, err := client.ListScripts(context.Background())
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "lights", scripts[0].Name)
}

func TestNewClientFactoryMissingCredentials(t *testing.T) {
	t.Parallel()

	client, err := NewClientFactory(nil)(context.Background(), SessionConfig{IP: "10.0.0.2"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Nil(t, client)
}
