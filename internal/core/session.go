package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
)

// SessionConfig holds what is needed to reach a hub.
type SessionConfig struct {
	APIKey string
	IP     string
	Host   string // Full base URL; overrides IP when set.
	HTTPS  bool
}

// HubURL returns the hub's base URL. An explicit Host wins. Otherwise the
// address is derived from IP: over HTTPS the hub's local certificate name is
// used (dots in the IP become dashes).
func (s SessionConfig) HubURL() (string, error) {
	if s.APIKey == "" || (s.IP == "" && s.Host == "") {
		return "", ErrMissingCredentials
	}
	if s.Host != "" {
		return s.Host, nil
	}
	if s.HTTPS {
		return fmt.Sprintf("https://%s.homey.homeylocal.com", strings.ReplaceAll(s.IP, ".", "-")), nil
	}
	return "http://" + s.IP, nil
}

// TemplateData exposes the non-secret settings to message templates.
func (s SessionConfig) TemplateData() map[string]any {
	return map[string]any{
		"ip":    s.IP,
		"host":  s.Host,
		"https": s.HTTPS,
	}
}

// ClientFactory opens a client for a session.
type ClientFactory func(ctx context.Context, cfg SessionConfig) (ScriptClient, error)

// NewClientFactory returns a ClientFactory creating *homey.Client values
// with the given options. A nil logger uses slog.Default().
func NewClientFactory(logger *slog.Logger, opts ...homey.Option) ClientFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, cfg SessionConfig) (ScriptClient, error) {
		host, err := cfg.HubURL()
		if err != nil {
			return nil, err
		}
		client, err := homey.NewClient(host, cfg.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		logger.DebugContext(ctx, "hub client ready", "url", client.BaseURL())
		return client, nil
	}
}
