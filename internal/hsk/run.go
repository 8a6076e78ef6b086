package hsk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/homeyscriptkit/hsk/internal/tracing"
)

// ErrorTag receives "Error: <message>" when a run fails.
const ErrorTag = "script.error.Result"

// ErrInvalidConfig is returned by Run when the first argument is not a
// usable hsk:// URL. The parse error itself is logged.
var ErrInvalidConfig = errors.New("Invalid configuration: missing or invalid script/command")

// TagFunc writes value to the hub tag name. A nil value clears it.
type TagFunc func(ctx context.Context, name string, value any) error

// Env is what the hub hands a running script.
type Env struct {
	Args   []string
	Tag    TagFunc
	Logger *slog.Logger

	// Unset when the script has never run.
	LastExecuted      *time.Time
	SinceLastExecuted *time.Duration
}

// Context describes the running script to the handler.
type Context struct {
	Filename            string `json:"filename"`
	ScriptID            string `json:"scriptId"`
	LastExecuted        string `json:"lastExecuted,omitempty"`
	MsSinceLastExecuted *int64 `json:"msSinceLastExecuted,omitempty"`
}

// Handler is a script body. Its result is written to the invocation's
// result tag.
type Handler func(ctx context.Context, event Config, sc Context) (any, error)

// Run parses env.Args[0], clears the result tag, runs h and tags its result.
// On any failure the error is logged, ErrorTag is set to "Error: <message>"
// and the error is returned.
func Run(ctx context.Context, env Env, h Handler) (result any, err error) {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, span := tracing.StartSpan(ctx, "hsk.run", trace.SpanKindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	result, err = run(ctx, env, logger, h)
	if err != nil {
		logger.Error("Script execution failed: " + err.Error())
		if tagErr := env.tag(ctx, ErrorTag, "Error: "+err.Error()); tagErr != nil {
			logger.Warn("could not write error tag", "tag", ErrorTag, "error", tagErr)
		}
		return nil, err
	}
	return result, nil
}

func run(ctx context.Context, env Env, logger *slog.Logger, h Handler) (any, error) {
	var raw string
	if len(env.Args) > 0 {
		raw = env.Args[0]
	}
	if raw == "" {
		return nil, ErrInvalidConfig
	}
	cfg, err := ParseURL(raw)
	if err != nil {
		logger.Error(err.Error())
		return nil, ErrInvalidConfig
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("hsk.script", cfg.Script),
		attribute.String("hsk.command", cfg.Command),
	)

	if err := env.tag(ctx, cfg.Result, nil); err != nil {
		return nil, fmt.Errorf("clearing tag %s: %w", cfg.Result, err)
	}

	value, err := h(ctx, cfg, newContext(cfg, env))
	if err != nil {
		return nil, err
	}

	if err := env.tag(ctx, cfg.Result, value); err != nil {
		return nil, fmt.Errorf("writing tag %s: %w", cfg.Result, err)
	}
	return value, nil
}

func newContext(cfg Config, env Env) Context {
	sc := Context{
		Filename: cfg.Script,
		ScriptID: cfg.Script + "." + cfg.Command,
	}
	if env.LastExecuted != nil {
		sc.LastExecuted = env.LastExecuted.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	if env.SinceLastExecuted != nil {
		ms := env.SinceLastExecuted.Milliseconds()
		sc.MsSinceLastExecuted = &ms
	}
	return sc
}

func (e Env) tag(ctx context.Context, name string, value any) error {
	if e.Tag == nil {
		return nil
	}
	return e.Tag(ctx, name, value)
}
