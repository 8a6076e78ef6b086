package core

import (
	"context"
	"fmt"

	"github.com/homeyscriptkit/hsk/internal/interpolation"
)

// SkipConfirmFlag is the flag that answers every confirmation with yes.
const SkipConfirmFlag = "yes"

// Flags holds command flag values by name. Nested maps group related flags.
type Flags map[string]any

// MergeFlags returns defaults overlaid with explicit. Explicit values win;
// when both sides hold a nested Flags (or map[string]any) under the same key
// the two are merged key by key. Neither input is modified.
func MergeFlags(defaults, explicit Flags) Flags {
	out := make(Flags, len(defaults)+len(explicit))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range explicit {
		base, baseIsMap := asFlags(out[k])
		over, overIsMap := asFlags(v)
		if baseIsMap && overIsMap {
			out[k] = MergeFlags(base, over)
			continue
		}
		out[k] = v
	}
	return out
}

func asFlags(v any) (Flags, bool) {
	switch m := v.(type) {
	case Flags:
		return m, true
	case map[string]any:
		return Flags(m), true
	default:
		return nil, false
	}
}

// GetBool returns the flag as a bool; missing or non-bool values are false.
func (f Flags) GetBool(name string) bool {
	b, _ := f[name].(bool)
	return b
}

// GetString returns the flag as a string; missing or non-string values are "".
func (f Flags) GetString(name string) string {
	s, _ := f[name].(string)
	return s
}

func (f Flags) templateData() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		if nested, ok := asFlags(v); ok {
			out[k] = nested.templateData()
			continue
		}
		out[k] = v
	}
	return out
}

// Event is one invocation of a command.
type Event struct {
	Flags Flags
	Args  []string
}

// ConfirmConfig describes the confirmation asked before a command runs.
// Message may reference {event.flags.*}, {event.args.N} and {config.*};
// unknown references are shown literally.
type ConfirmConfig struct {
	Message string
	Default bool
}

// CommandConfig configures a Command.
type CommandConfig struct {
	Confirm  *ConfirmConfig
	Defaults Flags
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, message string, defaultYes bool) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, message string, defaultYes bool) (bool, error)

// Confirm calls f.
func (f PrompterFunc) Confirm(ctx context.Context, message string, defaultYes bool) (bool, error) {
	return f(ctx, message, defaultYes)
}

// Runtime carries what a Command needs from its environment.
type Runtime struct {
	Session  SessionConfig
	Clients  ClientFactory
	Prompter Prompter
}

// Handler is the body of a command. It runs only after confirmation and
// with a ready client.
type Handler[T any] func(ctx context.Context, client ScriptClient, event Event) (T, error)

// Command wraps a Handler with confirmation, flag defaults and client
// acquisition.
type Command[T any] struct {
	config  CommandConfig
	handler Handler[T]
}

// NewCommand creates a Command.
func NewCommand[T any](config CommandConfig, handler Handler[T]) *Command[T] {
	return &Command[T]{config: config, handler: handler}
}

// Run merges flags, asks for confirmation when configured and not skipped,
// opens a client and runs the handler. A declined prompt returns
// ErrCancelled; client errors are returned unchanged.
func (c *Command[T]) Run(ctx context.Context, event Event, rt Runtime) (T, error) {
	var zero T

	event.Flags = MergeFlags(c.config.Defaults, event.Flags)

	if c.config.Confirm != nil && !event.Flags.GetBool(SkipConfirmFlag) {
		if rt.Prompter == nil {
			return zero, fmt.Errorf("confirmation required: pass --%s to continue", SkipConfirmFlag)
		}
		message := c.ConfirmMessage(event, rt.Session)
		ok, err := rt.Prompter.Confirm(ctx, message, c.config.Confirm.Default)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, ErrCancelled
		}
	}

	if rt.Clients == nil {
		return zero, fmt.Errorf("no client factory configured")
	}
	client, err := rt.Clients(ctx, rt.Session)
	if err != nil {
		return zero, err
	}

	return c.handler(ctx, client, event)
}

// ConfirmMessage renders the confirmation message for event. It returns ""
// when the command asks for no confirmation.
func (c *Command[T]) ConfirmMessage(event Event, session SessionConfig) string {
	if c.config.Confirm == nil {
		return ""
	}
	args := make([]any, len(event.Args))
	for i, a := range event.Args {
		args[i] = a
	}
	data := map[string]any{
		"event": map[string]any{
			"flags": event.Flags.templateData(),
			"args":  args,
		},
		"config": session.TemplateData(),
	}
	return interpolation.Render(c.config.Confirm.Message, data)
}
