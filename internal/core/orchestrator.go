package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/homeyscriptkit/hsk/internal/core/workspace"
	"github.com/homeyscriptkit/hsk/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScriptClient is the part of the hub API the orchestrator needs.
// *homey.Client implements it.
type ScriptClient interface {
	ScriptLister
	ResolveScripts(ctx context.Context) ([]homey.Script, error)
	GetScript(ctx context.Context, id string) (homey.Script, error)
	CreateScript(ctx context.Context, s homey.Script) (homey.Script, error)
	UpdateScript(ctx context.Context, s homey.Script) (homey.Script, error)
	DeleteScript(ctx context.Context, id string) error
}

// FileStore is the local file access the orchestrator needs.
// *workspace.Store implements it.
type FileStore interface {
	EnsureDir(ctx context.Context, dir string) error
	Access(ctx context.Context, path string) error
	ListFiles(ctx context.Context, dir, suffix string) ([]string, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// Messages used to wrap failures that happen before a batch starts.
const (
	msgList    = "Failed to fetch HomeyScripts"
	msgPush    = "Error pushing HomeyScripts"
	msgPull    = "Error pulling HomeyScripts"
	msgBackup  = "Error backing up HomeyScripts"
	msgRestore = "Failed to restore script(s)"
	msgShow    = "Failed to show HomeyScript"
)

// Orchestrator runs the script batches against a hub and the local workspace.
// One failing item never stops the others; only failures that happen before
// the batch starts are returned as errors.
type Orchestrator struct {
	client ScriptClient
	store  FileStore
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil logger uses slog.Default().
func NewOrchestrator(client ScriptClient, store FileStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, store: store, logger: logger}
}

// PushScripts uploads each bundled file. The script name comes from the file
// name (homeyscript.<name>.min.js); a script with that name is updated in
// place, otherwise a new one is created.
func (o *Orchestrator) PushScripts(ctx context.Context, paths []string) Normalized {
	b := batch[string]{
		span:  "push",
		label: func(p string) string { return p },
		run:   o.pushOne,
		rejected: func(p string, err error) Result {
			return Rejected{Script: homey.Script{ID: p, Name: p}, Reason: err}
		},
	}
	return o.finish("push", b.execute(ctx, paths))
}

func (o *Orchestrator) pushOne(ctx context.Context, path string) Result {
	placeholder := homey.Script{ID: path, Name: path}

	name, err := workspace.ParsePushName(path)
	if err != nil {
		return Rejected{Script: placeholder, Reason: err}
	}

	code, err := o.store.ReadFile(ctx, path)
	if err != nil {
		return Rejected{Script: placeholder, Reason: err}
	}

	existing, found, err := FindExisting(ctx, o.client, name)
	if err != nil {
		return Rejected{Script: placeholder, Reason: err}
	}

	if found {
		sent := homey.Script{ID: existing.ID, Name: name, Code: string(code)}
		updated, err := o.client.UpdateScript(ctx, sent)
		if err != nil {
			return Rejected{Script: placeholder, Reason: err, Action: ActionUpdate}
		}
		o.logger.Debug("script updated", "name", name, "id", existing.ID)
		return Fulfilled{Script: fillScript(updated, sent), Action: ActionUpdate}
	}

	sent := homey.Script{Name: name, Code: string(code)}
	created, err := o.client.CreateScript(ctx, sent)
	if err != nil {
		return Rejected{Script: placeholder, Reason: err, Action: ActionCreate}
	}
	o.logger.Debug("script created", "name", name, "id", created.ID)
	return Fulfilled{Script: fillScript(created, sent), Action: ActionCreate}
}

// PullScripts writes each script's code to <dir>/<name>/index.js. A script
// without code produces an empty file.
func (o *Orchestrator) PullScripts(ctx context.Context, dir string, scripts []homey.Script) Normalized {
	b := batch[homey.Script]{
		span:  "pull",
		label: homey.Script.Label,
		run: func(ctx context.Context, s homey.Script) Result {
			if err := checkLocalName(s.Name); err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionPull}
			}
			if err := o.store.WriteFile(ctx, workspace.PullPath(dir, s.Name), []byte(s.Code)); err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionPull}
			}
			return Fulfilled{Script: s, Action: ActionPull}
		},
		rejected: func(s homey.Script, err error) Result {
			return Rejected{Script: identity(s), Reason: err, Action: ActionPull}
		},
	}
	return o.finish("pull", b.execute(ctx, scripts))
}

// BackupScripts writes each full script record as indented JSON to
// <dir>/<name>.json. Failing to create dir fails the whole call.
func (o *Orchestrator) BackupScripts(ctx context.Context, dir string, scripts []homey.Script) (Normalized, error) {
	if err := o.store.EnsureDir(ctx, dir); err != nil {
		return Normalized{}, err
	}

	b := batch[homey.Script]{
		span:  "backup",
		label: homey.Script.Label,
		run: func(ctx context.Context, s homey.Script) Result {
			if err := checkLocalName(s.Name); err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionBackup}
			}
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionBackup}
			}
			if err := o.store.WriteFile(ctx, workspace.BackupPath(dir, s.Name), data); err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionBackup}
			}
			return Fulfilled{Script: s, Action: ActionBackup}
		},
		rejected: func(s homey.Script, err error) Result {
			return Rejected{Script: identity(s), Reason: err, Action: ActionBackup}
		},
	}
	return o.finish("backup", b.execute(ctx, scripts)), nil
}

// RestoreScripts creates a script from each backup file in dir. files are
// names relative to dir.
func (o *Orchestrator) RestoreScripts(ctx context.Context, dir string, files []string) Normalized {
	placeholder := func(file string) homey.Script {
		return homey.Script{ID: file, Name: strings.TrimSuffix(file, workspace.BackupSuffix)}
	}

	b := batch[string]{
		span:  "restore",
		label: func(f string) string { return f },
		run: func(ctx context.Context, file string) Result {
			name := strings.TrimSuffix(file, workspace.BackupSuffix)
			data, err := o.store.ReadFile(ctx, workspace.BackupPath(dir, name))
			if err != nil {
				return Rejected{Script: placeholder(file), Reason: err, Action: ActionRestore}
			}

			var s homey.Script
			if err := json.Unmarshal(data, &s); err != nil {
				return Rejected{
					Script: placeholder(file),
					Reason: fmt.Errorf("parsing %s: %w", file, err),
					Action: ActionRestore,
				}
			}

			created, err := o.client.CreateScript(ctx, s)
			if err != nil {
				return Rejected{Script: placeholder(file), Reason: err, Action: ActionRestore}
			}
			return Fulfilled{Script: fillScript(created, s), Action: ActionRestore}
		},
		rejected: func(file string, err error) Result {
			return Rejected{Script: placeholder(file), Reason: err, Action: ActionRestore}
		},
	}
	return o.finish("restore", b.execute(ctx, files))
}

// DeleteScripts deletes every remote script. A listing failure is returned
// as an error; an empty hub yields the empty Normalized.
func (o *Orchestrator) DeleteScripts(ctx context.Context) (Normalized, error) {
	scripts, err := o.client.ListScripts(ctx)
	if err != nil {
		return Normalized{}, err
	}
	if len(scripts) == 0 {
		return Normalized{}, nil
	}

	b := batch[homey.Script]{
		span:  "delete",
		label: homey.Script.Label,
		run: func(ctx context.Context, s homey.Script) Result {
			if err := o.client.DeleteScript(ctx, s.ID); err != nil {
				return Rejected{Script: identity(s), Reason: err, Action: ActionDelete}
			}
			return Fulfilled{Script: s, Action: ActionDelete}
		},
		rejected: func(s homey.Script, err error) Result {
			return Rejected{Script: identity(s), Reason: err, Action: ActionDelete}
		},
	}
	return o.finish("delete", b.execute(ctx, scripts)), nil
}

// PushOptions configures Push.
type PushOptions struct {
	Dir  string // Defaults to workspace.DefaultPushDir.
	Name string // Push only homeyscript.<Name>.min.js when set.
}

// List returns the scripts on the hub in hub order.
func (o *Orchestrator) List(ctx context.Context) (scripts []homey.Script, err error) {
	ctx, span := o.startCommand(ctx, "list")
	defer func() { tracing.EndSpan(span, err) }()

	scripts, err = o.client.ListScripts(ctx)
	if err != nil {
		return nil, wrapOp(msgList, err)
	}
	return scripts, nil
}

// Push uploads the bundled scripts found in opts.Dir.
func (o *Orchestrator) Push(ctx context.Context, opts PushOptions) (res Normalized, err error) {
	ctx, span := o.startCommand(ctx, "push")
	defer func() { tracing.EndSpan(span, err) }()

	dir := orDefault(opts.Dir, workspace.DefaultPushDir)

	var paths []string
	if opts.Name != "" {
		paths = []string{workspace.PushPath(dir, opts.Name)}
	} else {
		names, err := o.store.ListFiles(ctx, dir, workspace.PushSuffix)
		if err != nil {
			return Normalized{}, wrapOp(msgPush, err)
		}
		for _, n := range names {
			paths = append(paths, filepath.Join(dir, n))
		}
	}
	if len(paths) == 0 {
		o.logger.Info("nothing to push", "dir", dir)
		return Normalized{}, nil
	}

	return o.PushScripts(ctx, paths), nil
}

// Pull writes every remote script into dir.
func (o *Orchestrator) Pull(ctx context.Context, dir string) (res Normalized, err error) {
	ctx, span := o.startCommand(ctx, "pull")
	defer func() { tracing.EndSpan(span, err) }()

	dir = orDefault(dir, workspace.DefaultPullDir)

	scripts, err := o.client.ResolveScripts(ctx)
	if err != nil {
		return Normalized{}, wrapOp(msgPull, err)
	}
	if len(scripts) == 0 {
		o.logger.Info("nothing to pull")
		return Normalized{}, nil
	}
	if err := o.store.EnsureDir(ctx, dir); err != nil {
		return Normalized{}, wrapOp(msgPull, err)
	}

	return o.PullScripts(ctx, dir, scripts), nil
}

// Backup writes every remote script, or only scriptID when set, into dir.
func (o *Orchestrator) Backup(ctx context.Context, dir, scriptID string) (res Normalized, err error) {
	ctx, span := o.startCommand(ctx, "backup")
	defer func() { tracing.EndSpan(span, err) }()

	dir = orDefault(dir, workspace.DefaultBackupDir)

	var scripts []homey.Script
	if scriptID != "" {
		s, err := o.client.GetScript(ctx, scriptID)
		if err != nil {
			return Normalized{}, wrapOp(msgBackup, err)
		}
		scripts = []homey.Script{s}
	} else {
		scripts, err = o.client.ResolveScripts(ctx)
		if err != nil {
			return Normalized{}, wrapOp(msgBackup, err)
		}
	}
	if len(scripts) == 0 {
		o.logger.Info("nothing to back up")
		return Normalized{}, nil
	}

	res, err = o.BackupScripts(ctx, dir, scripts)
	if err != nil {
		return Normalized{}, wrapOp(msgBackup, err)
	}
	return res, nil
}

// Restore recreates scripts from the backups in dir. With a name only that
// backup is restored next to the existing scripts; without one every remote
// script is deleted first and all backups are restored.
func (o *Orchestrator) Restore(ctx context.Context, dir, name string) (res Normalized, err error) {
	ctx, span := o.startCommand(ctx, "restore")
	defer func() { tracing.EndSpan(span, err) }()

	dir = orDefault(dir, workspace.DefaultRestoreDir)

	if err := o.store.Access(ctx, dir); err != nil {
		return Normalized{}, wrapOp(msgRestore, fmt.Errorf("Backup directory '%s': %w", dir, err))
	}

	var files []string
	if name != "" {
		files = []string{strings.TrimSuffix(name, workspace.BackupSuffix) + workspace.BackupSuffix}
	} else {
		files, err = o.store.ListFiles(ctx, dir, workspace.BackupSuffix)
		if err != nil {
			return Normalized{}, wrapOp(msgRestore, err)
		}
	}
	if len(files) == 0 {
		o.logger.Info("nothing to restore", "dir", dir)
		return Normalized{}, nil
	}

	if name == "" {
		deleted, err := o.DeleteScripts(ctx)
		if err != nil {
			return Normalized{}, wrapOp(msgRestore, err)
		}
		if !deleted.Empty() {
			o.logger.Info("deleted remote scripts before restore",
				"successful", deleted.Summary.Successful,
				"failed", deleted.Summary.Failed,
			)
		}
	}

	return o.RestoreScripts(ctx, dir, files), nil
}

// Show returns the full record of the script with the given name.
func (o *Orchestrator) Show(ctx context.Context, name string) (s homey.Script, err error) {
	ctx, span := o.startCommand(ctx, "show")
	defer func() { tracing.EndSpan(span, err) }()

	existing, found, err := FindExisting(ctx, o.client, name)
	if err != nil {
		return homey.Script{}, wrapOp(msgShow, err)
	}
	if !found {
		return homey.Script{}, wrapOp(msgShow, fmt.Errorf("no script named %q", name))
	}

	s, err = o.client.GetScript(ctx, existing.ID)
	if err != nil {
		return homey.Script{}, wrapOp(msgShow, err)
	}
	return s, nil
}

func (o *Orchestrator) startCommand(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracing.StartSpan(ctx, "hsk "+name, trace.SpanKindInternal,
		attribute.String("hsk.command", name),
	)
}

// finish normalizes a batch and logs its summary.
func (o *Orchestrator) finish(op string, results []Result) Normalized {
	n := Normalize(results)
	for _, r := range n.Rejected() {
		o.logger.Debug("item failed", "op", op, "item", r.Script.Label(), "error", r.Reason)
	}
	o.logger.Info("batch finished", "op", op,
		"successful", n.Summary.Successful,
		"failed", n.Summary.Failed,
	)
	return n
}

// identity keeps only the fields that identify a script.
func identity(s homey.Script) homey.Script {
	return homey.Script{ID: s.ID, Name: s.Name}
}

// fillScript completes a hub response with what was sent when the hub echoes
// back a partial record.
func fillScript(got, sent homey.Script) homey.Script {
	if got.ID == "" {
		got.ID = sent.ID
	}
	if got.Name == "" {
		got.Name = sent.Name
	}
	if got.Code == "" {
		got.Code = sent.Code
	}
	if got.Version == "" {
		got.Version = sent.Version
	}
	if got.LastExecuted == "" {
		got.LastExecuted = sent.LastExecuted
	}
	return got
}

// checkLocalName refuses names that cannot be used as a single path element.
func checkLocalName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("script name %q cannot be used as a file name", name)
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
