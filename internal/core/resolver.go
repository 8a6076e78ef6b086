package core

import (
	"context"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
)

// ScriptLister lists the scripts on a hub.
type ScriptLister interface {
	ListScripts(ctx context.Context) ([]homey.Script, error)
}

// FindExisting looks up a remote script by exact, case-sensitive name. When
// several scripts share the name the first one listed wins. A listing error
// is returned unchanged.
func FindExisting(ctx context.Context, lister ScriptLister, name string) (homey.Script, bool, error) {
	scripts, err := lister.ListScripts(ctx)
	if err != nil {
		return homey.Script{}, false, err
	}
	for _, s := range scripts {
		if s.Name == name {
			return s, true, nil
		}
	}
	return homey.Script{}, false, nil
}
