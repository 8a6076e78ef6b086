package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	results := []Result{
		Fulfilled{Script: homey.Script{ID: "1", Name: "a"}, Action: ActionCreate},
		Rejected{Script: homey.Script{ID: "b.js", Name: "b.js"}, Reason: errors.New("bad")},
		Fulfilled{Script: homey.Script{ID: "3", Name: "c"}, Action: ActionUpdate},
	}

	n := Normalize(results)
	require.NotNil(t, n.Summary)
	assert.Equal(t, Summary{Successful: 2, Failed: 1}, *n.Summary)
	assert.Equal(t, results, n.Results)
	assert.False(t, n.Empty())

	require.Len(t, n.Fulfilled(), 2)
	assert.Equal(t, "a", n.Fulfilled()[0].Script.Name)
	assert.Equal(t, "c", n.Fulfilled()[1].Script.Name)
	require.Len(t, n.Rejected(), 1)
	assert.EqualError(t, n.Rejected()[0].Reason, "bad")
}

func TestNormalizeZeroItems(t *testing.T) {
	t.Parallel()

	n := Normalize(nil)
	assert.False(t, n.Empty(), "a normalized batch always has a summary")
	assert.Equal(t, Summary{}, *n.Summary)
	assert.Empty(t, n.Results)
}

func TestEmptySentinel(t *testing.T) {
	t.Parallel()

	var n Normalized
	assert.True(t, n.Empty())

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestResultAccessors(t *testing.T) {
	t.Parallel()

	var r Result = Fulfilled{Script: homey.Script{Name: "a"}, Action: ActionPull}
	assert.Equal(t, "a", r.Target().Name)
	assert.Equal(t, ActionPull, r.Op())
	assert.NoError(t, r.Err())

	cause := errors.New("boom")
	r = Rejected{Script: homey.Script{Name: "b"}, Reason: cause, Action: ActionDelete}
	assert.Equal(t, "b", r.Target().Name)
	assert.Equal(t, ActionDelete, r.Op())
	assert.ErrorIs(t, r.Err(), cause)
}

func TestNormalizedJSON(t *testing.T) {
	t.Parallel()

	n := Normalize([]Result{
		Fulfilled{Script: homey.Script{ID: "1", Name: "a", Version: homey.NumberVersion(2)}, Action: ActionCreate},
		Rejected{Script: homey.Script{ID: "x.js", Name: "x.js"}, Reason: errors.New("Invalid script filename format: x.js")},
	})

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"results": [
			{"status": "fulfilled", "action": "CREATE", "script": {"id": "1", "name": "a", "version": 2}},
			{"status": "rejected", "script": {"id": "x.js", "name": "x.js"}, "reason": "Invalid script filename format: x.js"}
		],
		"summary": {"successful": 1, "failed": 1}
	}`, string(data))
}
