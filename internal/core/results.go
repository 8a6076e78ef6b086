package core

import (
	"encoding/json"

	"github.com/homeyscriptkit/hsk/internal/core/homey"
)

// Action names what a batch did (or tried to do) to one script.
type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionRestore Action = "RESTORE"
	ActionBackup  Action = "BACKUP"
	ActionPull    Action = "PULL"
)

// Result is the outcome of one item in a batch. It is either a Fulfilled or
// a Rejected; no other implementations exist.
type Result interface {
	// Target is the script the item produced, or the placeholder identifying
	// the item when it failed.
	Target() homey.Script
	// Op is the action taken. It may be empty for a rejected push item whose
	// action was never decided.
	Op() Action
	// Err is nil for a Fulfilled result.
	Err() error

	isResult()
}

// Fulfilled is a successful item.
type Fulfilled struct {
	Script homey.Script
	Action Action
}

func (f Fulfilled) Target() homey.Script { return f.Script }
func (f Fulfilled) Op() Action           { return f.Action }
func (f Fulfilled) Err() error           { return nil }
func (Fulfilled) isResult()              {}

// MarshalJSON renders the result with a "fulfilled" status.
func (f Fulfilled) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Status: "fulfilled",
		Action: f.Action,
		Script: f.Script,
	})
}

// Rejected is a failed item. Script holds whatever identifies the item: the
// file path for local inputs, the remote script for remote ones.
type Rejected struct {
	Script homey.Script
	Reason error
	Action Action
}

func (r Rejected) Target() homey.Script { return r.Script }
func (r Rejected) Op() Action           { return r.Action }
func (r Rejected) Err() error           { return r.Reason }
func (Rejected) isResult()              {}

// MarshalJSON renders the result with a "rejected" status and the reason text.
func (r Rejected) MarshalJSON() ([]byte, error) {
	reason := ""
	if r.Reason != nil {
		reason = r.Reason.Error()
	}
	return json.Marshal(resultJSON{
		Status: "rejected",
		Action: r.Action,
		Script: r.Script,
		Reason: reason,
	})
}

type resultJSON struct {
	Status string       `json:"status"`
	Action Action       `json:"action,omitempty"`
	Script homey.Script `json:"script"`
	Reason string       `json:"reason,omitempty"`
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Normalized is the reportable outcome of a batch. The zero value means the
// command had nothing to process; it carries neither results nor a summary.
type Normalized struct {
	Results []Result `json:"results,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
}

// Empty reports whether n is the nothing-to-process value.
func (n Normalized) Empty() bool {
	return n.Results == nil && n.Summary == nil
}

// Fulfilled returns the successful results in batch order.
func (n Normalized) Fulfilled() []Fulfilled {
	var out []Fulfilled
	for _, r := range n.Results {
		if f, ok := r.(Fulfilled); ok {
			out = append(out, f)
		}
	}
	return out
}

// Rejected returns the failed results in batch order.
func (n Normalized) Rejected() []Rejected {
	var out []Rejected
	for _, r := range n.Results {
		if rej, ok := r.(Rejected); ok {
			out = append(out, rej)
		}
	}
	return out
}

// Normalize counts results without reordering or dropping any. The summary is
// always set, so even a zero-length batch is distinguishable from Empty.
func Normalize(results []Result) Normalized {
	if results == nil {
		results = []Result{}
	}
	var summary Summary
	for _, r := range results {
		switch r.(type) {
		case Fulfilled:
			summary.Successful++
		case Rejected:
			summary.Failed++
		}
	}
	return Normalized{Results: results, Summary: &summary}
}
