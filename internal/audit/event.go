package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Phase tags the loop phase an event belongs to.
type Phase string

const (
	PhaseReflect Phase = "reflect"
	PhasePlan    Phase = "plan"
	PhaseAct     Phase = "act"
	PhaseLearn   Phase = "learn"
)

// Event is one self-contained audit record. Events are append-only: once
// written they are never edited or deleted.
type Event struct {
	ID        string         `json:"id"`
	Run       string         `json:"run"`
	Timestamp time.Time      `json:"timestamp"`
	Cycle     int            `json:"cycle"`
	Phase     Phase          `json:"phase"`
	Payload   map[string]any `json:"payload"`
}

// Log is an append-only event sink. Implementations serialize concurrent
// appends to preserve record ordering.
type Log interface {
	Append(e Event) error
	Close() error
}

// NewEvent stamps a content-addressed event for the given phase.
func NewEvent(run string, ts time.Time, cycle int, phase Phase, payload map[string]any) Event {
	return Event{
		ID:        EventID(run, cycle, phase, payload),
		Run:       run,
		Timestamp: ts,
		Cycle:     cycle,
		Phase:     phase,
		Payload:   payload,
	}
}

// EventID derives the content-addressed id for an event: SHA-256 over the
// canonical JSON of its identifying fields. Timestamps are deliberately
// excluded so a replayed run reproduces the same ids.
func EventID(run string, cycle int, phase Phase, payload map[string]any) string {
	canon, err := MarshalCanonical(map[string]any{
		"run":     run,
		"cycle":   cycle,
		"phase":   string(phase),
		"payload": payload,
	})
	if err != nil {
		// Payloads are built by the loop from plain values; anything else
		// is a programmer error.
		panic(fmt.Sprintf("audit: event payload not canonicalizable: %v", err))
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:])
}
