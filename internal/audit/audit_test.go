package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(cycle int, phase Phase, payload map[string]any) Event {
	return NewEvent(
		"test-run",
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(cycle)*time.Second),
		cycle,
		phase,
		payload,
	)
}

func TestFileLog_AppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	log, err := OpenFile(path)
	require.NoError(t, err)

	events := []Event{
		testEvent(1, PhaseReflect, map[string]any{"fitness": 0.987}),
		testEvent(1, PhasePlan, map[string]any{"experiments": 3}),
		testEvent(1, PhaseLearn, map[string]any{"kept": 2}),
	}
	for _, e := range events {
		require.NoError(t, log.Append(e))
	}
	require.NoError(t, log.Close())

	got, err := ReplayFile(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range events {
		assert.Equal(t, events[i].ID, got[i].ID, "replay must preserve append order")
		assert.Equal(t, events[i].Phase, got[i].Phase)
	}
}

func TestFileLog_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")

	log, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(testEvent(1, PhaseReflect, map[string]any{"a": 1})))
	require.NoError(t, log.Close())

	// Re-opening must append, never truncate.
	log, err = OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(testEvent(2, PhaseReflect, map[string]any{"a": 2})))
	require.NoError(t, log.Close())

	got, err := ReplayFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReplayFile_ToleratesTornTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	log, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(testEvent(1, PhaseReflect, map[string]any{"a": 1})))
	require.NoError(t, log.Close())

	// Simulate a crash mid-append: a partial record with no closing brace.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"torn","run":"test-run","cy`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := ReplayFile(path)
	require.NoError(t, err, "a torn trailing record must be tolerated")
	assert.Len(t, got, 1)
}

func TestReplayFile_RejectsMidFileCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json at all\n{\"id\":\"x\"}\n"), 0o644))

	_, err := ReplayFile(path)
	assert.Error(t, err, "corruption before the final line is not a torn write")
}

func TestSQLiteLog_AppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	log, err := OpenSQLite(path)
	require.NoError(t, err)
	defer log.Close()

	events := []Event{
		testEvent(1, PhaseReflect, map[string]any{"fitness": 0.987}),
		testEvent(1, PhaseAct, map[string]any{"type": "expand_manifest", "actual_gain": 0.001}),
		testEvent(1, PhaseLearn, map[string]any{"kept": 1}),
	}
	for _, e := range events {
		require.NoError(t, log.Append(e))
	}

	got, err := log.Replay()
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range events {
		assert.Equal(t, events[i].ID, got[i].ID)
		assert.Equal(t, events[i].Cycle, got[i].Cycle)
		assert.Equal(t, events[i].Phase, got[i].Phase)
	}
}

func TestSQLiteLog_ReplayedAppendIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	log, err := OpenSQLite(path)
	require.NoError(t, err)
	defer log.Close()

	e := testEvent(1, PhaseReflect, map[string]any{"fitness": 0.5})
	require.NoError(t, log.Append(e))
	require.NoError(t, log.Append(e), "same content-addressed id must be a no-op")

	got, err := log.Replay()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEventID_StableAndContentAddressed(t *testing.T) {
	payload := map[string]any{"fitness": 0.987, "gate": true}

	a := EventID("run-1", 1, PhaseReflect, payload)
	b := EventID("run-1", 1, PhaseReflect, map[string]any{"gate": true, "fitness": 0.987})
	assert.Equal(t, a, b, "key order must not change the id")

	c := EventID("run-1", 2, PhaseReflect, payload)
	assert.NotEqual(t, a, c, "different cycle must change the id")

	d := EventID("run-2", 1, PhaseReflect, payload)
	assert.NotEqual(t, a, d, "different run must change the id")
}

func TestMarshalCanonical(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b":     1,
		"a":     "x<y&z",
		"list":  []any{true, "s", 2.5},
		"inner": map[string]any{"k": nil},
	})
	require.NoError(t, err)

	// Keys sorted, no HTML escaping, integral floats rendered as integers.
	assert.Equal(t, `{"a":"x<y&z","b":1,"inner":{"k":null},"list":[true,"s",2.5]}`, string(got))
}

func TestMarshalCanonical_IntegralFloat(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"n": 3.0})
	require.NoError(t, err)
	assert.Equal(t, `{"n":3}`, string(got))
}
