package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ankh/internal/audit"
)

// seedLog writes a small trail to a fresh JSONL log and returns its path.
func seedLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.jsonl")

	log, err := audit.OpenFile(path)
	require.NoError(t, err)
	defer log.Close()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, log.Append(audit.NewEvent("run-a", ts, 1, audit.PhaseReflect, map[string]any{
		"fitness": 0.987, "gate_open": true,
	})))
	require.NoError(t, log.Append(audit.NewEvent("run-a", ts.Add(time.Second), 1, audit.PhaseLearn, map[string]any{
		"r_gain": 0.0, "kept": 2,
	})))
	require.NoError(t, log.Append(audit.NewEvent("run-b", ts.Add(time.Minute), 1, audit.PhaseReflect, map[string]any{
		"fitness": 0.987, "gate_open": true,
	})))
	return path
}

func TestTraceNonExistentLog(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--log", "/nonexistent/log.jsonl"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to replay audit log")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceText(t *testing.T) {
	logPath := seedLog(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--log", logPath})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "phase=reflect")
	assert.Contains(t, out, "phase=learn")
	assert.Contains(t, out, "run=run-a")
	assert.Contains(t, out, "run=run-b")
	assert.Contains(t, out, "3 events across 2 runs")
}

func TestTraceRunFilter(t *testing.T) {
	logPath := seedLog(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--log", logPath, "--run", "run-a"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "run=run-a")
	assert.NotContains(t, out, "run=run-b")
	assert.Contains(t, out, "2 events across 1 runs")
}

func TestTraceJSON(t *testing.T) {
	logPath := seedLog(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--log", logPath})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Events)
	assert.Equal(t, 2, resp.Data.Runs)
	require.Len(t, resp.Data.Trail, 3)
	assert.Equal(t, "run-a", resp.Data.Trail[0].Run)
	assert.Equal(t, audit.PhaseReflect, resp.Data.Trail[0].Phase)
}

func TestTraceSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ankh.db")

	store, err := audit.OpenSQLite(dbPath)
	require.NoError(t, err)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(audit.NewEvent("run-c", ts, 1, audit.PhasePlan, map[string]any{
		"experiments": 3, "gate_needed": 0.0,
	})))
	require.NoError(t, store.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "phase=plan")
	assert.Contains(t, out, "1 events across 1 runs")
}
