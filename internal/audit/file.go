package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLog appends events to a newline-delimited JSON file, one
// self-contained record per line. A mutex serializes appends so concurrent
// writers cannot interleave records.
type FileLog struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenFile opens (creating if needed) the JSONL log at path. Parent
// directories are created. The file is opened append-only; nothing ever
// rewrites or truncates prior records.
func OpenFile(path string) (*FileLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileLog{f: f, path: path}, nil
}

// Path returns the log file location.
func (l *FileLog) Path() string {
	return l.path
}

// Append serializes e as one JSON line and writes it durably.
func (l *FileLog) Append(e Event) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(line); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// ReplayFile reads the full event history from a JSONL log, in append
// order. An unparsable trailing line is discarded: a crash mid-append may
// legitimately leave a torn final record. An unparsable line anywhere else
// is corruption and fails the replay.
func ReplayFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}

	events := make([]Event, 0, len(lines))
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			if i == len(lines)-1 {
				// Torn final write; tolerate and stop.
				break
			}
			return nil, fmt.Errorf("audit log corrupt at line %d: %w", i+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}
