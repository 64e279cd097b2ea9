package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry. Entries never carry secret
// values: disclosure entries record the field label, autotype entries the
// redacted transcript.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Account    string `json:"account,omitempty"`    // For disclosure/edit.
	Field      string `json:"field,omitempty"`      // For value/credentials.
	Channel    string `json:"channel,omitempty"`    // For disclosure.
	Transcript string `json:"transcript,omitempty"` // For autotype; redacted.
	File       string `json:"file,omitempty"`       // For add/edit.
	Outcome    string `json:"outcome,omitempty"`    // For edit (committed/no-change/rolled-back).
}

// Log appends an entry to the audit log in dir.
// If logging fails it stays silent; operations should not fail just
// because audit logging failed.
func Log(dir string, entry Entry) {
	if dir == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := filepath.Join(dir, "audit.jsonl")

	// #nosec G306 -- the audit log holds no secret material.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(entry)
}

// ReadEntries reads all entries from the audit log in dir. Returns an
// empty slice if the log doesn't exist.
func ReadEntries(dir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, "audit.jsonl"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
