package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Outcomes recorded for an operation.
const (
	OutcomeOK                 = "ok"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeMalformed          = "malformed"
	OutcomeError              = "error"
)

// Entry represents a single audit log entry. It never carries secret material.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"`
	Path      string `json:"path,omitempty"` // Envelope file.
	Owner     string `json:"owner,omitempty"`
	Outcome   string `json:"outcome"`

	// Optional fields depending on operation.
	Iterations int    `json:"iterations,omitempty"` // For seal/rekey.
	Method     string `json:"method,omitempty"`     // For call.
	Endpoint   string `json:"endpoint,omitempty"`   // For call.
	Status     int    `json:"status,omitempty"`     // For call.
}

// Logger appends entries to a JSON Lines file. A Logger with an empty Path
// discards everything.
type Logger struct {
	Path string
}

// Log appends an entry to the audit log.
// Failures are ignored; an operation never fails because auditing did.
func (l Logger) Log(entry Entry) {
	if l.Path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func (l Logger) ReadEntries() ([]Entry, error) {
	if l.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(l.Path)
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
