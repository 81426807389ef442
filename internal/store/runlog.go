package store

import (
	"fmt"
	"strings"
	"time"
)

const maxRunLogMessageLen = 300

const insertRunLogSQL = `
INSERT INTO run_logs (
	created_at_utc,
	conversation_id,
	stage,
	status,
	message
) VALUES (?, ?, ?, ?, ?)`

type runLogEntry struct {
	CreatedAtUTC   string
	ConversationID string
	Stage          string
	Status         string
	Message        string
}

// RunLogger buffers pipeline log rows and writes them in one pass on
// Flush, so a failed run still leaves its trail in the database.
type RunLogger struct {
	store   *Store
	entries []runLogEntry
}

func NewRunLogger(s *Store) *RunLogger {
	return &RunLogger{
		store:   s,
		entries: make([]runLogEntry, 0, 256),
	}
}

// Write buffers one log entry. Status defaults to "info".
func (l *RunLogger) Write(conversationID, stage, status, message string) {
	entry := runLogEntry{
		CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339),
		ConversationID: strings.TrimSpace(conversationID),
		Stage:          strings.TrimSpace(stage),
		Status:         strings.TrimSpace(status),
		Message:        shortLogText(message, maxRunLogMessageLen),
	}
	if entry.Status == "" {
		entry.Status = "info"
	}
	l.entries = append(l.entries, entry)
}

// Flush writes all buffered entries. Individual write failures are
// reported on the returned error but do not stop the remaining entries.
func (l *RunLogger) Flush() error {
	if l == nil || l.store == nil || len(l.entries) == 0 {
		return nil
	}
	var firstErr error
	for _, entry := range l.entries {
		if _, err := l.store.db.Exec(
			insertRunLogSQL,
			entry.CreatedAtUTC,
			entry.ConversationID,
			entry.Stage,
			entry.Status,
			entry.Message,
		); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("write run log: %w", err)
		}
	}
	l.entries = nil
	return firstErr
}

func shortLogText(text string, maxLen int) string {
	clean := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	if maxLen <= 0 || len(clean) <= maxLen {
		return clean
	}
	if maxLen <= 3 {
		return clean[:maxLen]
	}
	return clean[:maxLen-3] + "..."
}
