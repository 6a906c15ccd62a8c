// Package session holds the in-memory log of completed runs. The log is an
// explicit object owned by the session, created at session start and
// cleared at session end; nothing here touches disk or package-level state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunRecord captures one successful run: the parameters it ran with and the
// text it produced. Immutable after Append; removed only by Clear.
type RunRecord struct {
	ID              uuid.UUID
	Timestamp       time.Time
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Language        string
	Constraints     string
	EvidenceChars   int
	ImageCount      int
	Output          string
}

// Log is the append-ordered run history for one interactive session.
type Log struct {
	mu      sync.RWMutex
	records []RunRecord
}

func NewLog() *Log { return &Log{} }

// Append adds a completed run. Only the single active run calls this, and
// only after the gateway call succeeded.
func (l *Log) Append(rec RunRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Recent returns up to n records, most recent first. n <= 0 returns all.
func (l *Log) Recent(n int) []RunRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]RunRecord, 0, n)
	for i := len(l.records) - 1; i >= len(l.records)-n; i-- {
		out = append(out, l.records[i])
	}
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Clear drops all records; used at session end.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}
