package logging

import (
	"sync"
	"time"
)

// LogEntry is one record held in the diagnostics buffer.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the newest entries up to a fixed capacity.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewRingBuffer creates a buffer holding at most size entries.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{entries: make([]LogEntry, max(size, 1))}
}

// Write stores entry, dropping the oldest one when full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.next] = entry
	rb.next++
	if rb.next == len(rb.entries) {
		rb.next = 0
		rb.full = true
	}
}

// Count returns the number of stored entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count()
}

func (rb *RingBuffer) count() int {
	if rb.full {
		return len(rb.entries)
	}
	return rb.next
}

// ReadAll returns every stored entry, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	return rb.Last(0)
}

// Last returns up to n of the newest entries, oldest first. n <= 0 means all.
func (rb *RingBuffer) Last(n int) []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	total := rb.count()
	if total == 0 {
		return nil
	}
	if n <= 0 || n > total {
		n = total
	}

	out := make([]LogEntry, 0, n)
	size := len(rb.entries)
	for i := rb.next - n; i < rb.next; i++ {
		out = append(out, rb.entries[(i+size)%size])
	}
	return out
}
