// pattern: Imperative Shell

package logging

import (
	"fmt"
	"sync"
)

// ChannelSink implements zapcore.WriteSyncer and forwards each JSON record
// as a LogEntry on a channel. Sends never block: when the buffer is full
// the oldest entry is dropped.
type ChannelSink struct {
	entries chan LogEntry
	mu      sync.Mutex
	closed  bool
}

// NewChannelSink creates a channel sink with the given buffer size.
func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{entries: make(chan LogEntry, bufferSize)}
}

// Write implements io.Writer. Records that cannot be parsed are dropped
// without failing the logger.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := ParseEntry(p)
	if err != nil {
		return len(p), nil
	}
	if !s.Send(entry) {
		return 0, fmt.Errorf("write to closed channel sink")
	}
	return len(p), nil
}

// Send delivers an entry, dropping the oldest buffered one if needed.
// It returns false once the sink is closed.
func (s *ChannelSink) Send(entry LogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.entries <- entry:
		return true
	default:
	}

	select {
	case <-s.entries:
	default:
	}
	select {
	case s.entries <- entry:
	default:
	}
	return true
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the entries channel. Safe to call multiple times.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the channel of forwarded entries.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.entries
}
