// pattern: Functional Core

// Package watch turns filesystem rename notifications into rename intents.
package watch

import (
	"path"
	"strings"
	"time"

	"casemv/internal/rename"
)

type EventKind int

const (
	EventRename EventKind = iota // the old name disappeared
	EventCreate                  // a new name appeared
)

// Event is one filesystem notification with a slash-separated path.
type Event struct {
	Kind EventKind
	Path string
	At   time.Time
}

// Pairer matches each rename notification with the create notification
// for the new name. The pair must share a parent directory and arrive
// within the settle window. A create with an equal-folding name is
// preferred over an older unrelated rename in the same directory.
type Pairer struct {
	window  time.Duration
	pending []Event
	ready   []rename.Intent
}

func NewPairer(window time.Duration) *Pairer {
	return &Pairer{window: window}
}

// Add records one event.
func (p *Pairer) Add(ev Event) {
	switch ev.Kind {
	case EventRename:
		p.pending = append(p.pending, ev)
	case EventCreate:
		idx := p.match(ev)
		if idx < 0 {
			return
		}
		old := p.pending[idx]
		p.pending = append(p.pending[:idx], p.pending[idx+1:]...)
		p.ready = append(p.ready, rename.Intent{OldPath: old.Path, NewPath: ev.Path})
	}
}

func (p *Pairer) match(create Event) int {
	dir := path.Dir(create.Path)
	base := path.Base(create.Path)
	fallback := -1
	for i, r := range p.pending {
		if path.Dir(r.Path) != dir || create.At.Sub(r.At) > p.window || create.At.Before(r.At) {
			continue
		}
		if strings.EqualFold(path.Base(r.Path), base) {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

// Flush returns the paired intents in arrival order and forgets renames
// that stayed unmatched for longer than the window.
func (p *Pairer) Flush(now time.Time) []rename.Intent {
	kept := p.pending[:0]
	for _, r := range p.pending {
		if now.Sub(r.At) <= p.window {
			kept = append(kept, r)
		}
	}
	p.pending = kept

	ready := p.ready
	p.ready = nil
	return ready
}

// Pending reports how many renames are still waiting for a partner.
func (p *Pairer) Pending() int {
	return len(p.pending)
}
