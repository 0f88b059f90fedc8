// Package notify carries transient user-facing notifications from the
// workflow to whatever is displaying them.
package notify

import (
	"fmt"
	"sync"
)

// Severity controls how a notification is presented.
type Severity int

const (
	Normal Severity = iota
	Destructive
)

func (s Severity) String() string {
	switch s {
	case Destructive:
		return "destructive"
	default:
		return "normal"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal", "":
		*s = Normal
	case "destructive":
		*s = Destructive
	default:
		return fmt.Errorf("unknown severity: %q", text)
	}
	return nil
}

// Notification is a single message. No history is kept.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Info returns a normal notification.
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: Normal}
}

// Alert returns a destructive notification.
func Alert(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: Destructive}
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})

// Recorder keeps every notification it receives. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

// Multi fans a notification out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(n Notification) {
		for _, s := range sinks {
			s.Notify(n)
		}
	})
}
