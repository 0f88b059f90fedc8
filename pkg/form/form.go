// Package form holds the resume editor's form state and its input rules.
package form

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/improve"
)

// Values is a point-in-time copy of the form.
type Values struct {
	Link         string `json:"link"`
	Selection    string `json:"improvementType"`
	Instructions string `json:"instructions,omitempty"`
	Processing   bool   `json:"processing"`
	Progress     int    `json:"progress"`
}

// Custom reports whether the custom improvement option is selected.
func (v Values) Custom() bool {
	return improve.IsCustom(v.Selection)
}

// Validate checks link and selection in order and returns the first failure.
func Validate(link, selection string) error {
	if strings.TrimSpace(link) == "" {
		return ErrMissingLink
	}
	if !docs.IsGoogleDocsLink(link) {
		return ErrInvalidLink
	}
	if strings.TrimSpace(selection) == "" {
		return ErrMissingSelection
	}
	return nil
}

// State is the form owned by one editor. The zero value is an empty, idle form.
type State struct {
	mu sync.Mutex
	v  Values
}

// New returns a form pre-filled with the given input.
func New(link, selection, instructions string) *State {
	return &State{v: Values{Link: link, Selection: selection, Instructions: instructions}}
}

// Snapshot returns a copy of the current values.
func (s *State) Snapshot() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// Fill replaces the editable fields. Inputs are read-only while processing.
func (s *State) Fill(link, selection, instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.Processing {
		return ErrBusy
	}
	s.v.Link = link
	s.v.Selection = selection
	s.v.Instructions = instructions
	return nil
}

// Begin validates the current input and, on success, marks the form as
// processing with zero progress. A form that is already processing is
// refused with ErrBusy and left untouched.
func (s *State) Begin() (Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.Processing {
		return s.v, ErrBusy
	}
	if err := Validate(s.v.Link, s.v.Selection); err != nil {
		return s.v, err
	}
	s.v.Processing = true
	s.v.Progress = 0
	return s.v, nil
}

// Advance moves progress forward to p.
func (s *State) Advance(p int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.v.Processing {
		return ErrNotProcessing
	}
	if p < s.v.Progress {
		return fmt.Errorf("%w: %d -> %d", ErrProgressRegress, s.v.Progress, p)
	}
	if p > 100 {
		p = 100
	}
	s.v.Progress = p
	return nil
}

// Reset clears every field and returns the form to idle.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = Values{}
}
