// Package page tracks which landing page sections a visitor has revealed.
package page

import (
	"sync"
	"time"
)

// ScrollDelay gives a newly revealed section time to mount before the
// browser scrolls to it.
const ScrollDelay = 100 * time.Millisecond

// Section identifies a revealable part of the page
type Section string

const (
	Editor  Section = "editor"
	Example Section = "example"
)

// Flags are one-way switches: once set they are never cleared.
type Flags struct {
	ShowEditor  bool `json:"showEditor"`
	ShowExample bool `json:"showExample"`
	ShowHighATS bool `json:"showHighATS"`
}

// Container owns the flags for one visitor. Safe for concurrent use.
type Container struct {
	mu    sync.RWMutex
	flags Flags
}

// Flags returns a copy of the current flags.
func (c *Container) Flags() Flags {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flags
}

// GetStarted reveals the editor and returns the section to scroll to.
func (c *Container) GetStarted() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags.ShowEditor = true
	return Editor
}

// ViewExamples reveals the example comparison and returns the section to scroll to.
func (c *Container) ViewExamples() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags.ShowExample = true
	return Example
}

// RevealHighATS shows the optimized example next to the original.
func (c *Container) RevealHighATS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags.ShowHighATS = true
}
