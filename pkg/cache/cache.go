// Package cache records completed enhancement runs on disk so the CLI can
// warn before enhancing the same document with the same settings twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/form"
)

// Entry is one completed run.
type Entry struct {
	DocumentID      string    `json:"documentId"`
	ImprovementType string    `json:"improvementType"`
	Instructions    string    `json:"instructions,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
}

// Key computes a deterministic SHA256 hash of a submission.
// The document id is used instead of the raw link so trailing segments
// like /edit or query strings do not change the key.
func Key(v form.Values) string {
	id, ok := docs.DocumentID(v.Link)
	if !ok {
		id = strings.TrimSpace(v.Link)
	}
	h := sha256.New()
	h.Write([]byte(id))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(v.Selection))))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(v.Instructions)))
	return hex.EncodeToString(h.Sum(nil))
}

// Dir returns the directory runs are recorded in.
// CVLIFT_CACHE_DIR overrides the default under the user cache dir.
func Dir() string {
	if d := os.Getenv("CVLIFT_CACHE_DIR"); d != "" {
		return d
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.ExpandEnv("$HOME"), ".cache")
	}
	return filepath.Join(base, "cvlift", "runs")
}

// Path returns the path to the record for a given key
func Path(key string) string {
	return filepath.Join(Dir(), key+".json")
}

// Read returns the recorded run for key.
// A missing record returns an error satisfying errors.Is(err, os.ErrNotExist).
func Read(key string) (Entry, error) {
	var e Entry
	data, err := os.ReadFile(Path(key))
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("failed to parse run record: %w", err)
	}
	return e, nil
}

// Lookup is Read that treats a missing record as not found.
func Lookup(v form.Values) (Entry, bool) {
	e, err := Read(Key(v))
	if err != nil {
		return Entry{}, false
	}
	return e, true
}

// Write records a completed run for the submission.
func Write(v form.Values, at time.Time) error {
	path := Path(Key(v))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	id, _ := docs.DocumentID(v.Link)
	e := Entry{
		DocumentID:      id,
		ImprovementType: strings.TrimSpace(v.Selection),
		Instructions:    strings.TrimSpace(v.Instructions),
		CompletedAt:     at.UTC(),
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Exists checks if a record exists for a key
func Exists(key string) bool {
	_, err := os.Stat(Path(key))
	return err == nil
}

// Clear removes every recorded run.
func Clear() error {
	err := os.RemoveAll(Dir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
