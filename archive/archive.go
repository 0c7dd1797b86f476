// Package archive persists terminated conversation transcripts as JSON files
// so past consultations can be reviewed. Archived records never feed back
// into a running conversation.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tailored-agentic-units/roundtable/transcript"
)

// Record is one archived conversation: the task, the outcome, and the full
// transcript at termination.
type Record struct {
	ID          string                  `json:"id"`
	Task        string                  `json:"task"`
	FinalAnswer string                  `json:"final_answer,omitempty"`
	Reason      string                  `json:"reason"`
	ArchivedAt  time.Time               `json:"archived_at"`
	Turns       []transcript.TurnRecord `json:"turns"`
}

// Store writes and reads archived records under one directory. Keys map 1:1
// to file names.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first Save.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Save writes the record atomically and returns its key. A zero ArchivedAt
// is stamped with the current time.
func (s *Store) Save(_ context.Context, record Record) (string, error) {
	if record.ID == "" {
		return "", fmt.Errorf("%w: record has no id", ErrSaveFailed)
	}
	if record.ArchivedAt.IsZero() {
		record.ArchivedAt = time.Now()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, record.ID, err)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, record.ID, err)
	}

	key := record.ArchivedAt.UTC().Format("20060102T150405Z") + "-" + record.ID + ".json"
	path := filepath.Join(s.root, key)

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}

	return key, nil
}

// List returns the archived record keys in lexical (chronological) order.
// A missing root directory is an empty archive, not an error.
func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}

// Load reads one archived record by key.
func (s *Store) Load(_ context.Context, key string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
	}
	return &record, nil
}

// Delete removes an archived record. Deleting a missing key is a no-op.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.root, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete failed: %s: %w", key, err)
	}
	return nil
}
