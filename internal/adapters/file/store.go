package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
)

// DefaultPath is used when New receives an empty path.
var DefaultPath = filepath.Join(".contentmachine", "framework.json")

// Store implements ports.FrameworkStore using the local filesystem.
// The framework is kept as a single JSON document.
type Store struct {
	Path string
}

// New creates a new Store writing to path.
// If path is empty, it defaults to ".contentmachine/framework.json".
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Persist writes the framework to its JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Persist(ctx context.Context, fw domain.Framework) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure framework directory: %w", err)
	}

	data, err := json.MarshalIndent(fw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal framework: %w", err)
	}

	// Same directory as the destination: rename is only atomic within one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-framework-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename refuses to replace an existing file on Windows. There is a short
	// window without a document there; POSIX rename replaces in one step.
	if runtime.GOOS == "windows" {
		if _, err := os.Stat(s.Path); err == nil {
			if err := os.Remove(s.Path); err != nil {
				return fmt.Errorf("failed to remove existing framework file for overwrite: %w", err)
			}
		}
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to framework file: %w", err)
	}

	return nil
}

// Load retrieves the framework from its JSON file.
func (s *Store) Load(ctx context.Context) (domain.Framework, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrFrameworkAbsent
		}
		return nil, fmt.Errorf("failed to read framework file: %w", err)
	}

	var fw domain.Framework
	if err := json.Unmarshal(data, &fw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal framework: %w", err)
	}
	if fw == nil {
		// A literal "null" document.
		fw = domain.Framework{}
	}

	return fw, nil
}
