// Package storage provides atomic file operations for JSON data in
// the canopy data directory.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// dirOverride replaces the data directory when set. Used by tests and
// by the CANOPY_DATA_DIR environment variable.
var dirOverride string

// SetDataDir overrides the data directory. An empty value restores the
// default ~/.canopy.
func SetDataDir(dir string) {
	dirOverride = dir
}

// DataDir returns the path to the canopy data directory, creating it
// if needed. Defaults to ~/.canopy.
func DataDir() (string, error) {
	dir := dirOverride
	if dir == "" {
		if env := os.Getenv("CANOPY_DATA_DIR"); env != "" {
			dir = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".canopy")
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// SaveJSON atomically writes data as JSON to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic operation.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, jsonData, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// LoadJSON reads JSON from the specified path into dest.
// Returns os.ErrNotExist if the file doesn't exist (caller should handle).
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}
