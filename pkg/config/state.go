package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultLogPath is opened when no previous session names a usable file.
const DefaultLogPath = "log.txt"

// State is the viewer session state persisted between runs.
type State struct {
	LastFile string `yaml:"last_file,omitempty"`
}

// StatePath returns the location of the session state file under the user
// configuration directory.
func StatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(dir, "hxlog", "state.yaml"), nil
}

// LoadState reads the session state at path. A missing file yields an
// empty state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- state path is derived from the user config dir
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	st := &State{}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return st, nil
}

// SaveState writes the session state to path, creating its directory.
func SaveState(path string, st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// StartFile returns the file the viewer should open first: the last opened
// file while it still exists, DefaultLogPath otherwise.
func (s *State) StartFile() string {
	if s == nil || s.LastFile == "" {
		return DefaultLogPath
	}
	if _, err := os.Stat(s.LastFile); err != nil {
		return DefaultLogPath
	}
	return s.LastFile
}
