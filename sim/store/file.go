// Package store persists park snapshots. FileStore writes a single YAML
// document per save; SQLiteStore keeps save slots keyed by UUID and an append-only
// log of facility notifications.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/parksim/parksim/sim"
)

// FileStore saves snapshots as YAML files.
type FileStore struct{}

// Save writes snap to path, creating parent directories as needed. The file
// is replaced atomically.
func (FileStore) Save(path string, snap *sim.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	logrus.Infof("Saved park at tick %d to %s (%d bytes)", snap.Clock, path, buf.Len())
	return nil
}

// Load reads a snapshot written by Save. Unknown fields are rejected.
func (FileStore) Load(path string) (*sim.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var snap sim.Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("parsing save file %s: %w", path, err)
	}
	return &snap, nil
}
