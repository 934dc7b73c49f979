package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type writer struct {
	path string
}

func newWriter(path string) *writer {
	return &writer{path: path}
}

func (w *writer) write(cfg *Configuration) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0o600)
}
