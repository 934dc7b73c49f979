package config

import (
	"encoding/json"
	"os"
)

type reader struct {
	path string
}

func newReader(path string) *reader {
	return &reader{path: path}
}

func (r *reader) read() (*Configuration, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
