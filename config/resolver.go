package config

import (
	"os"
	"path/filepath"
)

// resolver locates the configuration file on disk. It is a narrow,
// package-private port so tests can swap in a fixed path without a real
// home directory.
type resolver interface {
	resolve() (string, error)
}

type defaultResolver struct{}

func newDefaultResolver() resolver {
	return defaultResolver{}
}

func (defaultResolver) resolve() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "portal", "config.json"), nil
}
