package config

import (
	"os"

	"portal/application"
)

// Deleter removes a configuration file from disk.
type Deleter interface {
	Delete(path string) error
}

// DefaultDeleter is the default Deleter. logger may be nil; it is only
// used for a best-effort notice, never required for correctness.
type DefaultDeleter struct {
	logger application.Logger
}

// NewDefaultDeleter builds a Deleter that optionally logs through logger.
func NewDefaultDeleter(logger application.Logger) Deleter {
	return &DefaultDeleter{logger: logger}
}

func (d *DefaultDeleter) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return err
	}
	if d.logger != nil {
		d.logger.Printf("config: removed %s", path)
	}
	return nil
}
