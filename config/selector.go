package config

import (
	"fmt"
	"os"
)

// Resolver locates the active configuration path a Selector writes into.
// It is the exported counterpart of resolver, for callers building their
// own Selector outside this package's default Manager wiring.
type Resolver interface {
	Resolve() (string, error)
}

// Selector copies a saved relay profile (a JSON file holding a
// Configuration) over the active configuration file, the mechanism
// behind a "use this relay profile" CLI action.
type Selector interface {
	Select(path string) error
}

// DefaultSelector is the default Selector.
type DefaultSelector struct {
	resolver Resolver
}

// NewDefaultSelector builds a Selector that writes the active
// configuration to wherever resolver points.
func NewDefaultSelector(resolver Resolver) Selector {
	return &DefaultSelector{resolver: resolver}
}

// Select reads the profile at path and copies it verbatim over the
// resolved active configuration file.
func (s *DefaultSelector) Select(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dest, err := s.resolver.Resolve()
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o600)
}
