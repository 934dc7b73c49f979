package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultResolverResolve(t *testing.T) {
	path, err := newDefaultResolver().resolve()
	if err != nil {
		t.Fatalf("resolve() returned error: %v", err)
	}
	want := filepath.Join("portal", "config.json")
	if filepath.Base(filepath.Dir(path)) != "portal" || filepath.Base(path) != "config.json" {
		t.Errorf("expected path ending in %q, got %q", want, path)
	}
}
