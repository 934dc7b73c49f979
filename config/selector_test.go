package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type selectorTestResolver struct {
	resolvePath string
	err         error
}

func (f *selectorTestResolver) Resolve() (string, error) {
	return f.resolvePath, f.err
}

func TestSelectorStatError(t *testing.T) {
	nonExistingFile := "/non/existent/profile.json"
	resolver := &selectorTestResolver{resolvePath: "/dummy/dest.json"}
	selector := NewDefaultSelector(resolver)

	err := selector.Select(nonExistingFile)
	if err == nil || !strings.Contains(err.Error(), nonExistingFile) {
		t.Fatalf("expected error mentioning file %q, got %v", nonExistingFile, err)
	}
}

func TestSelectorResolverError(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "profile.json")
	if err := os.WriteFile(filePath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("failed to create profile file: %v", err)
	}

	expectedErr := errors.New("resolver error")
	resolver := &selectorTestResolver{err: expectedErr}
	selector := NewDefaultSelector(resolver)

	err := selector.Select(filePath)
	if err == nil || err.Error() != expectedErr.Error() {
		t.Fatalf("expected resolver error %q, got %v", expectedErr, err)
	}
}

func TestSelectorWriteFileError(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "profile.json")
	if err := os.WriteFile(filePath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("failed to create profile file: %v", err)
	}

	resolver := &selectorTestResolver{resolvePath: tempDir}
	selector := NewDefaultSelector(resolver)

	if err := selector.Select(filePath); err == nil {
		t.Fatal("expected write file error, got nil")
	}
}

func TestSelectorSuccess(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "profile.json")
	profileData := `{"relay_host":"relay.example.com","relay_port":13265,"download_dir":"/tmp"}`
	if err := os.WriteFile(filePath, []byte(profileData), 0600); err != nil {
		t.Fatalf("failed to create profile file: %v", err)
	}

	destPath := filepath.Join(tempDir, "active.json")
	resolver := &selectorTestResolver{resolvePath: destPath}
	selector := NewDefaultSelector(resolver)

	if err := selector.Select(filePath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("failed to read destination file: %v", err)
	}
	if string(written) != profileData {
		t.Errorf("expected destination content %q, got %q", profileData, string(written))
	}
}
