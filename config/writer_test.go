package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterWriteCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "config.json")
	cfg := &Configuration{RelayHost: "h", RelayPort: 1, DownloadDir: "d"}

	if err := newWriter(path).write(cfg); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Configuration
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != *cfg {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
}

func TestWriterWriteErrorOnDirectoryPath(t *testing.T) {
	dir := t.TempDir()
	if err := newWriter(dir).write(&Configuration{}); err == nil {
		t.Fatal("expected error writing to a directory path")
	}
}
