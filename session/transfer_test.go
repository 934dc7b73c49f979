package session

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"portal/application"
	"portal/wire"
)

func readySessionPair(t *testing.T) (*Session, *Session) {
	t.Helper()
	pass := []byte("correct horse battery staple")
	sessA, sessB, errA, errB := handshakePair(t, pass, pass)
	if errA != nil {
		t.Fatalf("sessA.Handshake: %v", errA)
	}
	if errB != nil {
		t.Fatalf("sessB.Handshake: %v", errB)
	}
	return sessA, sessB
}

func TestTransferSingleFileRoundTrip(t *testing.T) {
	sender, receiver := readySessionPair(t)

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	content := []byte("the quick brown fox jumps over the lazy dog")
	srcPath := filepath.Join(srcDir, "fox.txt")
	if err := os.WriteFile(srcPath, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- sender.SendManifest([]string{srcPath}, nil) }()
	go func() { errB <- receiver.RecvManifest(dstDir, nil, nil) }()

	if err := <-errA; err != nil {
		t.Fatalf("SendManifest: %v", err)
	}
	if err := <-errB; err != nil {
		t.Fatalf("RecvManifest: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dstDir, "fox.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("got %q, want %q", got, content)
	}
}

func TestTransferZeroByteFile(t *testing.T) {
	sender, receiver := readySessionPair(t)

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "empty.bin")
	if err := os.WriteFile(srcPath, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- sender.SendManifest([]string{srcPath}, nil) }()
	go func() { errB <- receiver.RecvManifest(dstDir, nil, nil) }()

	if err := <-errA; err != nil {
		t.Fatalf("SendManifest: %v", err)
	}
	if err := <-errB; err != nil {
		t.Fatalf("RecvManifest: %v", err)
	}

	info, err := os.Stat(filepath.Join(dstDir, "empty.bin"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected zero-length file, got %d bytes", info.Size())
	}
}

func TestTransferMultiFileManifest(t *testing.T) {
	sender, receiver := readySessionPair(t)

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	names := []string{"a.txt", "b.txt"}
	contents := [][]byte{[]byte("first file"), []byte("second file, a bit longer")}
	for i, name := range names {
		if err := os.WriteFile(filepath.Join(srcDir, name), contents[i], 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- sender.SendManifest([]string{srcDir}, nil) }()
	go func() { errB <- receiver.RecvManifest(dstDir, nil, nil) }()

	if err := <-errA; err != nil {
		t.Fatalf("SendManifest: %v", err)
	}
	if err := <-errB; err != nil {
		t.Fatalf("RecvManifest: %v", err)
	}

	for i, name := range names {
		got, err := os.ReadFile(filepath.Join(dstDir, name))
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}
		if string(got) != string(contents[i]) {
			t.Fatalf("%s: got %q, want %q", name, got, contents[i])
		}
	}
}

func TestTransferReceiverCancelsViaVerify(t *testing.T) {
	sender, receiver := readySessionPair(t)

	srcDir := t.TempDir()
	dstDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "secret.txt")
	if err := os.WriteFile(srcPath, []byte("classified"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() { errA <- sender.SendManifest([]string{srcPath}, nil) }()
	go func() {
		errB <- receiver.RecvManifest(dstDir, func(files []application.FileDescriptor) bool {
			return false
		}, nil)
	}()

	if err := <-errB; err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	// Nothing reads the sender's file messages after cancellation; closing
	// the receiver's connection makes any write still blocked on them fail,
	// so the test doesn't hang.
	receiver.Close()
	<-errA

	entries, err := os.ReadDir(dstDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files written after cancellation, found %d", len(entries))
	}
}

func TestSendManifestRequiresReadyState(t *testing.T) {
	a, _ := net.Pipe()
	defer a.Close()
	sess, err := New(a, wire.Sender, "fixture-id", []byte("pw"), discardLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sess.SendManifest([]string{"."}, nil); err != ErrBadState {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestRecvManifestRejectsMissingDownloadDir(t *testing.T) {
	sender, receiver := readySessionPair(t)
	defer sender.Close()

	errB := make(chan error, 1)
	go func() { errB <- receiver.RecvManifest("/does/not/exist", nil, nil) }()

	if err := <-errB; err != ErrBadDirectory {
		t.Fatalf("expected ErrBadDirectory, got %v", err)
	}
}
