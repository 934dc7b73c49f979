package recordlayer

import (
	"sync"
	"testing"
)

func TestNonceSequenceInitialization(t *testing.T) {
	seq := NewNonceSequence()
	if seq.low != 0 || seq.high != 0 {
		t.Errorf("expected low=0 and high=0, got low=%d, high=%d", seq.low, seq.high)
	}
}

func TestNonceSequenceIncrement(t *testing.T) {
	seq := NewNonceSequence()
	for i := 1; i <= 5; i++ {
		if _, err := seq.Next(); err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if seq.low != uint64(i) || seq.high != 0 {
			t.Errorf("after %d increments, expected low=%d, high=0, got low=%d, high=%d", i, i, seq.low, seq.high)
		}
	}
}

func TestNonceSequenceLowOverflow(t *testing.T) {
	seq := NewNonceSequence()
	seq.low = ^uint64(0)
	if _, err := seq.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if seq.low != 0 || seq.high != 1 {
		t.Errorf("expected low=0 and high=1 after low overflow, got low=%d, high=%d", seq.low, seq.high)
	}
}

func TestNonceSequenceHighOverflow(t *testing.T) {
	seq := NewNonceSequence()
	seq.low = ^uint64(0)
	seq.high = ^uint32(0)
	_, err := seq.Next()
	if err != ErrNonceOverflow {
		t.Fatalf("expected ErrNonceOverflow, got %v", err)
	}
}

func TestNonceSequenceNeverRepeats(t *testing.T) {
	seq := NewNonceSequence()
	seen := make(map[[12]byte]bool)
	for i := 0; i < 10000; i++ {
		n, err := seq.Next()
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if seen[n] {
			t.Fatalf("nonce repeated at iteration %d", i)
		}
		seen[n] = true
	}
}

func TestNonceSequenceConcurrent(t *testing.T) {
	seq := NewNonceSequence()
	var wg sync.WaitGroup
	numGoroutines := 10
	incrementsPerGoroutine := 1000

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < incrementsPerGoroutine; j++ {
				if _, err := seq.Next(); err != nil {
					t.Errorf("Next returned error: %v", err)
					return
				}
			}
		}()
	}

	wg.Wait()
	expectedLow := uint64(numGoroutines * incrementsPerGoroutine)
	if seq.low != expectedLow || seq.high != 0 {
		t.Errorf("expected low=%d and high=0 after concurrent increments, got low=%d, high=%d", expectedLow, seq.low, seq.high)
	}
}
