package presentation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// generateCode produces a fresh identifier/pass-phrase pair for a sender
// to share with its receiver out of band. Neither half is a dictionary
// word: word-list generation is an external collaborator's job, so this
// sticks to random hex, the simplest thing that is still easy to read
// aloud or paste.
func generateCode() (identifier, passphrase string, err error) {
	idBytes := make([]byte, 4)
	if _, err = rand.Read(idBytes); err != nil {
		return "", "", fmt.Errorf("generate identifier: %w", err)
	}
	passBytes := make([]byte, 10)
	if _, err = rand.Read(passBytes); err != nil {
		return "", "", fmt.Errorf("generate passphrase: %w", err)
	}
	return hex.EncodeToString(idBytes), hex.EncodeToString(passBytes), nil
}

// formatCode joins an identifier and pass-phrase into the single string a
// user copies to the other side.
func formatCode(identifier, passphrase string) string {
	return identifier + "-" + passphrase
}

// parseCode splits a user-supplied code back into its identifier and
// pass-phrase halves.
func parseCode(code string) (identifier, passphrase string, err error) {
	identifier, passphrase, found := strings.Cut(code, "-")
	if !found || identifier == "" || passphrase == "" {
		return "", "", fmt.Errorf("malformed code %q: expected identifier-passphrase", code)
	}
	return identifier, passphrase, nil
}
