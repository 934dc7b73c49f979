// Package config persists the client's relay address and default download
// directory between runs, the same way the teacher persists its own
// client configuration: a small JSON file at a platform-resolved path,
// read and written through a pluggable resolver so tests never touch the
// real filesystem location.
package config

import "portal/settings"

// Configuration is the on-disk client configuration.
type Configuration struct {
	RelayHost     string                 `json:"relay_host"`
	RelayPort     int                    `json:"relay_port"`
	DownloadDir   string                 `json:"download_dir"`
	Encryption    settings.Encryption    `json:"encryption"`
	DialTimeoutMs settings.DialTimeoutMs `json:"dial_timeout_ms"`
}

// Default returns the configuration a fresh install starts with: the
// compiled-in relay port, the current user's home directory, and the one
// AEAD algorithm and dial timeout Portal ships today.
func Default(homeDir string) Configuration {
	return Configuration{
		RelayHost:     "localhost",
		RelayPort:     settings.DefaultRelayPort,
		DownloadDir:   homeDir,
		Encryption:    settings.ChaCha20Poly1305,
		DialTimeoutMs: settings.DefaultDialTimeoutMs,
	}
}
