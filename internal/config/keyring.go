// Package config stores ThingsBoard connection profiles in the OS keyring and
// resolves client settings from profiles, environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "tb-cli"

	envKeyringBackend  = "TB_KEYRING_BACKEND"
	envKeyringPassword = "TB_KEYRING_PASSWORD"
	envCredentialsDir  = "TB_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

var (
	openKeyring   = keyring.Open
	userConfigDir = os.UserConfigDir
	stdinHasTTY   = func() bool {
		fi, err := os.Stdin.Stat()
		return err == nil && fi.Mode()&os.ModeCharDevice != 0
	}
)

// SetOpenKeyring swaps the keyring opener, for tests. Call the returned
// func to restore it.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	prev := openKeyring
	openKeyring = fn
	return func() { openKeyring = prev }
}

// ConfigDir returns the tb-cli configuration directory.
func ConfigDir() string {
	candidates := []func() (string, error){
		userConfigDir,
		func() (string, error) {
			home, err := os.UserHomeDir()
			return filepath.Join(home, ".config"), err
		},
	}
	for _, dir := range candidates {
		if d, err := dir(); err == nil && strings.TrimSpace(d) != "" && d != ".config" {
			return filepath.Join(d, serviceName)
		}
	}
	return filepath.Join(os.TempDir(), serviceName)
}

func keyringBackendMode() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case "file":
		return keyringBackendFile
	case "system", "os", "native":
		return keyringBackendSystem
	}
	return keyringBackendAuto
}

// shouldForceFileBackend is true for an explicit file backend and for
// Linux without a session bus, where the secret service is unreachable.
func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	switch backend {
	case keyringBackendFile:
		return true
	case keyringBackendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	}
	return false
}

func keyringConfig() keyring.Config {
	mode := keyringBackendMode()
	cfg := keyring.Config{ServiceName: serviceName}
	if mode == keyringBackendSystem {
		return cfg
	}
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
	if shouldForceFileBackend(runtime.GOOS, mode, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		base = ConfigDir()
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if pw := os.Getenv(envKeyringPassword); strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if stdinHasTTY() {
		return keyring.TerminalPrompt(prompt)
	}
	return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
}
