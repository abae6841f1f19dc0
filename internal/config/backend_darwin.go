//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultsDomain is the preferences domain "helene config set" writes to,
// readable with "defaults read com.helene.app".
const defaultsDomain = "com.helene.app"

// defaultDataDir keeps the check-in database next to other per-user app
// data on macOS.
func defaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Library", "Application Support", "helene")
	}
	return "helene-data"
}

// defaultsBackend stores settings such as gemini.model or assistant.demo_mode
// in the macOS user defaults database via the defaults(1) tool.
type defaultsBackend struct {
	domain string
}

func newPlatformBackend() ConfigBackend {
	return &defaultsBackend{domain: defaultsDomain}
}

// run invokes defaults(1) against the backend's domain.
func (b *defaultsBackend) run(verb string, args ...string) (string, error) {
	cmd := exec.Command("defaults", append([]string{verb, b.domain}, args...)...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// lookup reports ok=false when the setting was never written, which
// defaults(1) signals with exit status 1.
func (b *defaultsBackend) lookup(key string) (string, bool, error) {
	s, err := b.run("read", key)
	if err == nil {
		return s, true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return "", false, nil
	}
	return "", false, fmt.Errorf("reading setting %s: %w (%s)", key, err, s)
}

func (b *defaultsBackend) write(key, kind, val string) error {
	if out, err := b.run("write", key, kind, val); err != nil {
		return fmt.Errorf("saving setting %s: %w (%s)", key, err, out)
	}
	return nil
}

func (b *defaultsBackend) GetString(key string) (string, bool, error) {
	return b.lookup(key)
}

// GetInt is used for ports and timeouts, so fractional values are refused.
func (b *defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.lookup(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, true, fmt.Errorf("setting %s is not a whole number: %q", key, s)
	}
	return int(n), true, nil
}

// GetBool reads flags such as assistant.demo_mode. "defaults read" prints
// a -bool value as 1 or 0; hand-written "true" and "false" also work.
func (b *defaultsBackend) GetBool(key string) (bool, bool, error) {
	s, ok, err := b.lookup(key)
	if !ok || err != nil {
		return false, ok, err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, true, fmt.Errorf("setting %s is not true or false: %q", key, s)
	}
	return v, true, nil
}

func (b *defaultsBackend) SetString(key, val string) error {
	return b.write(key, "-string", val)
}

func (b *defaultsBackend) SetInt(key string, val int) error {
	return b.write(key, "-int", strconv.Itoa(val))
}

func (b *defaultsBackend) SetBool(key string, val bool) error {
	return b.write(key, "-bool", strconv.FormatBool(val))
}

// Delete clears a setting so the built-in default applies again.
func (b *defaultsBackend) Delete(key string) error {
	if out, err := b.run("delete", key); err != nil {
		return fmt.Errorf("deleting setting %s: %w (%s)", key, err, out)
	}
	return nil
}
