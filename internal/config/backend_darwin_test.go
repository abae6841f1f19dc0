//go:build darwin

package config

import (
	"os/exec"
	"path/filepath"
	"testing"
)

func newTestDefaults(t *testing.T) *defaultsBackend {
	t.Helper()
	if _, err := exec.LookPath("defaults"); err != nil {
		t.Skip("defaults(1) not available")
	}
	return &defaultsBackend{domain: filepath.Join(t.TempDir(), "helene-test")}
}

func TestDefaultsBackend_RoundTrip(t *testing.T) {
	b := newTestDefaults(t)

	if _, ok, err := b.GetString("gemini.model"); ok || err != nil {
		t.Fatalf("unset key: ok=%v err=%v", ok, err)
	}

	if err := b.SetString("gemini.model", "gemini-2.0-flash"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetInt("server.port", 4100); err != nil {
		t.Fatal(err)
	}
	if err := b.SetBool("assistant.demo_mode", true); err != nil {
		t.Fatal(err)
	}

	if v, ok, err := b.GetString("gemini.model"); !ok || err != nil || v != "gemini-2.0-flash" {
		t.Errorf("GetString = %q %v %v", v, ok, err)
	}
	if v, ok, err := b.GetInt("server.port"); !ok || err != nil || v != 4100 {
		t.Errorf("GetInt = %d %v %v", v, ok, err)
	}
	if v, ok, err := b.GetBool("assistant.demo_mode"); !ok || err != nil || !v {
		t.Errorf("GetBool = %v %v %v", v, ok, err)
	}

	if err := b.Delete("gemini.model"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.GetString("gemini.model"); ok {
		t.Error("key still present after Delete")
	}
}

func TestDefaultsBackend_BadInt(t *testing.T) {
	b := newTestDefaults(t)
	if err := b.SetString("server.port", "41.5"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := b.GetInt("server.port"); !ok || err == nil {
		t.Errorf("GetInt on fractional value: ok=%v err=%v", ok, err)
	}
}
