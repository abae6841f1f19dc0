package config

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "helene"
	keyringAPIKey  = "gemini_api_key"
)

// osKeyring reads secrets from the platform keyring (Keychain on macOS,
// Secret Service on Linux, Credential Manager on Windows).
type osKeyring struct{}

func (osKeyring) Get(service, account string) (string, error) {
	v, err := keyring.Get(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// StoreAPIKey saves the Gemini API key in the OS keyring.
func StoreAPIKey(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("API key must not be empty")
	}
	if err := keyring.Set(keyringService, keyringAPIKey, value); err != nil {
		return fmt.Errorf("storing API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the Gemini API key from the OS keyring. Removing a
// key that is not there is not an error.
func DeleteAPIKey() error {
	if err := keyring.Delete(keyringService, keyringAPIKey); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("deleting API key from keyring: %w", err)
	}
	return nil
}
