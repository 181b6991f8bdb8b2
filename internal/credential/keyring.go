// Package credential resolves optional bearer tokens for the two
// backends. Environment variables win; the system keyring is the
// fallback for tokens the user has stored persistently.
package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "pdf2ticket"

// Keyring entry names for the backend tokens.
const (
	ExtractionTokenKey = "extraction-token"
	TicketTokenKey     = "ticket-token"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/pdf2ticket/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("pdf2ticket-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// KeyFor maps a backend name given on the command line to its keyring
// entry key.
func KeyFor(backend string) (string, error) {
	switch backend {
	case "extraction":
		return ExtractionTokenKey, nil
	case "ticket":
		return TicketTokenKey, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want extraction or ticket)", backend)
	}
}

// Token resolves a backend token: the environment variable wins, then
// the keyring entry. A missing token is not an error; both backends are
// unauthenticated by default.
func Token(envVar, key string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	v, err := Get(key)
	if err != nil {
		return ""
	}
	return v
}
