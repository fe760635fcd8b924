// Package credential persists the session token and profile between
// runs using the system keyring, falling back to an encrypted file
// backend on platforms without one.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "tally"

// Store is a keyring-backed key-value store for session credentials.
type Store struct {
	openRing func() (keyring.Keyring, error)
}

// NewStore returns a Store backed by the system keyring.
func NewStore() *Store {
	return &Store{openRing: openKeyring}
}

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
		FileDir:                  "~/.config/tally/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("tally-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	ring, err := s.openRing()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key string, value string) error {
	ring, err := s.openRing()
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

// Delete removes a credential by key. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	ring, err := s.openRing()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
