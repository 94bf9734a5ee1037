// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher turns passwords into stored secrets of the form "<salt>.<hex key>".
type PasswordHasher interface {
	// GenerateSalt returns 8 random bytes as 16 lowercase hex characters.
	GenerateSalt() (string, error)

	// DeriveKey runs the key derivation function over password and salt and
	// returns a 32-byte key. It blocks until a worker is free or ctx is done.
	DeriveKey(ctx context.Context, password, salt string) ([]byte, error)

	// Encode joins a salt and derived key into a stored secret.
	Encode(salt string, derivedKey []byte) string

	// Decode splits a stored secret. Any deviation from the encoded form is
	// reported as a malformed record.
	Decode(storedSecret string) (salt string, derivedKey []byte, err error)
}
