// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"

	"mycv/config"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/service"
	"mycv/internal/errors"
)

const (
	// SaltBytes is the number of random bytes in a salt before hex encoding.
	SaltBytes = 8
	// KeyLength is the size of a derived key in bytes.
	KeyLength = 32

	secretSeparator = "."
)

// scryptHasher is a concrete implementation of the PasswordHasher interface using scrypt.
// Derivations run on a pool bounded by a weighted semaphore.
type scryptHasher struct {
	n, r, p  int
	pool     *semaphore.Weighted
	recorder service.AuthRecorder
}

type derivation struct {
	key []byte
	err error
}

// NewScryptHasher builds the hasher from the auth section of the config.
func NewScryptHasher(cfg *config.Config, recorder service.AuthRecorder) (service.PasswordHasher, error) {
	return NewScryptHasherWithParams(cfg.Auth.Scrypt.N, cfg.Auth.Scrypt.R, cfg.Auth.Scrypt.P, cfg.Auth.HashWorkers, recorder)
}

// NewScryptHasherWithParams creates a hasher with explicit cost parameters and pool size.
// A nil recorder disables instrumentation.
func NewScryptHasherWithParams(n, r, p, workers int, recorder service.AuthRecorder) (service.PasswordHasher, error) {
	if n <= 1 || n&(n-1) != 0 {
		return nil, errors.Errorf("scrypt N must be a power of two greater than 1, got %d", n)
	}
	if r <= 0 || p <= 0 {
		return nil, errors.Errorf("scrypt r and p must be positive, got r=%d p=%d", r, p)
	}
	if workers <= 0 {
		return nil, errors.Errorf("hash workers must be positive, got %d", workers)
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &scryptHasher{
		n:        n,
		r:        r,
		p:        p,
		pool:     semaphore.NewWeighted(int64(workers)),
		recorder: recorder,
	}, nil
}

// GenerateSalt reads SaltBytes from crypto/rand and hex-encodes them.
func (h *scryptHasher) GenerateSalt() (string, error) {
	buf := make([]byte, SaltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random salt")
	}

	return hex.EncodeToString(buf), nil
}

// DeriveKey derives a KeyLength key from password using the salt's hex text as KDF salt.
// If ctx ends while waiting, DeriveKey returns immediately. scrypt itself cannot be
// interrupted, so a derivation already running keeps its worker slot until it
// returns. Under a burst of cancelled requests the pool stays saturated for up to
// one derivation time; hashWorkers bounds the CPU spent on abandoned work.
func (h *scryptHasher) DeriveKey(ctx context.Context, password, salt string) ([]byte, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "wait for hash worker")
	}

	results := make(chan derivation, 1)
	go func() {
		defer h.pool.Release(1)

		h.recorder.DerivationStarted()
		defer h.recorder.DerivationFinished()

		start := time.Now()
		key, err := scrypt.Key([]byte(password), []byte(salt), h.n, h.r, h.p, KeyLength)
		h.recorder.ObserveDerivation(time.Since(start))

		results <- derivation{key: key, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "derive key")
	case res := <-results:
		if res.err != nil {
			return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, res.err.Error())
		}

		return res.key, nil
	}
}

// Encode renders "<salt>.<hex key>".
func (h *scryptHasher) Encode(salt string, derivedKey []byte) string {
	return salt + secretSeparator + hex.EncodeToString(derivedKey)
}

// Decode is strict: exactly one separator, a 16 character lowercase hex salt
// and a 64 character lowercase hex key.
func (h *scryptHasher) Decode(storedSecret string) (string, []byte, error) {
	parts := strings.Split(storedSecret, secretSeparator)
	if len(parts) != 2 {
		return "", nil, domainerrors.ErrMalformedRecord.WrapMessage("stored secret must contain exactly one separator")
	}

	salt, encodedKey := parts[0], parts[1]
	if len(salt) != SaltBytes*2 || !isLowerHex(salt) {
		return "", nil, domainerrors.ErrMalformedRecord.WrapMessage("stored secret has an invalid salt")
	}
	if len(encodedKey) != KeyLength*2 || !isLowerHex(encodedKey) {
		return "", nil, domainerrors.ErrMalformedRecord.WrapMessage("stored secret has an invalid key")
	}

	key, err := hex.DecodeString(encodedKey)
	if err != nil {
		return "", nil, domainerrors.ErrMalformedRecord.WrapMessage(err.Error())
	}

	return salt, key, nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}

type noopRecorder struct{}

func (noopRecorder) RecordOutcome(string, string)    {}
func (noopRecorder) ObserveDerivation(time.Duration) {}
func (noopRecorder) DerivationStarted()              {}
func (noopRecorder) DerivationFinished()             {}
