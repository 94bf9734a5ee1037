package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"mycv/config"
	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/service"
	"mycv/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{},
		Report: &config.ReportConfig{
			SearchRadiusDeg: 5,
			YearWindow:      3,
			SampleSize:      3,
		},
	}
}

// newTestHasher returns a real scrypt hasher with a low cost factor.
func newTestHasher(t *testing.T) service.PasswordHasher {
	t.Helper()

	h, err := auth.NewScryptHasherWithParams(1024, 8, 1, 4, nil)
	require.NoError(t, err)

	return h
}

// memoryStore is an in-memory CredentialStore with a unique email index.
type memoryStore struct {
	mu      sync.Mutex
	byEmail map[string][]*entity.User
	creates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byEmail: make(map[string][]*entity.User)}
}

func (s *memoryStore) Find(_ context.Context, email string) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.byEmail[email]
	out := make([]*entity.User, 0, len(records))
	for _, r := range records {
		clone := *r
		out = append(out, &clone)
	}

	return out, nil
}

func (s *memoryStore) Create(_ context.Context, email, storedSecret string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.byEmail[email]) > 0 {
		return nil, domainerrors.ErrDuplicateCredential.WrapMessage("email already exists")
	}

	user := &entity.User{ID: uuid.New(), Email: email, StoredSecret: storedSecret, Admin: true}
	s.byEmail[email] = append(s.byEmail[email], user)
	s.creates++

	clone := *user

	return &clone, nil
}

// seed bypasses the unique index, for stores whose invariant is already broken.
func (s *memoryStore) seed(users ...*entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		s.byEmail[u.Email] = append(s.byEmail[u.Email], u)
	}
}

func (s *memoryStore) count(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byEmail[email])
}

func (s *memoryStore) createCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.creates
}
