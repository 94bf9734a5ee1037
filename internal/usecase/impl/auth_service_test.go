package impl

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"mycv/internal/domain/entity"
	domainerrors "mycv/internal/domain/errors"
	"mycv/internal/domain/repository"
	"mycv/internal/domain/service"
	mockRepo "mycv/internal/mocks/repository"
	mockSvc "mycv/internal/mocks/service"
	"mycv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var storedSecretPattern = regexp.MustCompile(`^[0-9a-f]{16}\.[0-9a-f]{64}$`)

type authFixtures struct {
	service  usecase.AuthUsecase
	store    *memoryStore
	recorder *mockSvc.RecorderSpy
}

func createTestAuthService(t *testing.T, collapse bool) authFixtures {
	t.Helper()

	cfg := newTestConfig()
	cfg.Auth.CollapseSigninFailures = collapse

	store := newMemoryStore()
	recorder := &mockSvc.RecorderSpy{}

	return authFixtures{
		service: NewAuthService(AuthServiceParams{
			Store:    store,
			Hasher:   newTestHasher(t),
			Recorder: recorder,
			Config:   cfg,
			Logger:   newDiscardLogger(),
		}),
		store:    store,
		recorder: recorder,
	}
}

func TestAuthService_SignupSigninRoundTrip(t *testing.T) {
	f := createTestAuthService(t, false)
	ctx := context.Background()

	signedUp, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", signedUp.Email)
	assert.NotEqual(t, uuid.Nil, signedUp.ID)

	signedIn, err := f.service.Signin(ctx, &usecase.SigninInput{Email: "a@x.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, signedUp, signedIn)

	// Deriving again from the same salt must verify every time.
	again, err := f.service.Signin(ctx, &usecase.SigninInput{Email: "a@x.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, signedUp.ID, again.ID)

	assert.Equal(t, 1, f.store.createCalls(), "signin must not write")
	assert.Equal(t, []string{"signup/success", "signin/success", "signin/success"}, f.recorder.Outcomes())
}

func TestAuthService_StoredSecretFormatAndNoPlaintext(t *testing.T) {
	f := createTestAuthService(t, false)

	_, err := f.service.Signup(context.Background(), &usecase.SignupInput{Email: "a@x.io", Password: "hunter2-plaintext"})
	require.NoError(t, err)

	records, err := f.store.Find(context.Background(), "a@x.io")
	require.NoError(t, err)
	require.Len(t, records, 1)

	stored := records[0].StoredSecret
	assert.Regexp(t, storedSecretPattern, stored)
	assert.NotContains(t, stored, "hunter2-plaintext")
	assert.NotContains(t, stored, "68756e746572322d706c61696e74657874") // hex of the password
}

func TestAuthService_SaltsAreUnique(t *testing.T) {
	f := createTestAuthService(t, false)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "same"})
	require.NoError(t, err)
	_, err = f.service.Signup(ctx, &usecase.SignupInput{Email: "b@x.io", Password: "same"})
	require.NoError(t, err)

	a, _ := f.store.Find(ctx, "a@x.io")
	b, _ := f.store.Find(ctx, "b@x.io")

	saltA, keyA, _ := strings.Cut(a[0].StoredSecret, ".")
	saltB, keyB, _ := strings.Cut(b[0].StoredSecret, ".")
	assert.NotEqual(t, saltA, saltB)
	assert.NotEqual(t, keyA, keyB)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	f := createTestAuthService(t, false)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "one"})
	require.NoError(t, err)

	identity, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "two"})
	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateCredential))
	assert.Equal(t, 1, f.store.count("a@x.io"))

	// The first password still works.
	_, err = f.service.Signin(ctx, &usecase.SigninInput{Email: "a@x.io", Password: "one"})
	assert.NoError(t, err)
}

func TestAuthService_SignupDuplicateSkipsHashing(t *testing.T) {
	store := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	srv := NewAuthService(AuthServiceParams{
		Store:  store,
		Hasher: hasher,
		Config: newTestConfig(),
		Logger: newDiscardLogger(),
	})

	store.On("Find", mock.Anything, "a@x.io").Return([]*entity.User{{ID: uuid.New(), Email: "a@x.io"}}, nil)

	_, err := srv.Signup(context.Background(), &usecase.SignupInput{Email: "a@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateCredential))
	hasher.AssertNotCalled(t, "GenerateSalt")
	hasher.AssertNotCalled(t, "DeriveKey", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignupConcurrentSameEmail(t *testing.T) {
	f := createTestAuthService(t, false)

	const attempts = 8
	var succeeded, duplicates atomic.Int32
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Signup(context.Background(), &usecase.SignupInput{Email: "race@x.io", Password: "pw"})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domainerrors.ErrDuplicateCredential):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), duplicates.Load())
	assert.Equal(t, 1, f.store.count("race@x.io"))
}

func TestAuthService_SignupStoreRejectsDuplicate(t *testing.T) {
	store := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	recorder := &mockSvc.RecorderSpy{}

	srv := NewAuthService(AuthServiceParams{
		Store:    store,
		Hasher:   hasher,
		Recorder: recorder,
		Config:   newTestConfig(),
		Logger:   newDiscardLogger(),
	})

	key := make([]byte, 32)
	store.On("Find", mock.Anything, "a@x.io").Return(nil, nil)
	hasher.On("GenerateSalt").Return("0123456789abcdef", nil)
	hasher.On("DeriveKey", mock.Anything, "pw", "0123456789abcdef").Return(key, nil)
	hasher.On("Encode", "0123456789abcdef", key).Return("encoded")
	store.On("Create", mock.Anything, "a@x.io", "encoded").
		Return(nil, domainerrors.ErrDuplicateCredential.WrapMessage("email already exists"))

	_, err := srv.Signup(context.Background(), &usecase.SignupInput{Email: "a@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateCredential))
	assert.Equal(t, []string{"signup/duplicate"}, recorder.Outcomes())
}

func TestAuthService_SignupFindError(t *testing.T) {
	store := mockRepo.NewMockUserRepository(t)
	srv := NewAuthService(AuthServiceParams{
		Store:  store,
		Hasher: mockSvc.NewMockPasswordHasher(t),
		Config: newTestConfig(),
		Logger: newDiscardLogger(),
	})

	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("conn refused"), "find")
	store.On("Find", mock.Anything, "a@x.io").Return(nil, dbErr)

	_, err := srv.Signup(context.Background(), &usecase.SignupInput{Email: "a@x.io", Password: "pw"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrDuplicateCredential))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestAuthService_SignupCancelled(t *testing.T) {
	f := createTestAuthService(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, f.store.count("a@x.io"))
}

func TestAuthService_SigninUnknownEmail(t *testing.T) {
	f := createTestAuthService(t, false)

	identity, err := f.service.Signin(context.Background(), &usecase.SigninInput{Email: "ghost@x.io", Password: "pw"})
	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domainerrors.ErrCredentialNotFound))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredential))
	assert.Equal(t, []string{"signin/not_found"}, f.recorder.Outcomes())
}

func TestAuthService_SigninUnknownEmailCollapsed(t *testing.T) {
	f := createTestAuthService(t, true)

	_, err := f.service.Signin(context.Background(), &usecase.SigninInput{Email: "ghost@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredential))
	assert.False(t, errors.Is(err, domainerrors.ErrCredentialNotFound))
}

func TestAuthService_SigninWrongPassword(t *testing.T) {
	f := createTestAuthService(t, false)
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &usecase.SignupInput{Email: "a@x.io", Password: "right"})
	require.NoError(t, err)

	for _, wrong := range []string{"wrong", "", "right ", "Right"} {
		identity, err := f.service.Signin(ctx, &usecase.SigninInput{Email: "a@x.io", Password: wrong})
		assert.Nil(t, identity)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredential), "password %q", wrong)
	}
}

func TestAuthService_SigninMultipleRecordsUsesFirst(t *testing.T) {
	logger, logs := newBufferLogger()
	store := newMemoryStore()
	hasher := newTestHasher(t)

	secretFor := func(password string) string {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)
		key, err := hasher.DeriveKey(context.Background(), password, salt)
		require.NoError(t, err)

		return hasher.Encode(salt, key)
	}

	first := &entity.User{ID: uuid.New(), Email: "dup@x.io", StoredSecret: secretFor("first")}
	second := &entity.User{ID: uuid.New(), Email: "dup@x.io", StoredSecret: secretFor("second")}
	store.seed(first, second)

	srv := NewAuthService(AuthServiceParams{Store: store, Hasher: hasher, Config: newTestConfig(), Logger: logger})

	identity, err := srv.Signin(context.Background(), &usecase.SigninInput{Email: "dup@x.io", Password: "first"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, identity.ID)

	_, err = srv.Signin(context.Background(), &usecase.SigninInput{Email: "dup@x.io", Password: "second"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredential))

	assert.Contains(t, logs.String(), "Multiple credential records for one email")
	assert.Contains(t, logs.String(), "count=2")
}

func TestAuthService_SigninMalformedRecord(t *testing.T) {
	logger, logs := newBufferLogger()
	store := newMemoryStore()
	store.seed(&entity.User{ID: uuid.New(), Email: "bad@x.io", StoredSecret: "not-a-secret"})
	recorder := &mockSvc.RecorderSpy{}

	srv := NewAuthService(AuthServiceParams{
		Store:    store,
		Hasher:   newTestHasher(t),
		Recorder: recorder,
		Config:   newTestConfig(),
		Logger:   logger,
	})

	_, err := srv.Signin(context.Background(), &usecase.SigninInput{Email: "bad@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, domainerrors.ErrMalformedRecord))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredential))
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "Stored credential is malformed")
	assert.Equal(t, []string{"signin/malformed"}, recorder.Outcomes())
}

func TestAuthService_SigninDeriveError(t *testing.T) {
	store := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	srv := NewAuthService(AuthServiceParams{Store: store, Hasher: hasher, Config: newTestConfig(), Logger: newDiscardLogger()})

	user := &entity.User{ID: uuid.New(), Email: "a@x.io", StoredSecret: "stored"}
	store.On("Find", mock.Anything, "a@x.io").Return([]*entity.User{user}, nil)
	hasher.On("Decode", "stored").Return("0123456789abcdef", make([]byte, 32), nil)
	hasher.On("DeriveKey", mock.Anything, "pw", "0123456789abcdef").Return(nil, context.DeadlineExceeded)

	_, err := srv.Signin(context.Background(), &usecase.SigninInput{Email: "a@x.io", Password: "pw"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredential))
}

func TestNewAuthService_StoreIsUserRepository(t *testing.T) {
	var _ repository.CredentialStore = mockRepo.NewMockUserRepository(t)
	var _ service.AuthRecorder = &mockSvc.RecorderSpy{}
}
