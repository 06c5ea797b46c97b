package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/storage"
	"github.com/iudanet/taskapi/internal/server/storage/sqlite"
	"github.com/iudanet/taskapi/internal/server/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func setupTestService(t *testing.T) (*Service, *sqlite.Storage, *token.Codec) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	codec, err := token.NewCodec(testSecret, token.DefaultLifetime)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewService(logger, store, codec, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	return svc, store, codec
}

func TestNewService_InvalidCost(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewService(logger, nil, nil, WithBcryptCost(bcrypt.MaxCost+1))
	assert.Error(t, err)
}

func TestService_Register_Success(t *testing.T) {
	ctx := context.Background()
	svc, store, codec := setupTestService(t)

	res, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)

	subject, err := codec.Verify(res.Token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	user, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestService_Register_Duplicates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupTestService(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		wantErr  error
		name     string
		username string
		email    string
	}{
		{name: "same username", username: "alice", email: "other@example.com", wantErr: ErrDuplicateUsername},
		{name: "same email", username: "other", email: "alice@example.com", wantErr: ErrDuplicateEmail},
		{name: "both taken reports username first", username: "alice", email: "alice@example.com", wantErr: ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Register(ctx, tt.username, tt.email, "secret1")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
		})
	}
}

func TestService_Register_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupTestService(t)

	const workers = 2

	var wg sync.WaitGroup
	errs := make([]error, workers)
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Register(ctx, "racer", "racer"+string(rune('a'+i))+"@example.com", "secret1")
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	}
	assert.Equal(t, 1, succeeded)
}

func TestService_Register_PasswordTooLong(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", strings.Repeat("ж", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

// failingUserStorage эмулирует сбой хранилища при создании пользователя
type failingUserStorage struct {
	createErr error
	created   int
}

func (f *failingUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	f.created++
	return f.createErr
}

func (f *failingUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, storage.ErrUserNotFound
}

func (f *failingUserStorage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (f *failingUserStorage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

// countingIssuer считает выпущенные токены
type countingIssuer struct {
	issued int
}

func (c *countingIssuer) Issue(subject string, now time.Time) (string, error) {
	c.issued++
	return "token-for-" + subject, nil
}

func TestService_Register_StorageFailureIssuesNoToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		createErr error
		wantErr   error
		name      string
	}{
		{name: "unexpected error", createErr: errors.New("disk full")},
		{name: "username race lost", createErr: storage.ErrUsernameTaken, wantErr: ErrDuplicateUsername},
		{name: "email race lost", createErr: storage.ErrEmailTaken, wantErr: ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &failingUserStorage{createErr: tt.createErr}
			issuer := &countingIssuer{}

			svc, err := NewService(logger, users, issuer, WithBcryptCost(bcrypt.MinCost))
			require.NoError(t, err)

			res, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
			require.Error(t, err)
			assert.Nil(t, res)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.createErr)
			}
			assert.Equal(t, 1, users.created)
			assert.Zero(t, issuer.issued)
		})
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _, codec := setupTestService(t)

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.NotEqual(t, registered.Token, res.Token)

		subject, err := codec.Verify(res.Token, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, wrongPassword := svc.Login(ctx, "alice", "wrong-password")
		_, unknownUser := svc.Login(ctx, "nobody", "secret1")

		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})
}

func TestService_UsesClock(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)

	issuedAt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewService(logger, store, codec,
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return issuedAt }),
	)
	require.NoError(t, err)

	res, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = codec.Verify(res.Token, issuedAt.Add(30*time.Minute))
	assert.NoError(t, err)

	_, err = codec.Verify(res.Token, issuedAt.Add(2*time.Hour))
	assert.ErrorIs(t, err, token.ErrExpired)
}
