package tasks

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/taskapi/internal/models"
	"github.com/iudanet/taskapi/internal/server/storage/sqlite"
)

type fixture struct {
	svc   *Service
	alice int64
	bob   int64
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	ids := make([]int64, 0, 2)
	for _, name := range []string{"alice", "bob"} {
		user := &models.User{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "hash",
			CreatedAt:    time.Now(),
		}
		require.NoError(t, store.CreateUser(ctx, user))
		ids = append(ids, user.ID)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		svc:   NewService(logger, store),
		alice: ids[0],
		bob:   ids[1],
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	t.Run("completed defaults to false", func(t *testing.T) {
		task, err := f.svc.Create(ctx, f.alice, Input{Title: "Buy milk"})
		require.NoError(t, err)
		assert.NotZero(t, task.ID)
		assert.Equal(t, f.alice, task.UserID)
		assert.False(t, task.Completed)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("completed can be set on creation", func(t *testing.T) {
		task, err := f.svc.Create(ctx, f.alice, Input{Title: "Done already", Completed: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, task.Completed)
	})
}

func TestService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	task, err := f.svc.Create(ctx, f.alice, Input{Title: "alice's secret"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = f.svc.Update(ctx, f.bob, task.ID, Input{Title: "stolen"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = f.svc.ToggleCompletion(ctx, f.bob, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = f.svc.Delete(ctx, f.bob, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Несуществующая задача дает ту же ошибку
	_, err = f.svc.Get(ctx, f.bob, 999999)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	bobTasks, err := f.svc.List(ctx, f.bob)
	require.NoError(t, err)
	assert.Empty(t, bobTasks)

	got, err := f.svc.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice's secret", got.Title)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return created }

	task, err := f.svc.Create(ctx, f.alice, Input{Title: "draft", Description: "text", Completed: boolPtr(true)})
	require.NoError(t, err)

	updated := created.Add(time.Hour)
	f.svc.now = func() time.Time { return updated }

	t.Run("completed omitted keeps value", func(t *testing.T) {
		got, err := f.svc.Update(ctx, f.alice, task.ID, Input{Title: "final"})
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.Empty(t, got.Description)
		assert.True(t, got.Completed)
		assert.Equal(t, updated, got.UpdatedAt)
	})

	t.Run("completed given is applied", func(t *testing.T) {
		got, err := f.svc.Update(ctx, f.alice, task.ID, Input{Title: "final", Completed: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, got.Completed)
	})

	stored, err := f.svc.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", stored.Title)
	assert.WithinDuration(t, created, stored.CreatedAt, time.Second)
	assert.WithinDuration(t, updated, stored.UpdatedAt, time.Second)
}

func TestService_ToggleCompletion(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	task, err := f.svc.Create(ctx, f.alice, Input{Title: "Buy milk"})
	require.NoError(t, err)

	got, err := f.svc.ToggleCompletion(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = f.svc.ToggleCompletion(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	first, err := f.svc.Create(ctx, f.alice, Input{Title: "first"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.alice, Input{Title: "second"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.bob, Input{Title: "bob's"})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)

	require.NoError(t, f.svc.Delete(ctx, f.alice, first.ID))

	list, err = f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Title)

	err = f.svc.Delete(ctx, f.alice, first.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
