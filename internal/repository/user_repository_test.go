package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pathfinder-api/internal/model"
)

func TestUserRepo_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewUserRepo()
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	a, err := repo.Create(ctx, model.User{Username: "a", Email: "a@x.io"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, model.User{Username: "b", Email: "b@x.io"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, fixed, a.CreatedAt)
	assert.Equal(t, 2, repo.Count())
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, model.User{Username: "a", Email: "a@x.io"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.User{Username: "other", Email: "a@x.io"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, 1, repo.Count())

	// emails are matched exactly
	_, err = repo.Create(ctx, model.User{Username: "upper", Email: "A@x.io"})
	assert.NoError(t, err)
}

func TestUserRepo_Lookups(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()
	created, err := repo.Create(ctx, model.User{Username: "a", Email: "a@x.io", Role: "user"})
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.GetByEmail(ctx, "missing@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound)
	for _, id := range []int64{0, -1, 2} {
		_, err = repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrUserNotFound, id)
	}
}

func TestUserRepo_CancelledContext(t *testing.T) {
	repo := NewUserRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, model.User{Email: "a@x.io"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.Count())
}

func TestUserRepo_ConcurrentCreate(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	const workers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ids      = make(map[int64]bool)
		conflict int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every other worker races for the same address
			email := fmt.Sprintf("user%d@x.io", i)
			if i%2 == 0 {
				email = "shared@x.io"
			}
			u, err := repo.Create(ctx, model.User{Username: "u", Email: email})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrEmailExists)
				conflict++
				return
			}
			assert.False(t, ids[u.ID], "id %d reused", u.ID)
			ids[u.ID] = true
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers/2-1, conflict)
	assert.Equal(t, workers/2+1, repo.Count())
	for id := int64(1); id <= int64(repo.Count()); id++ {
		assert.True(t, ids[id], "missing id %d", id)
	}
}
