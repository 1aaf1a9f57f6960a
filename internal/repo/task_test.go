package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/internal/testdb"
)

func ptr[T any](v T) *T { return &v }

func TestTaskRepo(t *testing.T) {
	pool, cleanup := testdb.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewTaskRepo(pool)

	setup := func(t *testing.T) (alice, bob model.User) {
		testdb.TruncateTables(t, pool)
		return testdb.SeedUser(t, pool, "test1"), testdb.SeedUser(t, pool, "test2")
	}
	scope := func(u model.User) Scope {
		return ScopeOf(model.Identity{UserID: u.ID, Username: u.Username})
	}

	t.Run("create sets owner from scope", func(t *testing.T) {
		alice, _ := setup(t)

		created, err := repo.Create(ctx, scope(alice), model.Task{OwnerID: 999, Content: "A"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, alice.ID, created.OwnerID)
		assert.Equal(t, "A", created.Content)
		assert.False(t, created.Done)
	})

	t.Run("create without owner", func(t *testing.T) {
		setup(t)

		_, err := repo.Create(ctx, Scope{}, model.Task{Content: "A"})
		assert.ErrorIs(t, err, ErrorNoOwner)
		assert.Equal(t, 0, testdb.CountTasks(t, pool))
	})

	t.Run("list only returns own tasks", func(t *testing.T) {
		alice, bob := setup(t)
		testdb.SeedTasks(t, pool, alice.ID, 2)
		testdb.SeedTasks(t, pool, bob.ID, 1)

		tasks, err := repo.List(ctx, scope(alice))
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, alice.ID, task.OwnerID)
		}

		tasks, err = repo.List(ctx, Scope{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("get foreign task is not found", func(t *testing.T) {
		alice, bob := setup(t)
		ids := testdb.SeedTasks(t, pool, bob.ID, 1)

		_, err := repo.Get(ctx, scope(alice), ids[0])
		assert.ErrorIs(t, err, ErrorNotFound)

		task, err := repo.Get(ctx, scope(bob), ids[0])
		require.NoError(t, err)
		assert.Equal(t, ids[0], task.ID)
	})

	t.Run("update keeps omitted fields", func(t *testing.T) {
		alice, _ := setup(t)
		created, err := repo.Create(ctx, scope(alice), model.Task{Content: "old", Done: true})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, scope(alice), created.ID, model.TaskPatch{Content: ptr("new")})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Content)
		assert.True(t, updated.Done)

		updated, err = repo.Update(ctx, scope(alice), created.ID, model.TaskPatch{Done: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Content)
		assert.False(t, updated.Done)
	})

	t.Run("update foreign task is not found", func(t *testing.T) {
		alice, bob := setup(t)
		ids := testdb.SeedTasks(t, pool, bob.ID, 1)

		_, err := repo.Update(ctx, scope(alice), ids[0], model.TaskPatch{Content: ptr("hijack")})
		assert.ErrorIs(t, err, ErrorNotFound)

		task, err := repo.Get(ctx, scope(bob), ids[0])
		require.NoError(t, err)
		assert.NotEqual(t, "hijack", task.Content)
	})

	t.Run("delete", func(t *testing.T) {
		alice, bob := setup(t)
		mine := testdb.SeedTasks(t, pool, alice.ID, 1)
		theirs := testdb.SeedTasks(t, pool, bob.ID, 1)

		assert.ErrorIs(t, repo.Delete(ctx, scope(alice), theirs[0]), ErrorNotFound)
		assert.Equal(t, 2, testdb.CountTasks(t, pool))

		require.NoError(t, repo.Delete(ctx, scope(alice), mine[0]))
		assert.Equal(t, 1, testdb.CountTasks(t, pool))

		_, err := repo.Get(ctx, scope(alice), mine[0])
		assert.ErrorIs(t, err, ErrorNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, scope(alice), mine[0]), ErrorNotFound)
	})
}

func TestUserRepo(t *testing.T) {
	pool, cleanup := testdb.SetupTestDB(t)
	defer cleanup()
	testdb.TruncateTables(t, pool)

	ctx := context.Background()
	repo := NewUserRepo(pool)

	created, err := repo.Create(ctx, model.User{Username: "test1", PasswordHash: "hash", IsActive: true})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = repo.Create(ctx, model.User{Username: "test1", PasswordHash: "other", IsActive: true})
	assert.ErrorIs(t, err, ErrorConflict)

	byName, err := repo.GetByUsername(ctx, "test1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "test1", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrorNotFound)
}
