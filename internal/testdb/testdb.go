// Package testdb starts a PostgreSQL database for integration tests and
// applies the service schema to it.
package testdb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/tasklist-api/internal/migrations"
	"github.com/BuzzLyutic/tasklist-api/internal/model"
)

// SetupTestDB returns a migrated pool. TEST_DATABASE_URL is used when set,
// otherwise a postgres container is started. The test is skipped when
// neither is available or when running with -short.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	ctx := context.Background()

	connStr := os.Getenv("TEST_DATABASE_URL")
	terminate := func() {}

	if connStr == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		terminate = func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Errorf("Failed to terminate container: %v", err)
			}
		}

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			terminate()
			t.Fatalf("Failed to get connection string: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		terminate()
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		terminate()
		t.Fatalf("Failed to ping database: %v", err)
	}
	if err := migrations.Up(ctx, pool, zap.NewNop()); err != nil {
		pool.Close()
		terminate()
		t.Fatalf("Failed to migrate database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		terminate()
	}
	return pool, cleanup
}

// TruncateTables очищает все таблицы
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE tasks, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// Password is the plaintext password of every seeded user.
const Password = "123456"

// SeedUser creates an active user with Password.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := model.User{Username: username, PasswordHash: string(hash), IsActive: true}
	err = pool.QueryRow(context.Background(), `
		INSERT INTO users (username, password_hash, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at
	`, username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return u
}

// SeedTasks creates count tasks for owner and returns their ids.
func SeedTasks(t *testing.T, pool *pgxpool.Pool, owner int64, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err := pool.QueryRow(context.Background(), `
			INSERT INTO tasks (owner_id, content, done)
			VALUES ($1, $2, $3)
			RETURNING id
		`, owner, fmt.Sprintf("task %d for user %d", i+1, owner), i%2 == 1).Scan(&id)
		if err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

// CountTasks returns the number of tasks of all owners.
func CountTasks(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		t.Fatalf("Failed to count tasks: %v", err)
	}
	return n
}
