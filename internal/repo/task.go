package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
	ErrorNoOwner  = errors.New("no owner in scope")
)

const taskColumns = "id, owner_id, content, done, created_at, updated_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

var _ TaskRepository = (*TaskRepo)(nil)

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Content, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts t for the scope's owner. t.OwnerID is ignored.
func (r *TaskRepo) Create(ctx context.Context, s Scope, t model.Task) (model.Task, error) {
	owner, ok := s.Owner()
	if !ok {
		return t, ErrorNoOwner
	}

	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, content, done)
		VALUES ($1, $2, $3)
		RETURNING `+taskColumns,
		owner, t.Content, t.Done,
	))
	if err != nil {
		return t, mapError(err)
	}
	return created, nil
}

func (r *TaskRepo) Get(ctx context.Context, s Scope, id int64) (model.Task, error) {
	cond, args := s.predicate(2)
	t, err := scanTask(r.pool.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND "+cond,
		append([]any{id}, args...)...,
	))
	if err != nil {
		return t, mapError(err)
	}
	return t, nil
}

func (r *TaskRepo) List(ctx context.Context, s Scope) ([]model.Task, error) {
	cond, args := s.predicate(1)
	rows, err := r.pool.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE "+cond+" ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes the supplied fields of p in a single statement; nil fields
// keep their stored value.
func (r *TaskRepo) Update(ctx context.Context, s Scope, id int64, p model.TaskPatch) (model.Task, error) {
	cond, args := s.predicate(4)
	t, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET content = COALESCE($2::text, content),
		    done = COALESCE($3::boolean, done),
		    updated_at = now()
		WHERE id = $1 AND `+cond+`
		RETURNING `+taskColumns,
		append([]any{id, p.Content, p.Done}, args...)...,
	))
	if err != nil {
		return t, mapError(err)
	}
	return t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, s Scope, id int64) error {
	cond, args := s.predicate(2)
	cmd, err := r.pool.Exec(ctx,
		"DELETE FROM tasks WHERE id = $1 AND "+cond,
		append([]any{id}, args...)...,
	)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrorConflict
		case "23503": // owner row is gone
			return ErrorNoOwner
		}
	}
	return err
}
