package repo

import (
	"context"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
// Every method takes the Scope of the caller; rows outside it do not exist.
type TaskRepository interface {
	Create(ctx context.Context, s Scope, t model.Task) (model.Task, error)
	Get(ctx context.Context, s Scope, id int64) (model.Task, error)
	List(ctx context.Context, s Scope) ([]model.Task, error)
	Update(ctx context.Context, s Scope, id int64, p model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, s Scope, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}
