package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/internal/repo"
)

type createInput struct {
	Content string `json:"content" validate:"required"`
	Done    bool   `json:"done"`
}

type updateInput struct {
	Content *string `json:"content" validate:"omitnil,min=1"`
	Done    *bool   `json:"done"`
}

type TaskService struct {
	repo     repo.TaskRepository
	validate *validator.Validate
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo, validate: newValidator()}
}

func (s *TaskService) List(ctx context.Context, who model.Identity) ([]model.Task, error) {
	return s.repo.List(ctx, repo.ScopeOf(who))
}

func (s *TaskService) Get(ctx context.Context, who model.Identity, id int64) (model.Task, error) {
	return s.repo.Get(ctx, repo.ScopeOf(who), id)
}

// Create stores a new task owned by who. Content is required, done
// defaults to false.
func (s *TaskService) Create(ctx context.Context, who model.Identity, p model.TaskPatch) (model.Task, error) {
	in := createInput{}
	if p.Content != nil {
		in.Content = strings.TrimSpace(*p.Content)
	}
	if p.Done != nil {
		in.Done = *p.Done
	}
	if err := check(s.validate, in, p.Invalid); err != nil { // Валидация перед записью в БД
		return model.Task{}, err
	}

	return s.repo.Create(ctx, repo.ScopeOf(who), model.Task{
		OwnerID: who.UserID,
		Content: in.Content,
		Done:    in.Done,
	})
}

// Update changes only the supplied fields of an owned task.
func (s *TaskService) Update(ctx context.Context, who model.Identity, id int64, p model.TaskPatch) (model.Task, error) {
	in := updateInput{Content: p.Content, Done: p.Done}
	if in.Content != nil {
		trimmed := strings.TrimSpace(*in.Content)
		in.Content = &trimmed
	}
	if err := check(s.validate, in, p.Invalid); err != nil {
		return model.Task{}, err
	}

	return s.repo.Update(ctx, repo.ScopeOf(who), id, model.TaskPatch{Content: in.Content, Done: in.Done})
}

// SetDone toggles the done flag. Repeating the same call is harmless.
func (s *TaskService) SetDone(ctx context.Context, who model.Identity, id int64, done bool) error {
	_, err := s.repo.Update(ctx, repo.ScopeOf(who), id, model.TaskPatch{Done: &done})
	return err
}

func (s *TaskService) Delete(ctx context.Context, who model.Identity, id int64) error {
	return s.repo.Delete(ctx, repo.ScopeOf(who), id)
}
