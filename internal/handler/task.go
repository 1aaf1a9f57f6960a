package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/auth"
	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/internal/repo"
	"github.com/BuzzLyutic/tasklist-api/internal/service"
	"github.com/BuzzLyutic/tasklist-api/pkg/respond"
)

// Func handles one task endpoint. The body is either the payload placed
// under "data", nil for 204, or an error for handleErrors.
type Func func(r *http.Request, who model.Identity) (int, any)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

// serve adapts fn to a chi route.
func (h *TaskHandler) serve(fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, body := fn(r, IdentityFrom(r.Context()))
		if err, ok := body.(error); ok {
			h.handleErrors(w, r, err)
			return
		}
		if code == http.StatusNoContent {
			respond.NoContent(w, r)
			return
		}
		respond.Data(w, r, code, body)
	}
}

func (h *TaskHandler) List(r *http.Request, who model.Identity) (int, any) {
	tasks, err := h.service.List(r.Context(), who)
	if err != nil {
		return 0, err
	}
	return http.StatusOK, tasks
}

func (h *TaskHandler) Get(r *http.Request, who model.Identity) (int, any) {
	id, err := parseID(r)
	if err != nil {
		return 0, err
	}

	task, err := h.service.Get(r.Context(), who, id)
	if err != nil {
		return 0, err
	}
	return http.StatusOK, task
}

func (h *TaskHandler) Create(r *http.Request, who model.Identity) (int, any) {
	var patch model.TaskPatch
	patch.Invalid = decodeBody(r, &patch)

	task, err := h.service.Create(r.Context(), who, patch)
	if err != nil {
		return 0, err
	}

	h.logger.Info("task created", zap.Int64("task_id", task.ID), zap.Int64("user_id", who.UserID))
	return http.StatusOK, task
}

func (h *TaskHandler) Update(r *http.Request, who model.Identity) (int, any) {
	id, err := parseID(r)
	if err != nil {
		return 0, err
	}

	var patch model.TaskPatch
	patch.Invalid = decodeBody(r, &patch)

	if _, err := h.service.Update(r.Context(), who, id, patch); err != nil {
		return 0, err
	}
	return http.StatusNoContent, nil
}

func (h *TaskHandler) Delete(r *http.Request, who model.Identity) (int, any) {
	id, err := parseID(r)
	if err != nil {
		return 0, err
	}

	if err := h.service.Delete(r.Context(), who, id); err != nil {
		return 0, err
	}
	return http.StatusNoContent, nil
}

// MarkAs returns the handler for mark/done and mark/undone.
func (h *TaskHandler) MarkAs(done bool) Func {
	return func(r *http.Request, who model.Identity) (int, any) {
		id, err := parseID(r)
		if err != nil {
			return 0, err
		}

		if err := h.service.SetDone(r.Context(), who, id, done); err != nil {
			return 0, err
		}
		return http.StatusNoContent, nil
	}
}

// parseID reads the {id} route parameter. Ids that cannot exist are reported
// as missing tasks.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, repo.ErrorNotFound
	}
	return id, nil
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.As(err, &verr):
		respond.Errors(w, r, verr.Fields)
	case errors.Is(err, repo.ErrorNoOwner), auth.IsUnauthorized(err):
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
	default:
		h.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
