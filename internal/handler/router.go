package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/auth"
	"github.com/BuzzLyutic/tasklist-api/internal/service"
	"github.com/BuzzLyutic/tasklist-api/pkg/respond"
)

type Deps struct {
	Tasks  *service.TaskService
	Auth   *service.AuthService
	Authn  *auth.Authenticator
	DB     Pinger
	Logger *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	tasks := NewTaskHandler(d.Tasks, d.Logger)
	tokens := NewAuthHandler(d.Auth, d.Logger)
	authenticate := Authenticate(d.Authn, d.Logger)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	// До Route, чтобы подроутеры унаследовали обработчики
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", Health(d.DB, d.Logger))

	r.Post("/get-token", tokens.ObtainToken)
	r.With(authenticate).Post("/revoke-token", tokens.RevokeToken)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", tasks.serve(tasks.List))
		r.Put("/create", tasks.serve(tasks.Create))
		r.Post("/create", tasks.serve(tasks.Create))
		r.Get("/create", methodNotAllowed) // иначе GET уйдет в /{id}
		r.Get("/{id}", tasks.serve(tasks.Get))
		r.Put("/{id}/update", tasks.serve(tasks.Update))
		r.Post("/{id}/update", tasks.serve(tasks.Update))
		r.Delete("/{id}/delete", tasks.serve(tasks.Delete))
		r.Put("/{id}/mark/done", tasks.serve(tasks.MarkAs(true)))
		r.Put("/{id}/mark/undone", tasks.serve(tasks.MarkAs(false)))
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
