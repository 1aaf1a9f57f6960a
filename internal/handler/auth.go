package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/service"
	"github.com/BuzzLyutic/tasklist-api/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

// ObtainToken exchanges username and password for a bearer token. Both JSON
// and form encoded bodies are accepted.
func (h *AuthHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if hasJSONBody(r) {
		creds.Invalid = decodeBody(r, &creds)
	} else if err := r.ParseForm(); err == nil {
		creds.Username = r.PostForm.Get("username")
		creds.Password = r.PostForm.Get("password")
	}

	token, err := h.service.ObtainToken(r.Context(), creds)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// RevokeToken invalidates the token the request was authenticated with.
func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.RevokeToken(r.Context(), claims); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.logger.Info("token revoked", zap.Int64("user_id", claims.UserID))
	respond.NoContent(w, r)
}

func (h *AuthHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respond.Errors(w, r, verr.Fields)
		return
	}
	h.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
	respond.Error(w, r, http.StatusInternalServerError, "internal error")
}
