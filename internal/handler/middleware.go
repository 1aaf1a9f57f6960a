package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist-api/internal/auth"
	"github.com/BuzzLyutic/tasklist-api/internal/model"
	"github.com/BuzzLyutic/tasklist-api/pkg/respond"
)

type ctxKey int

const claimsKey ctxKey = iota

// Authenticate rejects requests without a valid bearer token and stores the
// token claims in the request context.
func Authenticate(authn *auth.Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if auth.IsUnauthorized(err) {
					w.Header().Set("WWW-Authenticate", "Bearer")
					respond.Error(w, r, http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
					return
				}
				logger.Error("authentication failed", zap.Error(err),
					zap.String("request_id", middleware.GetReqID(r.Context())))
				respond.Error(w, r, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFrom(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

// IdentityFrom returns the anonymous identity when the request was not
// authenticated.
func IdentityFrom(ctx context.Context) model.Identity {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return model.Identity{}
	}
	return claims.Identity()
}

// RequestLogger пишет одну запись на каждый запрос
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
