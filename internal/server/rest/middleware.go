package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

type identityContextKey struct{}

type requestIDContextKey struct{}

// IdentityFromContext returns the caller attached by the access guard.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*models.Identity)
	return id, ok
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

func bearerToken(value string) (string, bool) {
	if len(value) < len(common.BearerPrefix) || !strings.EqualFold(value[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(value[len(common.BearerPrefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

// guard admits requests carrying a valid, unrevoked access token and makes
// the caller's identity available through IdentityFromContext.
func (s *HTTPServer) guard(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, msgTokenRequired)
			return
		}

		identity, err := s.deps.Auth.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err, "")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLog assigns a request id, recovers panics, and logs one line per
// request. Headers and bodies are never logged.
func (s *HTTPServer) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(common.RequestIDHeaderName)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, requestID)

		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		r = r.WithContext(ctx)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(ctx, "panic while serving request", "panic", p, "request_id", requestID)
				writeJSONError(rec, http.StatusInternalServerError, msgInternal)
			}
			s.logger.Info(ctx, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestID,
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
