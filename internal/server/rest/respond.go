package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

const (
	msgTokenRequired     = "Authorization token required"
	msgTokenInvalid      = "Invalid or expired token"
	msgRefreshInvalid    = "Invalid refresh token"
	msgRefreshExpired    = "Refresh token expired"
	msgDuplicateUsername = "Username already exists"
	msgInvalidPassword   = "Invalid password"
	msgInvalidJSON       = "Invalid JSON body"
	msgNotFound          = "Not found"
	msgExportUnavailable = "Export storage is not configured"
	msgInternal          = "Internal server error"

	maxBodyBytes = 1 << 20
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userView struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	UserName   string  `json:"username"`
}

func newUserView(p *models.Profile) userView {
	v := userView{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, UserName: p.UserName}
	if p.MiddleName != "" {
		middle := p.MiddleName
		v.MiddleName = &middle
	}
	return v
}

type todoView struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Task      string `json:"task"`
	Completed int    `json:"completed"`
}

func newTodoView(t *models.Todo) todoView {
	v := todoView{ID: t.ID, UserID: t.UserID, Task: t.Task}
	if t.Completed {
		v.Completed = 1
	}
	return v
}

type statsView struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type exportView struct {
	Message   string    `json:"message"`
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type exportRecordView struct {
	Key       string    `json:"key"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeError maps the error taxonomy onto status codes. notFound overrides
// the 404 message. Internal errors are logged with the request id and
// reported generically.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSONError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrDuplicateUsername):
		writeJSONError(w, http.StatusBadRequest, msgDuplicateUsername)
	case errors.Is(err, common.ErrorNotFound):
		if notFound == "" {
			notFound = msgNotFound
		}
		writeJSONError(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, msgInvalidPassword)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSONError(w, http.StatusUnauthorized, msgRefreshExpired)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenMalformed),
		errors.Is(err, common.ErrTokenBadSignature):
		writeJSONError(w, http.StatusUnauthorized, msgTokenInvalid)
	case errors.Is(err, common.ErrExportUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, msgExportUnavailable)
	default:
		s.logger.Error(r.Context(), "request failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
	}
}
