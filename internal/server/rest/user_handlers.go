package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

const msgUserNotFound = "User not found"

type updateProfileRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type profileResponse struct {
	Message string   `json:"message,omitempty"`
	User    userView `json:"user"`
}

type dashboardResponse struct {
	Message string    `json:"message"`
	User    userView  `json:"user"`
	Stats   statsView `json:"stats"`
}

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	p, err := s.deps.Profile.Profile(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: newUserView(p)})
}

func (s *HTTPServer) dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	p, stats, err := s.deps.Profile.Dashboard(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Message: fmt.Sprintf("Welcome, %s!", p.FirstName),
		User:    newUserView(p),
		Stats:   statsView{Total: stats.Total, Completed: stats.Completed, Pending: stats.Pending()},
	})
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	p, err := s.deps.Profile.UpdateProfile(r.Context(), identity.ID, req.FirstName, req.MiddleName, req.LastName)
	if err != nil {
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Message: "Profile updated successfully", User: newUserView(p)})
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	err := s.deps.Profile.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, "Old password is incorrect")
			return
		}
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	s.logger.Info(r.Context(), "Password changed", "user_id", identity.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password changed successfully. Please log in again."})
}

func (s *HTTPServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	if err := s.deps.Profile.DeleteAccount(r.Context(), identity.ID); err != nil {
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	s.logger.Info(r.Context(), "Account deleted", "user_id", identity.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

func (s *HTTPServer) export(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	link, err := s.deps.Export.Export(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err, msgUserNotFound)
		return
	}

	writeJSON(w, http.StatusOK, exportView{Message: "Export ready", URL: link.URL, Key: link.Key, ExpiresAt: link.ExpiresAt})
}

func (s *HTTPServer) exportHistory(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	records, err := s.deps.Export.History(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	views := make([]exportRecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, exportRecordView{Key: rec.StorageKey, SizeBytes: rec.SizeBytes, CreatedAt: rec.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": views})
}
