package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type signupRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	UserName   string `json:"username"`
	Password   string `json:"password"`
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message      string   `json:"message"`
	Token        string   `json:"token"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         userView `json:"user"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	_, err := s.deps.Auth.Signup(r.Context(), services.SignupInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		UserName:   req.UserName,
		Password:   req.Password,
	})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", req.UserName)
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully"})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	res, err := s.deps.Auth.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:      "Login successful",
		Token:        res.Tokens.AccessToken,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         newUserView(&res.User),
	})
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	pair, err := s.deps.Auth.Refresh(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeJSONError(w, http.StatusUnauthorized, msgRefreshInvalid)
			return
		}
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if err := s.deps.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
