package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/netx"
)

type APIClient struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

func NewAPIClient(baseURL string, timeout time.Duration, sessions SessionStore) *APIClient {
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// call sends one request. in is encoded as JSON when non-nil, out is decoded
// from a 2xx body when non-nil.
func (c *APIClient) call(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorized performs a protected call, refreshing the session once on 401.
func (c *APIClient) authorized(ctx context.Context, method, path string, in, out any) error {
	s, err := c.sessions.Load()
	if err != nil {
		return err
	}

	err = c.call(ctx, method, path, s.AccessToken, in, out)
	if !errors.Is(err, ErrUnauthorized) || s.RefreshToken == "" {
		return err
	}

	if rerr := c.refresh(ctx, s); rerr != nil {
		if errors.Is(rerr, ErrUnauthorized) {
			_ = c.sessions.Clear()
		}
		return err
	}

	return c.call(ctx, method, path, s.AccessToken, in, out)
}

func (c *APIClient) refresh(ctx context.Context, s *models.Session) error {
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/auth/refresh", "", map[string]string{"token": s.RefreshToken}, &pair); err != nil {
		return err
	}

	s.AccessToken = pair.AccessToken
	s.RefreshToken = pair.RefreshToken
	return c.sessions.Save(s)
}

func (c *APIClient) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.call(ctx, http.MethodPost, "/api/auth/signup", "", req, nil)
}

// Login authenticates and stores the new session.
func (c *APIClient) Login(ctx context.Context, userName, password string) (*models.Profile, error) {
	var resp struct {
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
		User         models.Profile `json:"user"`
	}
	in := map[string]string{"username": userName, "password": password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", "", in, &resp); err != nil {
		return nil, err
	}

	s := &models.Session{UserName: resp.User.UserName, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := c.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &resp.User, nil
}

// Logout revokes the refresh token on the server when possible and always
// forgets the local session.
func (c *APIClient) Logout(ctx context.Context) error {
	s, err := c.sessions.Load()
	if err != nil {
		return err
	}

	var callErr error
	if s.RefreshToken != "" {
		callErr = c.call(ctx, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": s.RefreshToken}, nil)
	}

	if err := c.sessions.Clear(); err != nil {
		return err
	}
	return callErr
}

func (c *APIClient) Todos(ctx context.Context) ([]models.Todo, error) {
	var resp struct {
		Todos []models.Todo `json:"todos"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/todos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Todos, nil
}

func (c *APIClient) AddTodo(ctx context.Context, task string, completed bool) (int64, error) {
	in := map[string]any{"task": task, "completed": flag(completed)}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.authorized(ctx, http.MethodPost, "/api/todos", in, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *APIClient) SetCompleted(ctx context.Context, id int64, completed bool) (*models.Todo, error) {
	var resp struct {
		Updated models.Todo `json:"updated"`
	}
	in := map[string]any{"completed": flag(completed)}
	if err := c.authorized(ctx, http.MethodPatch, fmt.Sprintf("/api/todos/%d", id), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Updated, nil
}

func (c *APIClient) DeleteTodo(ctx context.Context, id int64) error {
	return c.authorized(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

func (c *APIClient) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := c.authorized(ctx, http.MethodGet, "/api/user/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *APIClient) Export(ctx context.Context) (*models.ExportLink, error) {
	var link models.ExportLink
	if err := c.authorized(ctx, http.MethodPost, "/api/user/export", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Download fetches a presigned export URL into w.
func (c *APIClient) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	n, err := netx.DownloadFromPresignedURL(ctx, c.http, url, w)
	if err != nil {
		return n, fmt.Errorf("download export: %w", err)
	}
	return n, nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
