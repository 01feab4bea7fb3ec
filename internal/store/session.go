package store

import (
	"context"
	"sync"

	"shopfront/internal/api"
	"shopfront/internal/localstore"
	"shopfront/internal/logger"
	"shopfront/internal/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session holds the authenticated identity and bearer credential. The two
// are set together and cleared together; there is no state where one exists
// without the other.
type Session struct {
	mu      sync.RWMutex
	client  *api.Client
	local   *localstore.Store
	user    *models.User
	token   string
	lastErr string
}

func NewSession(client *api.Client, local *localstore.Store) *Session {
	return &Session{client: client, local: local}
}

// Restore adopts a previously persisted session, if one exists, so a process
// restart resumes without re-authenticating. Called once at startup.
func (s *Session) Restore() bool {
	token, user, err := s.local.LoadSession()
	if err != nil {
		logger.Warn("Failed to read persisted session", "error", err)
		return false
	}
	if token == "" || user == nil {
		return false
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)

	logger.Info("Session restored", "email", user.Email, "user_id", user.ID)
	return true
}

// Authenticate exchanges credentials for a session. On failure the prior
// session state is left untouched and the server's message is recorded,
// falling back to a generic one when the server provides none.
func (s *Session) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.resetError()

	var resp models.AuthResponse
	err := s.client.Post(ctx, "/auth/login", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		s.setError(api.Message(err, "Login failed"))
		return nil, err
	}

	s.adopt(&resp)
	logger.Info("User authenticated", "email", resp.User.Email, "user_id", resp.User.ID)
	return s.CurrentUser(), nil
}

// Register creates an account and auto-authenticates; the server returns a
// usable credential immediately, there is no confirmation step.
func (s *Session) Register(ctx context.Context, email, password string) (*models.User, error) {
	s.resetError()

	var resp models.AuthResponse
	err := s.client.Post(ctx, "/auth/register", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		s.setError(api.Message(err, "Registration failed"))
		return nil, err
	}

	s.adopt(&resp)
	logger.Info("User registered", "email", resp.User.Email, "user_id", resp.User.ID)
	return s.CurrentUser(), nil
}

// SignOut clears the session and its persisted copies. No server round trip;
// it always succeeds from the caller's perspective.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.lastErr = ""
	s.mu.Unlock()

	s.client.SetToken("")
	if err := s.local.ClearSession(); err != nil {
		logger.Warn("Failed to erase persisted session", "error", err)
	}
}

func (s *Session) adopt(resp *models.AuthResponse) {
	user := resp.User

	s.mu.Lock()
	s.user = &user
	s.token = resp.AccessToken
	s.mu.Unlock()

	s.client.SetToken(resp.AccessToken)
	if err := s.local.SaveSession(resp.AccessToken, &user); err != nil {
		logger.Warn("Failed to persist session", "error", err)
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Error returns the last recorded failure message, if any.
func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError drops the last error message so it does not leak into another
// view, e.g. when switching between the login and register forms.
func (s *Session) ClearError() {
	s.resetError()
}

func (s *Session) resetError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
