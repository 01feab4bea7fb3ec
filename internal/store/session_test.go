package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"shopfront/internal/models"
)

func authHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error("Failed to decode login body:", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if body.Email == "user@example.com" && body.Password == "user123" {
			writeJSON(t, w, http.StatusOK, models.AuthResponse{
				AccessToken: "t1",
				User:        models.User{ID: 2, Email: "user@example.com", Role: models.RoleUser},
			})
			return
		}

		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		if body.Email == "taken@example.com" {
			writeJSON(t, w, http.StatusConflict, map[string]string{"message": "Email already registered"})
			return
		}

		writeJSON(t, w, http.StatusCreated, models.AuthResponse{
			AccessToken: "t2",
			User:        models.User{ID: 3, Email: body.Email, Role: models.RoleUser},
		})
	})
	return mux
}

func TestAuthenticateAndSignOut(t *testing.T) {
	client, _ := newTestClient(t, authHandler(t))
	local := newTestLocal(t)
	session := NewSession(client, local)

	user, err := session.Authenticate(context.Background(), "user@example.com", "user123")
	if err != nil {
		t.Fatal("Failed to authenticate:", err)
	}

	if user.ID != 2 || user.Email != "user@example.com" || user.Role != models.RoleUser {
		t.Errorf("Unexpected user after login: %+v", user)
	}
	if session.Token() != "t1" {
		t.Errorf("Expected credential 't1', got %q", session.Token())
	}
	if client.Token() != "t1" {
		t.Errorf("Expected client credential 't1', got %q", client.Token())
	}

	session.SignOut()

	if session.CurrentUser() != nil {
		t.Error("User should be absent after sign out")
	}
	if session.Token() != "" {
		t.Error("Credential should be absent after sign out")
	}
	if client.Token() != "" {
		t.Error("Client credential should be cleared after sign out")
	}

	// A restart must restore no session.
	restored := NewSession(client, local)
	if restored.Restore() {
		t.Error("Expected no session to restore after sign out")
	}
}

func TestAuthenticateFailureLeavesStateUntouched(t *testing.T) {
	client, _ := newTestClient(t, authHandler(t))
	local := newTestLocal(t)
	session := NewSession(client, local)

	if _, err := session.Authenticate(context.Background(), "user@example.com", "user123"); err != nil {
		t.Fatal("Failed to authenticate:", err)
	}

	_, err := session.Authenticate(context.Background(), "user@example.com", "wrong")
	if err == nil {
		t.Fatal("Expected authentication to fail with wrong password")
	}

	if session.Error() != "Invalid credentials" {
		t.Errorf("Expected server error message, got %q", session.Error())
	}
	if user := session.CurrentUser(); user == nil || user.ID != 2 {
		t.Error("Prior session state should be untouched after a failed login")
	}
	if session.Token() != "t1" {
		t.Error("Prior credential should be untouched after a failed login")
	}
}

func TestAuthenticateFallbackMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, handler)
	session := NewSession(client, newTestLocal(t))

	if _, err := session.Authenticate(context.Background(), "user@example.com", "user123"); err == nil {
		t.Fatal("Expected authentication to fail")
	}

	if session.Error() != "Login failed" {
		t.Errorf("Expected generic fallback message, got %q", session.Error())
	}
}

func TestRegisterAutoAuthenticates(t *testing.T) {
	client, _ := newTestClient(t, authHandler(t))
	local := newTestLocal(t)
	session := NewSession(client, local)

	user, err := session.Register(context.Background(), "new@example.com", "password1")
	if err != nil {
		t.Fatal("Failed to register:", err)
	}

	if user.Email != "new@example.com" {
		t.Errorf("Expected registered user, got %+v", user)
	}
	if session.Token() != "t2" {
		t.Error("Registration should authenticate immediately")
	}

	_, err = session.Register(context.Background(), "taken@example.com", "password1")
	if err == nil {
		t.Fatal("Expected duplicate registration to fail")
	}
	if session.Error() != "Email already registered" {
		t.Errorf("Expected server error message, got %q", session.Error())
	}
}

func TestRestorePersistedSession(t *testing.T) {
	client, _ := newTestClient(t, authHandler(t))
	local := newTestLocal(t)

	session := NewSession(client, local)
	if _, err := session.Authenticate(context.Background(), "user@example.com", "user123"); err != nil {
		t.Fatal("Failed to authenticate:", err)
	}

	// Simulate a process restart: a fresh session over the same local store.
	client.SetToken("")
	restored := NewSession(client, local)
	if !restored.Restore() {
		t.Fatal("Expected persisted session to restore")
	}

	if user := restored.CurrentUser(); user == nil || user.ID != 2 {
		t.Errorf("Unexpected restored user: %+v", restored.CurrentUser())
	}
	if restored.Token() != "t1" {
		t.Errorf("Expected restored credential 't1', got %q", restored.Token())
	}
	if client.Token() != "t1" {
		t.Error("Restore should install the credential into the client")
	}
}

func TestClearError(t *testing.T) {
	client, _ := newTestClient(t, authHandler(t))
	session := NewSession(client, newTestLocal(t))

	session.Authenticate(context.Background(), "user@example.com", "wrong")
	if session.Error() == "" {
		t.Fatal("Expected an error to be recorded")
	}

	session.ClearError()
	if session.Error() != "" {
		t.Error("Expected error to be cleared")
	}
}
