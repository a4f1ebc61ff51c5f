package handlers_test

import (
	"net/http"
	"testing"

	handler "github.com/lfmartins/stock-manager/internal/http/handlers"
	"github.com/lfmartins/stock-manager/internal/models"
)

func TestRegister(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/auth/register", handler.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter22",
	}, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var result handler.AuthResult
	env := decodeData(t, w, &result)
	if !env.Success {
		t.Error("expected success = true")
	}
	if result.Token == "" {
		t.Error("expected a token in the response")
	}
	if result.User.Username != "bob" {
		t.Errorf("user.Username = %q, want %q", result.User.Username, "bob")
	}
	if result.User.PasswordHash != "" {
		t.Error("password hash must not be serialized")
	}

	// New token must work against an authenticated endpoint.
	w = f.do(t, http.MethodGet, "/api/auth/profile", nil, result.Token)
	if w.Code != http.StatusOK {
		t.Errorf("profile with fresh token: status = %d, want 200", w.Code)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/auth/register", handler.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "hunter22",
	}, "")

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("expected success = false")
	}
	if env.Message != "Username or email already exists" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestRegister_Validation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		req  handler.RegisterRequest
	}{
		{"short username", handler.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "hunter22"}},
		{"bad email", handler.RegisterRequest{Username: "carol", Email: "not-an-email", Password: "hunter22"}},
		{"short password", handler.RegisterRequest{Username: "carol", Email: "c@d.com", Password: "abc"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/auth/register", tc.req, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
			env := decodeEnvelope(t, w)
			if env.Success || env.Message != "Validation failed" {
				t.Errorf("envelope = success %v message %q", env.Success, env.Message)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/auth/login", handler.LoginRequest{
		Username: "alice",
		Password: testPassword,
	}, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var result handler.AuthResult
	env := decodeData(t, w, &result)
	if env.Message != "Login successful" {
		t.Errorf("message = %q", env.Message)
	}
	if result.Token == "" {
		t.Error("expected a token in the response")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := setup(t)

	for _, req := range []handler.LoginRequest{
		{Username: "alice", Password: "wrong-password"},
		{Username: "nobody", Password: testPassword},
	} {
		w := f.do(t, http.MethodPost, "/api/auth/login", req, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login %q: status = %d, want 401", req.Username, w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Message != "Invalid credentials" {
			t.Errorf("login %q: message = %q", req.Username, env.Message)
		}
	}
}

func TestProfile(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/auth/profile", nil, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var user models.User
	decodeData(t, w, &user)
	if user.ID != f.user.ID || user.Username != "alice" {
		t.Errorf("profile = %+v, want user %d alice", user, f.user.ID)
	}
}

func TestAuthRequired(t *testing.T) {
	f := setup(t)

	paths := []string{"/api/auth/profile", "/api/products", "/api/sales", "/api/notifications"}
	for _, path := range paths {
		w := f.do(t, http.MethodGet, path, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, w.Code)
		}
	}

	w := f.do(t, http.MethodGet, "/api/auth/profile", nil, "not.a.token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	f := setup(t)

	limited := 0
	for i := 0; i < 10; i++ {
		w := f.do(t, http.MethodPost, "/api/auth/login", handler.LoginRequest{
			Username: "alice",
			Password: testPassword,
		}, "")
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Error("expected at least one 429 from 10 rapid requests")
	}
}
