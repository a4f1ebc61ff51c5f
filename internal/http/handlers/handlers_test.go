package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/lfmartins/stock-manager/internal/auth"
	api "github.com/lfmartins/stock-manager/internal/http"
	handler "github.com/lfmartins/stock-manager/internal/http/handlers"
	mw "github.com/lfmartins/stock-manager/internal/http/middleware"
	rl "github.com/lfmartins/stock-manager/internal/http/rate_limiter"
	"github.com/lfmartins/stock-manager/internal/models"
	"github.com/lfmartins/stock-manager/internal/notify"
	"github.com/lfmartins/stock-manager/internal/repo"
)

const testPassword = "password1"

type fixture struct {
	router        http.Handler
	products      *repo.InMemoryProductRepository
	sales         *repo.InMemorySaleRepository
	notifications *repo.InMemoryNotificationRepository
	users         *repo.InMemoryUserRepository
	user          models.User
	token         string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) *fixture {
	t.Helper()

	rl.CleanupAllVisitors()
	auth.SetSecret("test-secret")
	log.Logger = zerolog.Nop()

	products := repo.NewInMemoryProductRepository()
	sales := repo.NewInMemorySaleRepository(products)
	notifications := repo.NewInMemoryNotificationRepository()
	users := repo.NewInMemoryUserRepository()

	handler.SetProductRepo(products)
	handler.SetSaleRepo(sales)
	handler.SetNotificationRepo(notifications)
	handler.SetUserRepo(users)
	handler.SetCache(nil)
	mw.SetUserRepo(users)
	handler.SetDeriver(notify.NewDeriver(products, notifications, nil, zerolog.Nop()))

	f := &fixture{
		router:        api.NewRouter(),
		products:      products,
		sales:         sales,
		notifications: notifications,
		users:         users,
	}
	f.user, f.token = f.createUser(t, "alice", "alice@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, username, email string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := f.users.CreateUser(models.User{Username: username, Email: email, PasswordHash: string(hash)})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return user, token
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target any) envelope {
	t.Helper()

	env := decodeEnvelope(t, w)
	if env.Data == nil {
		t.Fatalf("response has no data field: %s", w.Body.String())
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		t.Fatalf("decoding response data: %v", err)
	}
	return env
}

// createProduct creates a product through the API and returns it.
func (f *fixture) createProduct(t *testing.T, token string, req handler.ProductRequest) models.Product {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/products", req, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating product, got %d: %s", w.Code, w.Body.String())
	}
	var product models.Product
	decodeData(t, w, &product)
	return product
}

// setQuantity drops a product's current quantity through the update endpoint,
// which also runs the synchronous low-stock check.
func (f *fixture) setQuantity(t *testing.T, token string, productID, quantity int) {
	t.Helper()

	path := fmt.Sprintf("/api/products/%d", productID)
	w := f.do(t, http.MethodPut, path, map[string]int{"current_quantity": quantity}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 updating product, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWelcomeAndHealth(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", w.Code)
	}

	w = f.do(t, http.MethodGet, "/health", nil, "")
	env := decodeEnvelope(t, w)
	if w.Code != http.StatusOK || !env.Success {
		t.Errorf("GET /health status = %d success = %v", w.Code, env.Success)
	}
}
