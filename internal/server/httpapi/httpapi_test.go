package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"testing"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/server/accounts"
	"github.com/ktkar/maintron/internal/server/config"
	"github.com/ktkar/maintron/internal/server/payments"
	"github.com/ktkar/maintron/internal/shared"
)

// memRepo is an in-memory account repository honoring the same error
// contract as the postgres implementation, including the uniqueness
// guarantee at the storage level.
type memRepo struct {
	mu     sync.Mutex
	byID   map[string]*accounts.Account
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*accounts.Account)}
}

func (m *memRepo) Create(ctx context.Context, acc *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byID {
		if existing.Phone == acc.Phone {
			return nil, shared.ErrPhoneTaken
		}
	}

	m.nextID++
	acc.ID = "acc-" + strconv.Itoa(m.nextID)
	cp := *acc
	m.byID[acc.ID] = &cp
	return acc, nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *memRepo) GetByPhone(ctx context.Context, phone string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.byID {
		if acc.Phone == phone {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) Update(ctx context.Context, acc *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[acc.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for id, other := range m.byID {
		if id != acc.ID && other.Phone == acc.Phone {
			return nil, shared.ErrPhoneTaken
		}
	}

	acc.PasswordHash = existing.PasswordHash
	acc.CreatedAt = existing.CreatedAt
	cp := *acc
	m.byID[acc.ID] = &cp
	return acc, nil
}

func (m *memRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	acc.PasswordHash = hash
	return nil
}

func (m *memRepo) PhoneInUse(ctx context.Context, phone, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, acc := range m.byID {
		if acc.Phone == phone && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type alwaysHealthy struct{}

func (alwaysHealthy) Guard(ctx context.Context) error { return nil }

type neverHealthy struct{}

func (neverHealthy) Guard(ctx context.Context) error { return shared.ErrUnavailable }

type testEnv struct {
	router  http.Handler
	repo    *memRepo
	cfg     *config.Config
	gateway *httptest.Server
}

func newTestEnv(t *testing.T, health accounts.HealthChecker, gatewayHandler http.HandlerFunc) *testEnv {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var gateway *httptest.Server
	if gatewayHandler != nil {
		gateway = httptest.NewServer(gatewayHandler)
		t.Cleanup(gateway.Close)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.RazorpayKeyID = "key-id"
	cfg.RazorpayKeySecret = "key-secret"
	if gateway != nil {
		cfg.RazorpayBaseURL = gateway.URL
	}

	repo := newMemRepo()
	accountSvc := accounts.NewService(repo, health, logger)
	paymentClient := payments.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL, logger)

	return &testEnv{
		router:  NewRouter(accountSvc, paymentClient, cfg, logger),
		repo:    repo,
		cfg:     cfg,
		gateway: gateway,
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

const registerBody = `{"name":"Asha Rao","building":"a","floor":"3","flat":"101","phone":"9999999999","password":"hunter22"}`

func registerAndLogin(t *testing.T, env *testEnv) (accountID, token string) {
	t.Helper()

	rec, body := doJSON(t, env.router, http.MethodPost, "/api/register", registerBody, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %v", rec.Code, body)
	}
	accountID = body["userId"].(string)

	rec, body = doJSON(t, env.router, http.MethodPost, "/api/login", `{"phone":"9999999999","password":"hunter22"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %v", rec.Code, body)
	}
	token = body["token"].(string)
	return accountID, token
}
