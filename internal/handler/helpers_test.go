package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goldmart-backend/internal/auth"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/event"
	"goldmart-backend/internal/metrics"
	"goldmart-backend/internal/repository"
	"goldmart-backend/internal/service"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Replace(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRateRepo struct {
	mock.Mock
}

func (m *mockRateRepo) List(ctx context.Context) ([]domain.Rate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *mockRateRepo) Create(ctx context.Context, rate *domain.Rate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *mockRateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Rate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *mockRateRepo) Replace(ctx context.Context, rate *domain.Rate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *mockRateRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

type testEnv struct {
	products *mockProductRepo
	rates    *mockRateRepo
	health   *HealthHandler
	verifier *auth.Verifier
	router   http.Handler
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		products: new(mockProductRepo),
		rates:    new(mockRateRepo),
		health:   NewHealthHandler(),
		verifier: auth.NewVerifier(testSecret),
	}
	env.router = NewRouter(RouterConfig{
		Products:       service.NewProductService(env.products, event.Nop{}, logger),
		Rates:          service.NewRateService(env.rates, event.Nop{}, logger),
		Verifier:       env.verifier,
		Health:         env.health,
		Metrics:        metrics.New(),
		Logger:         logger,
		AllowedOrigins: []string{"*"},
	})
	return env
}

func (e *testEnv) token(t *testing.T, caller domain.Caller) string {
	t.Helper()
	tok, err := e.verifier.Issue(caller, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func newUser(name string) domain.Caller {
	return domain.Caller{ID: primitive.NewObjectID(), Name: name}
}

func newAdmin() domain.Caller {
	return domain.Caller{ID: primitive.NewObjectID(), Name: "Admin", IsAdmin: true}
}

func storedProduct(name string) *domain.Product {
	p := domain.NewProduct(primitive.NewObjectID(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p.Name = name
	return p
}
