package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"goldmart-backend/internal/apperrors"
	"goldmart-backend/internal/domain"
	"goldmart-backend/internal/repository"
)

func TestListProducts_Envelope(t *testing.T) {
	env := newTestEnv()
	env.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Keyword != nil && *f.Keyword == "ring"
	})).Return([]domain.Product{*storedProduct("Gold Ring")}, nil)

	rr := env.do(t, http.MethodGet, "/api/products?keyword=ring", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string][]map[string]any](t, rr)
	require.Len(t, body["products"], 1)
	assert.Equal(t, "Gold Ring", body["products"][0]["name"])
}

func TestListProducts_EmptyIsArray(t *testing.T) {
	env := newTestEnv()
	env.products.On("List", mock.Anything, repository.ProductFilter{}).Return([]domain.Product{}, nil)

	rr := env.do(t, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"products":[]}`, rr.Body.String())
}

func TestListProducts_StoreFailureHidesDetails(t *testing.T) {
	env := newTestEnv()
	env.products.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("socket closed"))

	rr := env.do(t, http.MethodGet, "/api/products", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decode[ErrorResponse](t, rr)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, rr.Body.String(), "socket closed")
}

func TestQueryRoutes_PassParameters(t *testing.T) {
	env := newTestEnv()
	cat := primitive.NewObjectID()

	env.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Color != nil && *f.Color == "rose"
	})).Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Brand != nil && *f.Brand == "acme"
	})).Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.MaxPrice != nil && *f.MaxPrice == 2500
	})).Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, repository.ProductFilter{SortBy: repository.SortByName, SortDir: -1}).
		Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, repository.ProductFilter{SortBy: repository.SortByCreatedAt, SortDir: 1}).
		Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, repository.ProductFilter{Limit: 3}).
		Return([]domain.Product{}, nil).Once()
	env.products.On("List", mock.Anything, repository.ProductFilter{CategoryID: &cat}).
		Return([]domain.Product{}, nil).Once()

	for _, path := range []string{
		"/api/products/colored?color=rose",
		"/api/products/branded?brand=acme",
		"/api/products/priced?price=2500",
		"/api/products/sorted?alpha=desc",
		"/api/products/filter?asc=asc",
		"/api/products/featured",
		"/api/products/category/" + cat.Hex(),
	} {
		rr := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{"products":[]}`, rr.Body.String(), path)
	}
	env.products.AssertExpectations(t)
}

func TestQueryRoutes_BadParameters(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{
		"/api/products/priced?price=cheap",
		"/api/products/sorted?alpha=sideways",
		"/api/products/category/rings",
		"/api/products/top?limit=0",
	} {
		rr := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
	env.products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListTop_BareArray(t *testing.T) {
	env := newTestEnv()
	a, b := storedProduct("A"), storedProduct("B")
	a.Rating, b.Rating = 5, 4
	env.products.On("List", mock.Anything, repository.ProductFilter{
		SortBy: repository.SortByRating, SortDir: -1, Limit: 3,
	}).Return([]domain.Product{*a, *b}, nil)

	rr := env.do(t, http.MethodGet, "/api/products/top", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[[]map[string]any](t, rr)
	require.Len(t, body, 2)
	assert.Equal(t, "A", body[0]["name"])
	assert.Equal(t, float64(5), body[0]["rating"])
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv()
	p := storedProduct("Bangle")
	env.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	rr := env.do(t, http.MethodGet, "/api/products/"+p.ID.Hex(), "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, p.ID.Hex(), body["_id"])
	assert.Equal(t, "Bangle", body["name"])
	assert.Equal(t, []any{}, body["reviews"])
	assert.Equal(t, float64(0), body["numReviews"])
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()
	id := primitive.NewObjectID()
	env.products.On("GetByID", mock.Anything, id).Return(nil, apperrors.NotFound("product"))

	for _, path := range []string{"/api/products/" + id.Hex(), "/api/products/not-an-id"} {
		rr := env.do(t, http.MethodGet, path, "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		body := decode[ErrorResponse](t, rr)
		assert.Equal(t, "NOT_FOUND", body.Code)
		assert.Equal(t, "product not found", body.Message)
		assert.NotEmpty(t, body.RequestID)
	}
}

func TestListWishlisted_RequiresAuth(t *testing.T) {
	env := newTestEnv()
	user := newUser("Asha")
	env.products.On("List", mock.Anything, repository.ProductFilter{WishlistedBy: &user.ID}).
		Return([]domain.Product{*storedProduct("Chain")}, nil)

	rr := env.do(t, http.MethodGet, "/api/products/wishlist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/products/wishlist", env.token(t, user), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string][]map[string]any](t, rr)
	assert.Len(t, body["products"], 1)
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	env := newTestEnv()
	env.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	req := map[string]any{"name": "Gold Chain", "weight": "10g", "code": "GC-10", "countInStock": 4}

	rr := env.do(t, http.MethodPost, "/api/products", "", req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/products", env.token(t, newUser("Ravi")), req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "not authorized as an admin", decode[ErrorResponse](t, rr).Message)
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	admin := newAdmin()
	rr = env.do(t, http.MethodPost, "/api/products", env.token(t, admin), req)
	require.Equal(t, http.StatusCreated, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "Gold Chain", body["name"])
	assert.Equal(t, admin.ID.Hex(), body["user"])
	assert.Equal(t, float64(4), body["countInStock"])
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv()
	token := env.token(t, newAdmin())

	rr := env.do(t, http.MethodPost, "/api/products", token, map[string]any{"countInStock": -1, "category": "rings"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ErrorResponse](t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "is required", body.Fields["Name"])
	assert.Contains(t, body.Fields, "CountInStock")
	assert.Equal(t, "must be a valid object id", body.Fields["Category"])

	rr = env.do(t, http.MethodPost, "/api/products", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_INPUT", decode[ErrorResponse](t, rr).Code)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv()
	p := storedProduct("Old")
	env.products.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	env.products.On("Replace", mock.Anything, p).Return(nil)

	rr := env.do(t, http.MethodPut, "/api/products/"+p.ID.Hex(), env.token(t, newAdmin()),
		map[string]any{"name": "New", "weight": "5g", "countInStock": 9})

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "New", body["name"])
	assert.Equal(t, float64(9), body["countInStock"])
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv()
	id := primitive.NewObjectID()
	missing := primitive.NewObjectID()
	env.products.On("Delete", mock.Anything, id).Return(nil)
	env.products.On("Delete", mock.Anything, missing).Return(apperrors.NotFound("product"))
	token := env.token(t, newAdmin())

	rr := env.do(t, http.MethodDelete, "/api/products/"+id.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Product removed"}`, rr.Body.String())

	rr = env.do(t, http.MethodDelete, "/api/products/"+missing.Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
