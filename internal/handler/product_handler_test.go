package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skincare-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func TestProductHandler_GetAll(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("GetAll", mock.Anything, 10, 0).Return([]model.Product{
		{ID: "P001", Name: "Cleanser", Price: 250_000, Quantity: 8, Category: "cleanser"},
		{ID: "P002", Name: "Serum", Price: 150_000, Quantity: 4, Category: "serum"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	h.GetAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var products []model.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Len(t, products, 2)

	mockService.AssertExpectations(t)
}

func TestProductHandler_GetAll_Pagination(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("GetAll", mock.Anything, 5, 20).Return([]model.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?limit=5&offset=20", nil)
	rec := httptest.NewRecorder()

	h.GetAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestProductHandler_GetByID(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("GetByID", mock.Anything, "P001").Return(
		&model.Product{ID: "P001", Name: "Cleanser", Price: 250_000, Quantity: 8}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/P001", nil)
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var product model.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, "P001", product.ID)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("GetByID", mock.Anything, "MISSING").Return(nil, model.ErrProductNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/products/MISSING", nil)
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
