package service

import (
	"context"
	"errors"
	"testing"

	"sumanshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func catalogueProduct(id string, downloadURL *string) *model.Product {
	return &model.Product{
		ID:          id,
		Name:        "Product " + id,
		Price:       decimal.RequireFromString("29.99"),
		ImageURL:    "https://img.example.com/" + id + ".png",
		DownloadURL: downloadURL,
		Stock:       5,
	}
}

func TestProductService_GetAll_ClampsPagination(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewProductService(productRepo, orderRepo, zerolog.Nop())

	productRepo.On("GetAll", ctx, 10, 0).Return([]model.Product{}, nil).Once()
	_, err := svc.GetAll(ctx, 0, -5)
	require.NoError(t, err)

	productRepo.On("GetAll", ctx, 100, 0).Return([]model.Product{}, nil).Once()
	_, err = svc.GetAll(ctx, 500, 0)
	require.NoError(t, err)

	productRepo.AssertExpectations(t)
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewProductService(productRepo, orderRepo, zerolog.Nop())

	product := catalogueProduct("A", nil)
	productRepo.On("GetByID", ctx, "A").Return(product, nil)
	productRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	got, err := svc.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)

	_, err = svc.GetByID(ctx, "missing")
	assert.Equal(t, model.ErrProductNotFound, err)

	_, err = svc.GetByID(ctx, "")
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestProductService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	download := strPtr("https://files.example.com/A.zip")

	tests := []struct {
		name      string
		product   *model.Product
		confirmed bool
		wantURL   string
		wantErr   error
	}{
		{
			name:      "visible with a confirmed order",
			product:   catalogueProduct("A", download),
			confirmed: true,
			wantURL:   "https://files.example.com/A.zip",
		},
		{
			name:      "hidden without a confirmed order",
			product:   catalogueProduct("A", download),
			confirmed: false,
			wantErr:   model.ErrDownloadNotAvailable,
		},
		{
			name:    "product has no download artifact",
			product: catalogueProduct("A", nil),
			wantErr: model.ErrDownloadNotAvailable,
		},
		{
			name:    "empty download url counts as absent",
			product: catalogueProduct("A", strPtr("")),
			wantErr: model.ErrDownloadNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo := new(MockProductRepository)
			orderRepo := new(MockOrderRepository)
			svc := NewProductService(productRepo, orderRepo, zerolog.Nop())

			productRepo.On("GetByID", ctx, "A").Return(tt.product, nil)
			orderRepo.On("HasConfirmedOrder", ctx, "user-1", "A").Return(tt.confirmed, nil)

			url, err := svc.DownloadURL(ctx, "user-1", "A")
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, url)
			}
		})
	}
}

func TestProductService_DownloadURL_RequiresUser(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewProductService(productRepo, orderRepo, zerolog.Nop())

	_, err := svc.DownloadURL(context.Background(), "", "A")
	assert.Equal(t, model.ErrAuthenticationRequired, err)
	orderRepo.AssertNotCalled(t, "HasConfirmedOrder")
}

func TestProductService_DownloadURL_RepositoryError(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewProductService(productRepo, orderRepo, zerolog.Nop())

	productRepo.On("GetByID", ctx, "A").Return(catalogueProduct("A", strPtr("u")), nil)
	orderRepo.On("HasConfirmedOrder", ctx, "user-1", "A").Return(false, errors.New("timeout"))

	_, err := svc.DownloadURL(ctx, "user-1", "A")
	require.Error(t, err)
	assert.NotEqual(t, model.ErrDownloadNotAvailable, err)
}
