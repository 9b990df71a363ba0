package service

import (
	"context"
	"fmt"

	"sumanshop/internal/model"
	"sumanshop/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// DownloadURL returns a product's download link for the given user.
// Visible if and only if the user has at least one confirmed order for
// that exact product id.
func (s *productService) DownloadURL(ctx context.Context, userID, productID string) (string, error) {
	if userID == "" {
		return "", model.ErrAuthenticationRequired
	}

	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if product.DownloadURL == nil || *product.DownloadURL == "" {
		return "", model.ErrDownloadNotAvailable
	}

	confirmed, err := s.orderRepo.HasConfirmedOrder(ctx, userID, productID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to check purchase for download")
		return "", fmt.Errorf("failed to check purchase: %w", err)
	}
	if !confirmed {
		return "", model.ErrDownloadNotAvailable
	}

	return *product.DownloadURL, nil
}
