package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

var (
	ErrProductInvalid = errors.New("product name and a positive base price are required")
	ErrSizeInvalid    = errors.New("size label is required and stock must be non-negative")
)

// ProductService is the admin-facing side of the catalog: the product row
// and its size variants. Every mutation drops the storefront cache.
type ProductService struct {
	productRepo repository.ProductRepository
	catalog     *CatalogService
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repository.ProductRepository, catalog *CatalogService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		catalog:     catalog,
	}
}

// SaveProduct creates the product when it has no id yet, updates it
// otherwise.
func (s *ProductService) SaveProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" || product.BasePricePaise <= 0 {
		return nil, ErrProductInvalid
	}
	if product.Currency == "" {
		product.Currency = "INR"
	}

	var saved *entity.Product
	var err error
	if product.ID == 0 {
		saved, err = s.productRepo.CreateProduct(ctx, product)
	} else {
		saved, err = s.productRepo.UpdateProduct(ctx, product)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error saving product")
		return nil, err
	}

	s.catalog.InvalidateStoreProduct(ctx)
	return saved, nil
}

func (s *ProductService) CreateSize(ctx context.Context, size *entity.SizeVariant) (*entity.SizeVariant, error) {
	size.Label = strings.ToUpper(strings.TrimSpace(size.Label))
	if size.Label == "" || size.Stock < 0 || size.ProductID == 0 {
		return nil, ErrSizeInvalid
	}

	created, err := s.productRepo.CreateSize(ctx, size)
	if err != nil {
		logger.Error().Err(err).Str("label", size.Label).Msg("Error creating size")
		return nil, err
	}

	s.catalog.InvalidateStoreProduct(ctx)
	return created, nil
}

func (s *ProductService) UpdateSize(ctx context.Context, size *entity.SizeVariant) (*entity.SizeVariant, error) {
	size.Label = strings.ToUpper(strings.TrimSpace(size.Label))
	if size.Label == "" || size.Stock < 0 {
		return nil, ErrSizeInvalid
	}

	updated, err := s.productRepo.UpdateSize(ctx, size)
	if err != nil {
		logger.Error().Err(err).Int("id", size.ID).Msg("Error updating size")
		return nil, err
	}

	s.catalog.InvalidateStoreProduct(ctx)
	return updated, nil
}

func (s *ProductService) DeleteSize(ctx context.Context, id int) error {
	if err := s.productRepo.DeleteSize(ctx, id); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Error deleting size")
		return err
	}

	s.catalog.InvalidateStoreProduct(ctx)
	return nil
}

func (s *ProductService) RestockSize(ctx context.Context, id, qty int) error {
	if err := s.productRepo.RestockSize(ctx, id, qty); err != nil {
		logger.Error().Err(err).Int("id", id).Msg("Error restocking size")
		return err
	}

	s.catalog.InvalidateStoreProduct(ctx)
	return nil
}
