package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/repository"
)

const (
	storeProductCacheKey = "store:product"
	storeProductCacheTTL = 1 * time.Minute
)

// CatalogService serves the storefront product, cached in redis so the
// public page does not hit the database on every request.
type CatalogService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(productRepo repository.ProductRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		rdb:         rdb,
	}
}

// GetStoreProduct returns the active product with its active sizes.
func (s *CatalogService) GetStoreProduct(ctx context.Context) (*entity.Product, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, storeProductCacheKey).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logger.Error().Err(err).Msg("Error getting store product from cache")
			}
		} else if cached != "" {
			product := &entity.Product{}
			if err := json.Unmarshal([]byte(cached), product); err == nil {
				return product, nil
			} else {
				logger.Error().Err(err).Msg("Error unmarshalling cached store product")
			}
		}
	}

	product, err := s.productRepo.GetActiveProduct(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting active product")
		return nil, err
	}

	if s.rdb != nil {
		productJSON, err := json.Marshal(product)
		if err == nil {
			if err := s.rdb.Set(ctx, storeProductCacheKey, productJSON, storeProductCacheTTL).Err(); err != nil {
				logger.Error().Err(err).Msg("Error setting store product in cache")
			}
		}
	}

	return product, nil
}

// InvalidateStoreProduct drops the cached storefront product. Called after
// any admin edit so the storefront picks up changes immediately.
func (s *CatalogService) InvalidateStoreProduct(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, storeProductCacheKey).Err(); err != nil {
		logger.Error().Err(err).Msg("Error invalidating store product cache")
	}
}
