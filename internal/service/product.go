package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/BackofficeGo/internal/domain"
	"github.com/utafrali/BackofficeGo/internal/repository"
)

// minSearchTermLength is the shortest term that triggers a catalog query.
const minSearchTermLength = 2

// maxSearchResults caps the number of matches returned.
const maxSearchResults = 10

// searchCacheTTL is how long search responses stay in Redis.
const searchCacheTTL = 30 * time.Second

const searchCacheKeyPrefix = "product:search:"

// ProductService implements catalog search with a short-lived Redis cache.
// Cache failures degrade to a direct catalog query.
type ProductService struct {
	productRepo repository.ProductRepository
	cache       *redis.Client
	logger      *slog.Logger
}

// NewProductService creates a new product service. The cache client may be
// nil, in which case every search hits the catalog.
func NewProductService(productRepo repository.ProductRepository, cache *redis.Client, logger *slog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		logger:      logger,
	}
}

// SearchProducts returns active products whose name contains the trimmed
// term, case-insensitively, ordered by name and capped at ten. Terms shorter
// than two characters yield an empty result rather than an error.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if len(term) < minSearchTermLength {
		return []domain.Product{}, nil
	}

	cacheKey := searchCacheKeyPrefix + strings.ToLower(term)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	products, err := s.productRepo.SearchActive(ctx, term, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	s.cacheSet(ctx, cacheKey, products)

	return products, nil
}

// cacheGet returns the cached result for the key, if any. Errors other than
// a miss are logged and treated as a miss.
func (s *ProductService) cacheGet(ctx context.Context, key string) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "product search cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.WarnContext(ctx, "product search cache entry corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return products, true
}

// cacheSet stores the result under the key. Failures are logged and ignored.
func (s *ProductService) cacheSet(ctx context.Context, key string, products []domain.Product) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, searchCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "product search cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
