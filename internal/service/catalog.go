package service

import (
	"context"
	"fmt"

	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/model"
)

// Catalog cache keys.
const (
	cacheKeyModels    = "models"
	cacheKeyProviders = "providers"
	cacheKeyMappings  = "mappings"
)

// CatalogStore is the persistence contract for the read-only catalog.
type CatalogStore interface {
	ListModels(ctx context.Context) ([]*model.Model, error)
	ListProviders(ctx context.Context) ([]*model.Provider, error)
	ListMappings(ctx context.Context, modelID int64) ([]*model.Mapping, error)
}

// CatalogCache caches catalog projections.
type CatalogCache interface {
	GetCatalog(ctx context.Context, key string, dest any) (bool, error)
	SetCatalog(ctx context.Context, key string, value any) error
}

// CatalogService serves read-only projections of models, providers, and
// pricing mappings through a read-through cache. Cache failures degrade
// to database reads.
type CatalogService struct {
	store   CatalogStore
	cache   CatalogCache
	metrics metrics.Recorder
}

// NewCatalogService creates a new CatalogService. cache may be nil to
// disable caching.
func NewCatalogService(store CatalogStore, cache CatalogCache, recorder metrics.Recorder) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CatalogService{
		store:   store,
		cache:   cache,
		metrics: recorder,
	}
}

// Models returns all routable models with their owning company.
func (s *CatalogService) Models(ctx context.Context) ([]*model.Model, error) {
	var models []*model.Model
	if s.cacheGet(ctx, cacheKeyModels, &models) {
		return models, nil
	}

	models, err := s.store.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	s.cacheSet(ctx, cacheKeyModels, models)
	return models, nil
}

// Providers returns all providers.
func (s *CatalogService) Providers(ctx context.Context) ([]*model.Provider, error) {
	var providers []*model.Provider
	if s.cacheGet(ctx, cacheKeyProviders, &providers) {
		return providers, nil
	}

	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	s.cacheSet(ctx, cacheKeyProviders, providers)
	return providers, nil
}

// Mappings returns model/provider pricing mappings, optionally filtered
// to one model (modelID > 0).
func (s *CatalogService) Mappings(ctx context.Context, modelID int64) ([]*model.Mapping, error) {
	key := cacheKeyMappings
	if modelID > 0 {
		key = fmt.Sprintf("%s:%d", cacheKeyMappings, modelID)
	}

	var mappings []*model.Mapping
	if s.cacheGet(ctx, key, &mappings) {
		return mappings, nil
	}

	mappings, err := s.store.ListMappings(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}

	s.cacheSet(ctx, key, mappings)
	return mappings, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetCatalog(ctx, key, dest)
	if err != nil || !hit {
		s.metrics.IncCatalogCacheMiss()
		return false
	}
	s.metrics.IncCatalogCacheHit()
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	// Best-effort write; readers fall back to the database.
	_ = s.cache.SetCatalog(ctx, key, value)
}
