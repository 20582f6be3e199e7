package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

const defaultChartCacheTTL = 5 * time.Minute

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheServiceParams groups cache dependencies.
type CacheServiceParams struct {
	Repo    CacheRepository
	Metrics *MetricsService
	TTL     time.Duration
	Logger  *zap.Logger
	Enabled bool
	// Namespace scopes keys to one dataset revision.
	Namespace string
}

// CacheService stores rendered chart models. Keys are scoped by the dataset
// namespace so models of a replaced CSV are never served.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	namespace  string
}

// NewCacheService constructs a cache service.
func NewCacheService(params CacheServiceParams) *CacheService {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultChartCacheTTL
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:       params.Repo,
		metrics:    params.Metrics,
		defaultTTL: ttl,
		logger:     logger,
		enabled:    params.Enabled,
		namespace:  params.Namespace,
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func (s *CacheService) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, s.key(key), dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("chart cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, s.key(key), value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("chart cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// InvalidateCharts drops every cached chart model of this namespace.
func (s *CacheService) InvalidateCharts(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	pattern := s.key("chart:*")
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("chart cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
