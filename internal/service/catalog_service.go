package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/domain"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

const (
	patternCatalogKey = "catalog:padroes"
	knowledgeBaseKey  = "catalog:base-conhecimento"
)

// CatalogSource is the read-only reference part of the gateway.
type CatalogSource interface {
	FetchPatternCatalog(ctx context.Context) ([]domain.PatternDefinition, error)
	FetchKnowledgeBase(ctx context.Context) (*domain.KnowledgeBase, error)
}

// Cache stores JSON values with a TTL. A miss reports false.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CatalogService serves the pattern catalog and knowledge base through a cache.
type CatalogService struct {
	source CatalogSource
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService creates the service. A nil cache or zero ttl disables caching.
func NewCatalogService(source CatalogSource, cache Cache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, ttl: ttl, logger: logger.Named("catalog")}
}

func (c *CatalogService) cached() bool {
	return c.cache != nil && c.ttl > 0
}

// Patterns returns the pattern catalog.
func (c *CatalogService) Patterns(ctx context.Context) ([]domain.PatternDefinition, error) {
	if c.cached() {
		var hit []domain.PatternDefinition
		if ok, err := c.cache.GetJSON(ctx, patternCatalogKey, &hit); err != nil {
			c.logger.Warn("catalog cache read failed", zap.String("key", patternCatalogKey), zap.Error(err))
		} else if ok {
			return hit, nil
		}
	}
	patterns, err := c.source.FetchPatternCatalog(ctx)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	c.store(ctx, patternCatalogKey, patterns)
	return patterns, nil
}

// KnowledgeBase returns the knowledge base snapshot.
func (c *CatalogService) KnowledgeBase(ctx context.Context) (*domain.KnowledgeBase, error) {
	if c.cached() {
		var hit domain.KnowledgeBase
		if ok, err := c.cache.GetJSON(ctx, knowledgeBaseKey, &hit); err != nil {
			c.logger.Warn("catalog cache read failed", zap.String("key", knowledgeBaseKey), zap.Error(err))
		} else if ok {
			return &hit, nil
		}
	}
	kb, err := c.source.FetchKnowledgeBase(ctx)
	if err != nil {
		return nil, apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	c.store(ctx, knowledgeBaseKey, kb)
	return kb, nil
}

// Warm refetches both entries and overwrites the cache.
func (c *CatalogService) Warm(ctx context.Context) error {
	if !c.cached() {
		return nil
	}
	patterns, err := c.source.FetchPatternCatalog(ctx)
	if err != nil {
		return apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	c.store(ctx, patternCatalogKey, patterns)

	kb, err := c.source.FetchKnowledgeBase(ctx)
	if err != nil {
		return apperrors.Classified(err, apperrors.ScopeAuxiliary, "")
	}
	c.store(ctx, knowledgeBaseKey, kb)
	return nil
}

func (c *CatalogService) store(ctx context.Context, key string, value any) {
	if !c.cached() {
		return
	}
	if err := c.cache.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
