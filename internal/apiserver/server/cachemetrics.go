package server

import (
	"context"
	"errors"

	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/model"
)

// instrumentedCache 包装 CatalogCache，统计命中/未命中
type instrumentedCache struct {
	inner   cache.CatalogCache
	metrics *Metrics
}

func instrumentCache(inner cache.CatalogCache, m *Metrics) cache.CatalogCache {
	if inner == nil {
		return nil
	}
	return &instrumentedCache{inner: inner, metrics: m}
}

func (c *instrumentedCache) GetMovieList(ctx context.Context) ([]*model.Movie, error) {
	movies, err := c.inner.GetMovieList(ctx)
	switch {
	case err == nil:
		c.metrics.RecordCacheHit()
	case errors.Is(err, cache.ErrMiss):
		c.metrics.RecordCacheMiss()
	}
	return movies, err
}

func (c *instrumentedCache) SetMovieList(ctx context.Context, movies []*model.Movie) error {
	return c.inner.SetMovieList(ctx, movies)
}

func (c *instrumentedCache) Invalidate(ctx context.Context) error {
	return c.inner.Invalidate(ctx)
}

func (c *instrumentedCache) Close() error {
	return c.inner.Close()
}
