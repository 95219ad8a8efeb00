// Package cache 缓存层抽象接口
//
// 提供电影目录的读缓存能力，当前由 Redis 实现。
// 缓存永远不是权威数据源：未命中或出错时调用方回落到 MongoDB。
package cache

import (
	"context"
	"errors"

	"myflix-api/internal/shared/model"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// CatalogCache 电影目录缓存接口
//
// GET /movies 走 cache-aside：命中直接返回，
// 未命中（ErrMiss）由调用方查库后回填；
// 管理员编辑和导入命令通过 Invalidate 使缓存失效。
type CatalogCache interface {
	GetMovieList(ctx context.Context) ([]*model.Movie, error)
	SetMovieList(ctx context.Context, movies []*model.Movie) error
	Invalidate(ctx context.Context) error
	Close() error
}
