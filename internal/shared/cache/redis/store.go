// Package redis Redis 缓存实现
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/model"
)

// keyMovieList 电影目录缓存键
const keyMovieList = "myflix:catalog:movies"

// defaultTTL 目录缓存有效期
const defaultTTL = 5 * time.Minute

// Store Redis 缓存存储
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStoreFromURL 从 URL 创建 Redis 缓存实例
func NewStoreFromURL(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis/Cache] Connected to %s", opts.Addr)
	return &Store{client: client, ttl: defaultTTL}, nil
}

// NewStoreFromClient 从现有 Redis 客户端创建缓存实例
func NewStoreFromClient(client *redis.Client) *Store {
	return &Store{client: client, ttl: defaultTTL}
}

// Close 关闭 Redis 连接
func (s *Store) Close() error {
	return s.client.Close()
}

// GetMovieList 读取目录缓存，未命中返回 cache.ErrMiss
func (s *Store) GetMovieList(ctx context.Context) ([]*model.Movie, error) {
	data, err := s.client.Get(ctx, keyMovieList).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, err
	}

	var movies []*model.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		// 缓存内容损坏：当作未命中处理并清掉
		s.client.Del(ctx, keyMovieList)
		return nil, cache.ErrMiss
	}
	return movies, nil
}

// SetMovieList 回填目录缓存
func (s *Store) SetMovieList(ctx context.Context, movies []*model.Movie) error {
	data, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyMovieList, data, s.ttl).Err()
}

// Invalidate 使目录缓存失效
func (s *Store) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, keyMovieList).Err()
}

// 接口实现检查
var _ cache.CatalogCache = (*Store)(nil)
