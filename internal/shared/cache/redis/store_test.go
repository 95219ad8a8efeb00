package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/model"
)

// testCache 创建测试用缓存，Redis 不可用时跳过
func testCache(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := NewStoreFromClient(client)
	t.Cleanup(func() {
		s.Invalidate(context.Background())
		s.Close()
	})
	return s
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	s := testCache(t)
	ctx := context.Background()

	if err := s.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	// 冷缓存未命中
	if _, err := s.GetMovieList(ctx); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("GetMovieList on cold cache = %v, want ErrMiss", err)
	}

	movies := []*model.Movie{
		{ID: "movie-1", Title: "Chicago", Description: "A musical."},
		{ID: "movie-2", Title: "Crash", Description: "Colliding lives."},
	}
	if err := s.SetMovieList(ctx, movies); err != nil {
		t.Fatalf("SetMovieList: %v", err)
	}

	got, err := s.GetMovieList(ctx)
	if err != nil {
		t.Fatalf("GetMovieList: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Chicago" {
		t.Errorf("GetMovieList = %+v", got)
	}

	// 失效后回到未命中
	if err := s.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := s.GetMovieList(ctx); !errors.Is(err, cache.ErrMiss) {
		t.Errorf("GetMovieList after Invalidate = %v, want ErrMiss", err)
	}
}
