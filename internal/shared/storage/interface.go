// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/
//   - 初始化时通过依赖注入传入实现
package storage

import (
	"context"
	"time"

	"myflix-api/internal/shared/model"
)

// ============================================================================
// 更新参数类型
// ============================================================================

// UserUpdate 用户自助更新的字段集合，nil 表示不修改
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	Email        *string
	Birthday     *time.Time
	IsAdmin      *bool
}

// MovieWatchUpdate 导入命令按 CSV 行更新观影数据的字段集合，nil 表示不修改
type MovieWatchUpdate struct {
	AppleTV     *string
	AmazonPrime *string
	RTLink      *string
	RTScore     *float64
}

// Empty 是否没有任何待更新字段
func (u MovieWatchUpdate) Empty() bool {
	return u.AppleTV == nil && u.AmazonPrime == nil && u.RTLink == nil && u.RTScore == nil
}

// ============================================================================
// 存储接口
// ============================================================================

// UserStore 用户存储接口
//
// Get* 方法在文档不存在时返回 (nil, nil)；
// 写操作在目标不存在时返回 ErrNotFound，唯一键冲突时返回 ErrDuplicate。
type UserStore interface {
	// CreateUser 原子插入：依赖 Username 唯一索引，
	// 用户名已存在时返回 ErrDuplicate（不做 check-then-act）
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	// UpdateUser 按用户名更新指定字段，返回更新后的文档
	UpdateUser(ctx context.Context, username string, upd UserUpdate) (*model.User, error)
	DeleteUserByUsername(ctx context.Context, username string) error
	// AddFavorite 追加收藏（$push，允许重复），返回更新后的文档
	AddFavorite(ctx context.Context, username, movieID string) (*model.User, error)
	// RemoveFavorite 移除收藏（$pull，删除所有同 ID 条目），返回更新后的文档
	RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error)
}

// MovieStore 电影存储接口
type MovieStore interface {
	ListMovies(ctx context.Context) ([]*model.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*model.Movie, error)
	GetMovieByID(ctx context.Context, id string) (*model.Movie, error)
	// GetGenreByName 返回第一部匹配类型名的电影的 Genre 子文档
	GetGenreByName(ctx context.Context, name string) (*model.Genre, error)
	// GetDirectorByName 返回第一部匹配导演名的电影的 Director 子文档
	GetDirectorByName(ctx context.Context, name string) (*model.Director, error)

	// 管理员字段级编辑，均返回更新后的文档
	SetWatchLinks(ctx context.Context, id string, links model.WatchLinks) (*model.Movie, error)
	SetBackdrop(ctx context.Context, id, backdropPath string) (*model.Movie, error)
	SetReleaseYear(ctx context.Context, id string, year int) (*model.Movie, error)
	SetRottenTomatoes(ctx context.Context, id string, entry model.RottenTomatoesEntry) (*model.Movie, error)

	// AppendComment 追加评论，返回更新后的文档
	AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Movie, error)

	// UpsertMovieByTitle 按 Title 插入，已存在则不改动（$setOnInsert），
	// 返回是否新建了文档
	UpsertMovieByTitle(ctx context.Context, movie *model.Movie) (bool, error)
	// UpdateMovieWatchData 按 _id 或 Title 更新观影链接/烂番茄字段（导入命令使用）
	UpdateMovieWatchData(ctx context.Context, idOrTitle string, upd MovieWatchUpdate) (*model.Movie, error)
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	MovieStore
	Close() error
}
