package model

import "time"

// User 用户文档
//
// 字段的 bson/json 键保留原始数据库中的大写风格（Username、Email 等），
// 保证与既有文档和客户端的兼容性。
type User struct {
	ID           string     `json:"_id" bson:"_id"`
	Username     string     `json:"Username" bson:"Username"`
	PasswordHash string     `json:"-" bson:"Password"` // 仅存 bcrypt 哈希，永不下发
	Email        string     `json:"Email" bson:"Email"`
	Birthday     *time.Time `json:"Birthday,omitempty" bson:"Birthday,omitempty"`

	// FavoriteMovieIDs 收藏的电影 ID 列表
	// 有序、允许重复（不做去重）；不保证引用的电影仍然存在
	FavoriteMovieIDs []string `json:"FavoriteMovies" bson:"FavoriteMovies"`

	// IsAdmin 管理员标志，仅在注册或自助更新时通过共享密钥比对授予
	IsAdmin bool `json:"Admin" bson:"Admin"`

	CreatedAt time.Time `json:"CreatedAt" bson:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt" bson:"UpdatedAt"`
}
