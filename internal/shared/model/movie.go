package model

import "time"

// Movie 电影文档
//
// 电影只能通过导入命令（cmd/seed-movies / cmd/update-movies）创建，
// API 仅提供读取、管理员字段级编辑和评论追加，不提供删除。
type Movie struct {
	ID          string `json:"_id" bson:"_id"`
	Title       string `json:"Title" bson:"Title"`
	Description string `json:"Description" bson:"Description"`

	Genre    Genre    `json:"Genre" bson:"Genre"`
	Director Director `json:"Director" bson:"Director"`

	// Actors 主演名单（有序）
	Actors []string `json:"Actors" bson:"Actors"`

	ImagePath    string `json:"ImagePath,omitempty" bson:"ImagePath,omitempty"`
	BackdropPath string `json:"BackdropPath,omitempty" bson:"BackdropPath,omitempty"`
	Featured     bool   `json:"Featured" bson:"Featured"`
	ReleaseYear  int    `json:"ReleaseYear,omitempty" bson:"ReleaseYear,omitempty"`

	WatchLinks WatchLinks `json:"WatchLinks" bson:"WatchLinks"`

	// RottenTomatoes 建模为列表但只会持有一个条目（沿用原始文档结构，
	// bson 键保留原库中的拼写 RottonTomatoes）
	RottenTomatoes []RottenTomatoesEntry `json:"RottonTomatoes,omitempty" bson:"RottonTomatoes,omitempty"`

	// Comments 追加式评论列表，只增不删
	Comments []Comment `json:"Comments" bson:"Comments"`
}

// Genre 电影类型子文档
type Genre struct {
	Name        string `json:"Name" bson:"Name"`
	Description string `json:"Description,omitempty" bson:"Description,omitempty"`
}

// Director 导演子文档
type Director struct {
	Name  string `json:"Name" bson:"Name"`
	Bio   string `json:"Bio,omitempty" bson:"Bio,omitempty"`
	Image string `json:"Image,omitempty" bson:"Image,omitempty"`
}

// WatchLinks 观影链接
type WatchLinks struct {
	AppleTV     string `json:"AppleTV,omitempty" bson:"AppleTV,omitempty"`
	AmazonPrime string `json:"AmazonPrime,omitempty" bson:"AmazonPrime,omitempty"`
}

// RottenTomatoesEntry 烂番茄评分条目
type RottenTomatoesEntry struct {
	Score        string  `json:"Score,omitempty" bson:"Score,omitempty"` // 如 "85%"
	NumericScore float64 `json:"NumericScore,omitempty" bson:"NumericScore,omitempty"`
	Link         string  `json:"Link,omitempty" bson:"Link,omitempty"`
}

// Comment 用户评论，Rating 取值 1-5
type Comment struct {
	Username string    `json:"Username" bson:"Username"`
	Content  string    `json:"Content" bson:"Content"`
	Rating   int       `json:"Rating" bson:"Rating"`
	PostedAt time.Time `json:"PostedAt" bson:"PostedAt"`
}
