// Package tmdb TMDB (The Movie Database) API 客户端
//
// 供导入命令补全电影元数据：按标题搜索、拉取详情与演职员表、
// 拼接海报/背景图 URL。只封装导入流程用到的三个端点。
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	// ImageBaseURL 图片 CDN 前缀，与尺寸段拼接使用
	ImageBaseURL = "https://image.tmdb.org/t/p"
)

// Client TMDB API 客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建 TMDB 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL 创建指向指定地址的客户端（测试用）
func NewClientWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// SearchResult 搜索结果条目
type SearchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	ReleaseDate  string `json:"release_date"` // "2010-07-15"
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// ReleaseYear 从 release_date 提取年份，无法解析时返回 0
func (r *SearchResult) ReleaseYear() int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(r.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// MovieDetails 电影详情（含演职员表）
type MovieDetails struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	ReleaseDate  string `json:"release_date"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`

	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`

	Credits struct {
		Cast []CastMember `json:"cast"`
		Crew []CrewMember `json:"crew"`
	} `json:"credits"`
}

// CastMember 演员条目，Order 越小越靠前
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember 职员条目
type CrewMember struct {
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path"`
}

// Director 返回演职员表中第一个导演，没有则返回空串
func (d *MovieDetails) Director() string {
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// DirectorProfile 返回第一个导演的头像路径，没有则返回空串
func (d *MovieDetails) DirectorProfile() string {
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			return c.ProfilePath
		}
	}
	return ""
}

// TopCast 返回前 n 位主演的名字
func (d *MovieDetails) TopCast(n int) []string {
	names := make([]string, 0, n)
	for _, c := range d.Credits.Cast {
		if len(names) >= n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

// apiError TMDB 错误响应体
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// SearchMovie 按标题搜索，返回第一个匹配结果；无结果时返回 (nil, nil)
//
// year 大于 0 时作为 primary_release_year 过滤条件。
func (c *Client) SearchMovie(ctx context.Context, title string, year int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	if year > 0 {
		q.Set("primary_release_year", strconv.Itoa(year))
	}

	var resp struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/movie?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

// GetMovieDetails 拉取详情，append_to_response=credits 一次带回演职员表
func (c *Client) GetMovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("append_to_response", "credits")

	var details MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"?"+q.Encode(), &details); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	return &details, nil
}

// ImageURL 拼接完整图片地址，path 为空时返回空串
//
// size 如 "w500"、"original"。
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return ImageBaseURL + "/" + size + path
}

func (c *Client) get(ctx context.Context, pathAndQuery string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+pathAndQuery, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("tmdb: status=%d: %s", resp.StatusCode, apiErr.StatusMessage)
		}
		return fmt.Errorf("tmdb: status=%d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
