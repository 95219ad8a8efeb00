// Package movie 电影目录 - HTTP 处理
//
// 目录读取（全量列表走 cache-aside）、类型/导演查询、
// 管理员字段级编辑、评论追加。电影的创建走导入命令，API 不提供。
package movie

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"myflix-api/internal/apiserver/auth"
	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage"
)

// Handler 电影目录 HTTP 处理器
type Handler struct {
	store storage.MovieStore
	// catalog 目录缓存，nil 表示禁用（直接查库）
	catalog cache.CatalogCache
}

// NewHandler 创建电影处理器，catalog 传 nil 则不启用缓存
func NewHandler(store storage.MovieStore, catalog cache.CatalogCache) *Handler {
	return &Handler{store: store, catalog: catalog}
}

// RegisterRoutes 注册电影相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /movies", h.List)
	mux.HandleFunc("GET /movies/{title}", h.GetByTitle)
	mux.HandleFunc("GET /genre/{name}", h.GetGenre)
	mux.HandleFunc("GET /director/{name}", h.GetDirector)

	// 管理员字段级编辑
	mux.HandleFunc("PUT /movies/{movieID}/watchlinks", auth.RequireAdmin(h.SetWatchLinks))
	mux.HandleFunc("PUT /movies/{movieID}/backdrop", auth.RequireAdmin(h.SetBackdrop))
	mux.HandleFunc("PUT /movies/{movieID}/year", auth.RequireAdmin(h.SetYear))
	// 路由保留原库中的拼写
	mux.HandleFunc("PUT /movies/{movieID}/rottontomatoes", auth.RequireAdmin(h.SetRottenTomatoes))

	// 评论：任何已认证用户
	mux.HandleFunc("POST /movies/{movieID}/comments", h.AddComment)
	mux.HandleFunc("GET /movies/{movieID}/comments", h.ListComments)
}

// ============================================================================
// 目录读取
// ============================================================================

// List 全量电影列表
// GET /movies
//
// cache-aside：命中缓存直接返回；未命中或缓存故障回落到数据库，
// 查库成功后尽力回填（回填失败只记日志，不影响响应）。
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog != nil {
		movies, err := h.catalog.GetMovieList(r.Context())
		if err == nil {
			writeJSON(w, http.StatusOK, movies)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[movie.list] cache read error: %v", err)
		}
	}

	movies, err := h.store.ListMovies(r.Context())
	if err != nil {
		log.Printf("[movie.list] ListMovies error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.catalog != nil {
		if err := h.catalog.SetMovieList(r.Context(), movies); err != nil {
			log.Printf("[movie.list] cache fill error: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, movies)
}

// GetByTitle 按标题精确查询
// GET /movies/{title}
func (h *Handler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	m, err := h.store.GetMovieByTitle(r.Context(), title)
	if err != nil {
		log.Printf("[movie.get] GetMovieByTitle error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, title+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetGenre 按类型名返回类型子文档
// GET /genre/{name}
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	g, err := h.store.GetGenreByName(r.Context(), name)
	if err != nil {
		log.Printf("[movie.genre] GetGenreByName error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, name+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GetDirector 按导演名返回导演子文档
// GET /director/{name}
func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	d, err := h.store.GetDirectorByName(r.Context(), name)
	if err != nil {
		log.Printf("[movie.director] GetDirectorByName error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, name+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ============================================================================
// 管理员字段级编辑
// ============================================================================

type watchLinksRequest struct {
	AppleTV     string `json:"AppleTV"`
	AmazonPrime string `json:"AmazonPrime"`
}

// SetWatchLinks 整体替换观影链接
// PUT /movies/{movieID}/watchlinks
func (h *Handler) SetWatchLinks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")
	var req watchLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.store.SetWatchLinks(r.Context(), id, model.WatchLinks{
		AppleTV:     req.AppleTV,
		AmazonPrime: req.AmazonPrime,
	})
	h.respondEdit(w, r, "watchlinks", id, m, err)
}

type backdropRequest struct {
	BackdropPath string `json:"BackdropPath"`
}

// SetBackdrop 更新背景图路径
// PUT /movies/{movieID}/backdrop
func (h *Handler) SetBackdrop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")
	var req backdropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BackdropPath == "" {
		writeError(w, http.StatusBadRequest, "BackdropPath is required")
		return
	}

	m, err := h.store.SetBackdrop(r.Context(), id, req.BackdropPath)
	h.respondEdit(w, r, "backdrop", id, m, err)
}

type yearRequest struct {
	ReleaseYear int `json:"ReleaseYear"`
}

// SetYear 更新上映年份
// PUT /movies/{movieID}/year
func (h *Handler) SetYear(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")
	var req yearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ReleaseYear < 1888 || req.ReleaseYear > time.Now().Year()+1 {
		writeError(w, http.StatusBadRequest, "ReleaseYear is out of range")
		return
	}

	m, err := h.store.SetReleaseYear(r.Context(), id, req.ReleaseYear)
	h.respondEdit(w, r, "year", id, m, err)
}

// SetRottenTomatoes 整体替换烂番茄评分条目
// PUT /movies/{movieID}/rottontomatoes
func (h *Handler) SetRottenTomatoes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")
	var entry model.RottenTomatoesEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.store.SetRottenTomatoes(r.Context(), id, entry)
	h.respondEdit(w, r, "rottontomatoes", id, m, err)
}

// respondEdit 编辑类操作的统一收尾：错误映射 + 缓存失效 + 返回更新后的文档
func (h *Handler) respondEdit(w http.ResponseWriter, r *http.Request, op, id string, m *model.Movie, err error) {
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie "+id+" was not found")
			return
		}
		log.Printf("[movie.%s] update error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateCatalog(r)
	writeJSON(w, http.StatusOK, m)
}

// invalidateCatalog 电影文档变更后使列表缓存失效，失败只记日志
func (h *Handler) invalidateCatalog(r *http.Request) {
	if h.catalog == nil {
		return
	}
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		log.Printf("[movie] cache invalidate error: %v", err)
	}
}

// ============================================================================
// 评论
// ============================================================================

type commentRequest struct {
	Content string `json:"Content"`
	Rating  int    `json:"Rating"`
}

// AddComment 追加评论
// POST /movies/{movieID}/comments
//
// 评论人取自令牌对应的用户，不信任请求体；评分取值 1-5。
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")

	caller := auth.UserFrom(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var errs []string
	if req.Content == "" {
		errs = append(errs, "Content is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs = append(errs, "Rating must be between 1 and 5")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": errs})
		return
	}

	m, err := h.store.AppendComment(r.Context(), id, model.Comment{
		Username: caller.Username,
		Content:  req.Content,
		Rating:   req.Rating,
		PostedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "movie "+id+" was not found")
			return
		}
		log.Printf("[movie.comment] AppendComment error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateCatalog(r)
	writeJSON(w, http.StatusCreated, m)
}

// ListComments 读取电影的全部评论
// GET /movies/{movieID}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieID")
	m, err := h.store.GetMovieByID(r.Context(), id)
	if err != nil {
		log.Printf("[movie.comment] GetMovieByID error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "movie "+id+" was not found")
		return
	}
	comments := m.Comments
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
