// Package user 用户领域 - HTTP 处理
//
// 注册、自助更新/删除、收藏列表维护，以及管理员的用户列表。
// 所有权/管理员检查由 auth 包的授权门在路由注册时组合，
// 处理器本体只做一次数据库操作。
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"myflix-api/internal/apiserver/auth"
	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage"
)

// Store 用户领域存储接口
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, username string, upd storage.UserUpdate) (*model.User, error)
	DeleteUserByUsername(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*model.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error)
}

// Handler 用户领域 HTTP 处理器
type Handler struct {
	store Store
	// adminSecret 共享密钥：注册/更新请求携带的 AdminSecret 与之相符时授予管理员标志。
	// 没有速率限制（沿用原始行为）。
	adminSecret string
}

// NewHandler 创建用户处理器
func NewHandler(store Store, adminSecret string) *Handler {
	return &Handler{store: store, adminSecret: adminSecret}
}

// RegisterRoutes 注册用户相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", h.Create) // 公开（注册）
	mux.HandleFunc("GET /users", auth.RequireAdmin(h.List))
	mux.HandleFunc("GET /users/{username}", auth.RequireOwner(h.Get))
	mux.HandleFunc("PUT /users/{username}", auth.RequireOwner(h.Update))
	mux.HandleFunc("DELETE /users/{username}", auth.RequireOwner(h.Delete))
	mux.HandleFunc("POST /users/{username}/movies/{movieID}", auth.RequireOwner(h.AddFavorite))
	mux.HandleFunc("DELETE /users/{username}/movies/{movieID}", auth.RequireOwner(h.RemoveFavorite))
}

// ============================================================================
// 请求类型（沿用原始客户端的大写键）
// ============================================================================

type createRequest struct {
	Username    string     `json:"Username"`
	Password    string     `json:"Password"`
	Email       string     `json:"Email"`
	Birthday    *time.Time `json:"Birthday"`
	AdminSecret string     `json:"AdminSecret"`
}

// updateRequest 自助更新，nil 字段表示不修改
type updateRequest struct {
	Username    *string    `json:"Username"`
	Password    *string    `json:"Password"`
	Email       *string    `json:"Email"`
	Birthday    *time.Time `json:"Birthday"`
	AdminSecret *string    `json:"AdminSecret"`
}

// ============================================================================
// HTTP 处理函数
// ============================================================================

// Create 注册新用户
// POST /users
//
// 校验失败时一次性返回所有违规字段。
// 用户名占用由唯一索引在插入时暴露（单次原子写，无先查再插的竞态）。
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validateNewUser(req); len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("[user.create] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := time.Now()
	user := &model.User{
		ID:               generateID("user"),
		Username:         req.Username,
		PasswordHash:     hash,
		Email:            req.Email,
		Birthday:         req.Birthday,
		FavoriteMovieIDs: []string{},
		IsAdmin:          h.adminSecret != "" && req.AdminSecret == h.adminSecret,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusConflict, req.Username+" already exists")
			return
		}
		log.Printf("[user.create] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[user] User created: %s (%s)", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Get 读取单个用户
// GET /users/{username}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Printf("[user.get] GetUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, username+" was not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// List 列出全部用户（仅管理员）
// GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("[user.list] ListUsers error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Update 自助更新资料/密码/管理员标志
// PUT /users/{username}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validateUserUpdate(req); len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	upd := storage.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Birthday: req.Birthday,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Printf("[user.update] HashPassword error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		upd.PasswordHash = &hash
	}
	if req.AdminSecret != nil {
		isAdmin := h.adminSecret != "" && *req.AdminSecret == h.adminSecret
		upd.IsAdmin = &isAdmin
	}

	user, err := h.store.UpdateUser(r.Context(), username, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, username+" was not found")
		case errors.Is(err, storage.ErrDuplicate):
			writeError(w, http.StatusConflict, "username already exists")
		default:
			log.Printf("[user.update] UpdateUser error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete 注销账户（立即、不可恢复）
// DELETE /users/{username}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.store.DeleteUserByUsername(r.Context(), username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, username+" was not found")
			return
		}
		log.Printf("[user.delete] DeleteUserByUsername error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[user] User deleted: %s", username)
	// 纯文本响应，沿用原始行为
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s was deleted.", username)
}

// AddFavorite 追加收藏
// POST /users/{username}/movies/{movieID}
//
// 重复调用会追加重复条目（不去重，沿用原始行为）；
// 不校验电影是否存在（无外键约束，沿用原始行为）。
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	movieID := r.PathValue("movieID")

	user, err := h.store.AddFavorite(r.Context(), username, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, username+" was not found")
			return
		}
		log.Printf("[user.favorite] AddFavorite error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RemoveFavorite 移除收藏
// DELETE /users/{username}/movies/{movieID}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	movieID := r.PathValue("movieID")

	user, err := h.store.RemoveFavorite(r.Context(), username, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, username+" was not found")
			return
		}
		log.Printf("[user.favorite] RemoveFavorite error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
