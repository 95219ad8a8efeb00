package auth

import (
	"log"
	"net/http"
	"strings"
)

// 免认证路由（方法 + 路径精确匹配）
var publicExact = map[string]bool{
	"POST /login":  true, // 本地认证入口
	"POST /users":  true, // 注册
	"GET /health":  true,
	"GET /metrics": true,
}

func isPublicRoute(method, path string) bool {
	return publicExact[method+" "+path]
}

// Middleware 创建 JWT 认证中间件
//
// 除公开路由外，所有请求必须携带 Authorization: Bearer <token>。
// 令牌校验通过后按 user_id 回查数据库（不信任令牌内嵌快照，
// 这样管理员标志的变更立即生效，无需等待令牌过期），
// 并将查到的用户注入 context 供授权门和处理器使用。
func Middleware(cfg Config, store UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 公开路由：直接放行
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			// 解析 JWT（签名错误、格式错误、过期都在这里拒绝）
			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			// 按 ID 回查用户
			user, err := store.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				log.Printf("[auth] GetUserByID error: %v", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if user == nil {
				// 用户已注销，令牌随之失效
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// ============================================================================
// 授权门：两个独立的布尔检查，按路由组合使用，不合并成统一策略
// ============================================================================

// RequireOwner 资源属主检查
//
// 认证用户的用户名必须等于路径参数 {username}，否则直接拒绝，
// 处理器不会执行，无任何副作用。
// 状态码沿用原始行为：400 "Permission denied"。
func RequireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil || user.Username != r.PathValue("username") {
			writeError(w, http.StatusBadRequest, "Permission denied")
			return
		}
		next(w, r)
	}
}

// RequireAdmin 管理员专属路由检查
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil || !user.IsAdmin {
			writeError(w, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		next(w, r)
	}
}
