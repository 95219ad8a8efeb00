package server

import (
	"net/http"

	"myflix-api/internal/apiserver/auth"
	"myflix-api/internal/apiserver/movie"
	"myflix-api/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET /health - 服务健康检查
//
// 认证 (Auth):
//   - POST   /login - 用户名密码换取令牌
//
// 用户 (User):
//   - POST   /users                               - 注册（公开）
//   - GET    /users                               - 列出用户（管理员）
//   - GET    /users/{username}                    - 读取资料（本人）
//   - PUT    /users/{username}                    - 更新资料（本人）
//   - DELETE /users/{username}                    - 注销账户（本人）
//   - POST   /users/{username}/movies/{movieID}   - 追加收藏（本人）
//   - DELETE /users/{username}/movies/{movieID}   - 移除收藏（本人）
//
// 电影 (Movie):
//   - GET /movies            - 全量列表（带缓存）
//   - GET /movies/{title}    - 按标题查询
//   - GET /genre/{name}      - 类型子文档
//   - GET /director/{name}   - 导演子文档
//   - PUT /movies/{movieID}/watchlinks       - 观影链接（管理员）
//   - PUT /movies/{movieID}/backdrop         - 背景图（管理员）
//   - PUT /movies/{movieID}/year             - 上映年份（管理员）
//   - PUT /movies/{movieID}/rottontomatoes   - 烂番茄评分（管理员）
//   - POST /movies/{movieID}/comments        - 追加评论
//   - GET  /movies/{movieID}/comments        - 读取评论
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// Auth 路由
	authHandler := auth.NewHandler(h.store, h.authConfig)
	authHandler.RegisterRoutes(mux)

	// User 接口
	userHandler := user.NewHandler(h.store, h.adminSecret)
	userHandler.RegisterRoutes(mux)

	// Movie 接口（目录缓存带命中率统计）
	movieHandler := movie.NewHandler(h.store, instrumentCache(h.catalog, h.metrics))
	movieHandler.RegisterRoutes(mux)

	// 中间件链（外 → 内）：CORS → 指标 → 请求日志 → 认证
	// 认证放最内层，被拒绝的请求同样会被记录和计数
	authedHandler := auth.Middleware(h.authConfig, h.store)(mux)
	loggedHandler := requestLogMiddleware(authedHandler)
	apiHandler := h.metrics.MetricsMiddleware(loggedHandler)
	return corsMiddleware(apiHandler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
