// Package server 路由配置与核心基础设施
//
// 本包是所有 HTTP 接口的入口，负责：
//   - 组装各领域包的路由（auth / user / movie）
//   - 应用中间件链：指标 → 请求日志 → 认证 → CORS
//   - 健康检查与 Prometheus 指标端点
//
// 文件组织：
//   - common.go: Handler 定义与通用工具函数
//   - handler.go: 路由配置与中间件链
//   - metrics.go: Prometheus 指标
//   - requestlog.go: 请求日志中间件
package server

import (
	"encoding/json"
	"net/http"

	"myflix-api/internal/apiserver/auth"
	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/storage"
)

// Handler API 处理器
//
// 依赖说明（接口隔离原则）：
//   - store: MongoDB 持久化存储（用户 + 电影）
//   - catalog: 电影目录缓存，nil 表示禁用
type Handler struct {
	store   storage.PersistentStore
	catalog cache.CatalogCache

	authConfig  auth.Config
	adminSecret string

	metrics *Metrics
}

// NewHandler 创建 Handler 实例
//
// catalog 传 nil 时目录读取直接查库（测试环境、Redis 未部署时）。
func NewHandler(store storage.PersistentStore, catalog cache.CatalogCache, authCfg auth.Config, adminSecret string) *Handler {
	return &Handler{
		store:       store,
		catalog:     catalog,
		authConfig:  authCfg,
		adminSecret: adminSecret,
		metrics:     NewMetrics("myflix"),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
// 返回 {"status": "ok"} 表示服务正常运行。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
