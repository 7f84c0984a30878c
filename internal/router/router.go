// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"lingua_meet_server/internal/handler"
	"lingua_meet_server/internal/infrastructure/middleware"
)

// Router 路由注册器
// 持有 Handlers 聚合，按模块注册路由组
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由注册器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 所有业务接口都在认证路由组下，调用者身份由 JWT 中间件注入
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	authed := r.Group("/", middleware.JWTAuth())
	rt.RegisterMeetingRoutes(authed) // 会议路由
	rt.RegisterGroupRoutes(authed)   // 群组路由
	rt.RegisterRtcRoutes(authed)     // RTC Token 路由
}
