// Package router 提供 HTTP 路由注册
// 本文件定义实时音视频 Token 路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRtcRoutes 注册 RTC Token 路由（需要认证）
func (rt *Router) RegisterRtcRoutes(rg *gin.RouterGroup) {
	rtcGroup := rg.Group("/rtc")
	{
		rtcGroup.GET("/token", rt.handlers.Rtc.GetRtcToken) // 签发服务商 Token
	}
}
