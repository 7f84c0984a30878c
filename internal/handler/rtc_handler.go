// Package handler 提供 HTTP 请求处理器
// 本文件处理实时音视频 Token 签发请求
package handler

import (
	"lingua_meet_server/internal/dto/respond"
	"lingua_meet_server/internal/infrastructure/rtc"

	"github.com/gin-gonic/gin"
)

// RtcHandler 实时音视频 Token 处理器
type RtcHandler struct {
	provider rtc.TokenProvider
}

// NewRtcHandler 创建 RTC Token 处理器实例
func NewRtcHandler(provider rtc.TokenProvider) *RtcHandler {
	return &RtcHandler{provider: provider}
}

// GetRtcToken 签发服务商 Token
// GET /rtc/token
// 响应: respond.RtcTokenRespond
// 调用者 uuid 取自认证中间件，客户端不能为他人签发 Token
func (h *RtcHandler) GetRtcToken(c *gin.Context) {
	token, err := h.provider.IssueToken(callerUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.RtcTokenRespond{
		ApiKey: h.provider.ApiKey(),
		Token:  token,
	})
}
