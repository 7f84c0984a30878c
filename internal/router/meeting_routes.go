// Package router 提供 HTTP 路由注册
// 本文件定义会议相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMeetingRoutes 注册会议相关路由（需要认证）
// 会议生命周期 + 准入状态机
func (rt *Router) RegisterMeetingRoutes(rg *gin.RouterGroup) {
	meetingGroup := rg.Group("/meetings")
	{
		meetingGroup.POST("/create", rt.handlers.Meeting.CreateMeeting)             // 创建临时会议
		meetingGroup.GET("/:meetingId", rt.handlers.Meeting.GetMeetingDetail)       // 会议详情（大厅轮询）
		meetingGroup.POST("/:meetingId/join", rt.handlers.Meeting.JoinMeeting)      // 请求加入会议
		meetingGroup.POST("/:meetingId/respond", rt.handlers.Meeting.RespondJoinRequest) // 主持人审批
		meetingGroup.DELETE("/:meetingId", rt.handlers.Meeting.EndMeeting)          // 结束会议（主持人）
	}
}
