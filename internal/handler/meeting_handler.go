// Package handler 提供 HTTP 请求处理器
// 本文件处理会议相关的 API 请求
package handler

import (
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/dto/respond"
	"lingua_meet_server/internal/infrastructure/middleware"
	"lingua_meet_server/internal/service"
	"lingua_meet_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MeetingHandler 会议请求处理器
// 通过构造函数注入 MeetingService，遵循依赖倒置原则
type MeetingHandler struct {
	meetingSvc service.MeetingService
}

// NewMeetingHandler 创建会议处理器实例
// meetingSvc: 会议服务接口
func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

// callerUserId 从认证中间件写入的上下文中取调用者 uuid
func callerUserId(c *gin.Context) string {
	return c.GetString(middleware.ContextUserIdKey)
}

// CreateMeeting 创建临时会议
// POST /meetings/create
// 请求体: request.CreateMeetingRequest
// 响应: respond.CreateMeetingRespond
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req request.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.meetingSvc.CreateMeeting(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMeetingDetail 获取会议详情（大厅轮询）
// GET /meetings/:meetingId
// 响应: respond.MeetingDetailRespond
func (h *MeetingHandler) GetMeetingDetail(c *gin.Context) {
	meetingId := c.Param("meetingId")
	if meetingId == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	data, err := h.meetingSvc.GetMeetingDetail(meetingId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinMeeting 请求加入会议
// POST /meetings/:meetingId/join
// 请求体: request.JoinMeetingRequest
// 响应: respond.JoinMeetingRespond (status = approved / waiting)
func (h *MeetingHandler) JoinMeeting(c *gin.Context) {
	meetingId := c.Param("meetingId")
	var req request.JoinMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.meetingSvc.JoinMeeting(meetingId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RespondJoinRequest 主持人审批入会申请
// POST /meetings/:meetingId/respond
// 请求体: request.RespondJoinRequest (action = approve / reject)
// 响应: respond.RespondJoinRespond
func (h *MeetingHandler) RespondJoinRequest(c *gin.Context) {
	meetingId := c.Param("meetingId")
	var req request.RespondJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.meetingSvc.RespondJoinRequest(meetingId, callerUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// EndMeeting 结束会议（仅主持人）
// DELETE /meetings/:meetingId
// 响应: respond.EndMeetingRespond
func (h *MeetingHandler) EndMeeting(c *gin.Context) {
	meetingId := c.Param("meetingId")
	if err := h.meetingSvc.EndMeeting(meetingId, callerUserId(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.EndMeetingRespond{Message: "meeting ended"})
}
