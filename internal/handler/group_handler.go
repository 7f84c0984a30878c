// Package handler 提供 HTTP 请求处理器
// 本文件处理群组相关的 API 请求（含群组会议的绑定操作）
package handler

import (
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/service"
	"lingua_meet_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组请求处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
// groupSvc: 群组服务接口
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建语伴群组
// POST /groups
// 请求体: request.CreateGroupRequest
// 响应: respond.GetGroupInfoRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroup(callerUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMyGroups 获取我加入的群组列表
// GET /groups
// 响应: []respond.GetGroupListRespond
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	data, err := h.groupSvc.GetUserGroups(callerUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupDetail 获取群组详情（仅群成员）
// GET /groups/:groupId
// 响应: respond.GetGroupInfoRespond
func (h *GroupHandler) GetGroupDetail(c *gin.Context) {
	groupId := c.Param("groupId")
	if groupId == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	data, err := h.groupSvc.GetGroupDetail(groupId, callerUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroupInfo 更新群组信息（仅群主）
// PUT /groups/:groupId
// 请求体: request.UpdateGroupInfoRequest
// 响应: nil
func (h *GroupHandler) UpdateGroupInfo(c *gin.Context) {
	groupId := c.Param("groupId")
	var req request.UpdateGroupInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.UpdateGroupInfo(groupId, callerUserId(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteGroup 解散群组（仅群主）
// DELETE /groups/:groupId
// 响应: nil
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupId := c.Param("groupId")
	if err := h.groupSvc.DeleteGroup(groupId, callerUserId(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddGroupMember 添加群成员（仅群主）
// POST /groups/:groupId/members
// 请求体: request.AddGroupMemberRequest
// 响应: nil
func (h *GroupHandler) AddGroupMember(c *gin.Context) {
	groupId := c.Param("groupId")
	var req request.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.AddGroupMember(groupId, callerUserId(c), req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveGroupMember 移除群成员（群主移人或成员退群）
// DELETE /groups/:groupId/members/:userId
// 响应: nil
func (h *GroupHandler) RemoveGroupMember(c *gin.Context) {
	groupId := c.Param("groupId")
	userId := c.Param("userId")
	if err := h.groupSvc.RemoveGroupMember(groupId, callerUserId(c), userId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CreateGroupMeeting 创建群组会议（仅群主）
// POST /groups/:groupId/meeting
// 请求体: request.CreateGroupMeetingRequest
// 响应: respond.CreateGroupMeetingRespond
// 群组已有进行中会议时返回 409
func (h *GroupHandler) CreateGroupMeeting(c *gin.Context) {
	groupId := c.Param("groupId")
	var req request.CreateGroupMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroupMeeting(groupId, callerUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupMeeting 查询群组进行中的会议（仅群成员）
// GET /groups/:groupId/meeting
// 响应: respond.GetGroupMeetingRespond；无进行中会议返回 404
func (h *GroupHandler) GetGroupMeeting(c *gin.Context) {
	groupId := c.Param("groupId")
	data, err := h.groupSvc.GetGroupMeeting(groupId, callerUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
