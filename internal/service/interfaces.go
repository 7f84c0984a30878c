// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/dto/respond"
)

// MeetingService 会议准入协调器业务接口
// 管理会议记录的生命周期（创建/结束）和准入状态机（join/respond）
//
// 准入状态机（按 (会议, 用户) 对）：
//
//	NONE → PENDING → { PARTICIPANT | REJECTED(条目移除，终态) }
//
// 主持人和已获准的参与者重新加入时直接进入 PARTICIPANT，不经过 PENDING
type MeetingService interface {
	// CreateMeeting 创建临时会议，主持人自动进入参与者集合
	CreateMeeting(req request.CreateMeetingRequest) (*respond.CreateMeetingRespond, error)
	// GetMeetingDetail 获取会议详情（大厅轮询的读模型，无副作用）
	GetMeetingDetail(meetingId string) (*respond.MeetingDetailRespond, error)
	// JoinMeeting 请求加入会议，返回准入结果 approved / waiting
	// 同一用户重复调用幂等：不会产生重复的参与者或待审批条目
	JoinMeeting(meetingId string, req request.JoinMeetingRequest) (*respond.JoinMeetingRespond, error)
	// RespondJoinRequest 主持人审批入会申请（approve / reject）
	// callerId 必须是会议主持人；对不存在的申请重复审批是 no-op
	RespondJoinRequest(meetingId, callerId string, req request.RespondJoinRequest) (*respond.RespondJoinRespond, error)
	// EndMeeting 结束会议（仅主持人）
	// 群组会议会同时清空群组的进行中会议指针（尽力而为）
	EndMeeting(meetingId, callerId string) error
}

// GroupService 语伴群组业务接口
// 包含群组 CRUD、成员管理，以及群组与会议的绑定
// （一个群同一时刻至多一场进行中的会议）
type GroupService interface {
	// CreateGroup 创建群组，创建者自动成为群主和首位成员
	CreateGroup(creatorId string, req request.CreateGroupRequest) (*respond.GetGroupInfoRespond, error)
	// GetUserGroups 获取用户加入的群组列表
	GetUserGroups(userId string) ([]respond.GetGroupListRespond, error)
	// GetGroupDetail 获取群组详情（仅群成员）
	GetGroupDetail(groupId, callerId string) (*respond.GetGroupInfoRespond, error)
	// UpdateGroupInfo 更新群组信息（仅群主）
	UpdateGroupInfo(groupId, callerId string, req request.UpdateGroupInfoRequest) error
	// DeleteGroup 解散群组（仅群主），进行中的群组会议一并结束
	DeleteGroup(groupId, callerId string) error
	// AddGroupMember 添加群成员（仅群主）
	AddGroupMember(groupId, callerId, userId string) error
	// RemoveGroupMember 移除群成员（群主可移除任何人，成员可退出自己）
	RemoveGroupMember(groupId, callerId, userId string) error
	// CreateGroupMeeting 创建群组会议（仅群主）
	// 群组已有进行中的会议时返回 Conflict；指针失效（所指会议已不存在）时懒清理后重试
	CreateGroupMeeting(groupId, callerId string, req request.CreateGroupMeetingRequest) (*respond.CreateGroupMeetingRespond, error)
	// GetGroupMeeting 查询群组进行中的会议（仅群成员）
	// 指针指向已删除的会议时懒清理并返回 NotFound
	GetGroupMeeting(groupId, callerId string) (*respond.GetGroupMeetingRespond, error)
}
