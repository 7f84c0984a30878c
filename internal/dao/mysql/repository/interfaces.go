// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"lingua_meet_server/internal/model"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
// 用户资料由上游身份服务维护，本服务只做存在性校验和资料读取
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	// FindByUuid 根据 UUID 查找群组
	FindByUuid(uuid string) (*model.GroupInfo, error)
	// FindByUuids 批量根据 UUID 查找群组
	FindByUuids(uuids []string) ([]model.GroupInfo, error)
	// CreateGroup 创建群组
	CreateGroup(group *model.GroupInfo) error
	// Update 更新群组信息（全字段更新）
	Update(group *model.GroupInfo) error
	// SoftDeleteByUuid 软删除群组
	SoftDeleteByUuid(uuid string) error
	// IncrementMemberCount 原子增加群成员计数
	IncrementMemberCount(uuid string) error
	// DecrementMemberCountBy 原子减少指定数量的群成员计数
	DecrementMemberCountBy(uuid string, count int) error
	// SetActiveMeeting 设置群组进行中会议指针（CAS 语义）
	// 仅当指针为空时写入；返回是否写入成功
	SetActiveMeeting(groupUuid, meetingUuid string) (bool, error)
	// ClearActiveMeeting 清空群组进行中会议指针（条件清空）
	// 仅当指针仍指向 meetingUuid 时清空，避免覆盖并发创建的新会议
	ClearActiveMeeting(groupUuid, meetingUuid string) error
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// CreateGroupMember 创建群成员记录
	CreateGroupMember(member *model.GroupMember) error
	// IsMember 判断用户是否为群成员
	IsMember(groupUuid, userUuid string) (bool, error)
	// FindByGroupUuid 查找群组的所有成员记录
	FindByGroupUuid(groupUuid string) ([]model.GroupMember, error)
	// FindGroupUuidsByUserUuid 查找用户加入的所有群组 uuid
	FindGroupUuidsByUserUuid(userUuid string) ([]string, error)
	// DeleteByUserUuids 删除群组中的指定成员
	DeleteByUserUuids(groupUuid string, userUuids []string) error
	// DeleteByGroupUuid 删除群组的全部成员记录
	DeleteByGroupUuid(groupUuid string) error
}

// MeetingRepository 会议记录数据访问接口
// 参与者/待审批集合的写入都是存储层原子操作（add-if-absent / remove），
// 调用方不允许读出集合、在内存修改后整体回写
type MeetingRepository interface {
	// CreateMeeting 创建会议记录
	CreateMeeting(meeting *model.Meeting) error
	// FindByUuid 根据 UUID 查找会议
	FindByUuid(uuid string) (*model.Meeting, error)
	// FindByUuidForUpdate 根据 UUID 查找会议并加行锁（SELECT ... FOR UPDATE）
	// 必须在事务内调用；用于串行化同一会议上的并发变更
	FindByUuidForUpdate(uuid string) (*model.Meeting, error)
	// AddParticipant 将用户加入参与者集合（幂等，已存在时无副作用）
	AddParticipant(meetingUuid, userUuid string) error
	// IsParticipant 判断用户是否在参与者集合中
	IsParticipant(meetingUuid, userUuid string) (bool, error)
	// ListParticipants 获取参与者集合
	ListParticipants(meetingUuid string) ([]model.MeetingParticipant, error)
	// AddPendingRequest 将用户加入待审批集合（幂等，已存在时无副作用）
	AddPendingRequest(meetingUuid, userUuid, userName string) error
	// RemovePendingRequest 将用户移出待审批集合
	// 返回是否删除了记录；条目不存在时为 no-op，返回 false
	RemovePendingRequest(meetingUuid, userUuid string) (bool, error)
	// ListPendingRequests 获取待审批集合
	ListPendingRequests(meetingUuid string) ([]model.MeetingPendingRequest, error)
	// TouchActivity 刷新会议最近活动时间
	TouchActivity(uuid string) error
	// SoftDeleteByUuid 软删除会议记录（uuid 墓碑保证不被复用）
	SoftDeleteByUuid(uuid string) error
	// DeleteChildren 物理删除会议的参与者和待审批记录
	DeleteChildren(meetingUuid string) error
	// FindIdleSince 查找最近活动时间早于 t 的会议（供 reaper 使用）
	FindIdleSince(t time.Time) ([]model.Meeting, error)
}
