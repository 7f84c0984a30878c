// Package model 定义数据库实体模型
// 本文件定义会议记录模型（会议准入协调器的聚合根）
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Meeting 会议记录
// 对应数据库 meeting 表，一场进行中的通话对应一条记录
// 参与者集合与待审批集合拆分为子表（meeting_participant / meeting_pending_request），
// 由联合唯一索引保证集合语义，避免并发写入产生重复条目
//
// 会议结束采用软删除：uuid 上的唯一索引连同墓碑记录保证
// meetingId 永远不会被复用
type Meeting struct {
	gorm.Model

	// Uuid 会议唯一标识
	// 临时会议：uuid v4；群组会议：group-<群组uuid>-<毫秒时间戳>（确定性生成）
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(64);not null;comment:会议唯一id"`

	// HostId 主持人（创建者）uuid，创建后不可变
	HostId string `gorm:"column:host_id;type:char(20);index;not null;comment:主持人uuid"`

	// HostName 主持人展示名，仅用于展示
	HostName string `gorm:"column:host_name;type:varchar(50);comment:主持人昵称"`

	// IsGroupMeeting 是否为群组会议，创建后不可变
	IsGroupMeeting bool `gorm:"column:is_group_meeting;not null;default:false;comment:是否群组会议"`

	// GroupUuid 所属群组 uuid，仅群组会议有值，创建后不可变
	GroupUuid string `gorm:"column:group_uuid;type:char(20);index;comment:所属群组uuid"`

	// LastActivityAt 最近活动时间
	// join/respond 操作会刷新该字段，供 reaper 判断会议是否已被遗弃
	LastActivityAt sql.NullTime `gorm:"column:last_activity_at;type:datetime;comment:最近活动时间"`
}

func (Meeting) TableName() string {
	return "meeting"
}

// MeetingParticipant 会议参与者关联表
// (meeting_uuid, user_uuid) 联合唯一索引：同一用户在同一会议中至多出现一次，
// 重复加入由存储层吞掉（add-if-absent），而不是读改写去重
type MeetingParticipant struct {
	gorm.Model
	MeetingUuid string `gorm:"column:meeting_uuid;type:varchar(64);uniqueIndex:idx_meeting_participant,priority:1;not null;comment:会议uuid"`
	UserUuid    string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_meeting_participant,priority:2;index;not null;comment:用户uuid"`
}

func (MeetingParticipant) TableName() string {
	return "meeting_participant"
}

// MeetingPendingRequest 会议入会申请表（大厅）
// 一个用户在一场会议中至多有一条待审批记录，约束方式同参与者表
type MeetingPendingRequest struct {
	gorm.Model
	MeetingUuid string `gorm:"column:meeting_uuid;type:varchar(64);uniqueIndex:idx_meeting_pending,priority:1;not null;comment:会议uuid"`
	UserUuid    string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_meeting_pending,priority:2;not null;comment:用户uuid"`
	UserName    string `gorm:"column:user_name;type:varchar(50);comment:申请人昵称"`
}

func (MeetingPendingRequest) TableName() string {
	return "meeting_pending_request"
}
