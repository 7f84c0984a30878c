package model

import (
	"gorm.io/gorm"
)

// GroupInfo 语伴群组
// ActiveMeetingUuid 是指向当前群组会议的跨聚合指针：
// 创建群组会议时写入，会议结束时清空。读取方不应将其视为权威状态，
// 查询时需要校验所指会议仍然存在（见 group service 的懒清理逻辑）
type GroupInfo struct {
	gorm.Model
	Uuid              string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:群组唯一id"`
	Name              string `gorm:"column:name;type:varchar(50);not null;comment:群名称"`
	Description       string `gorm:"column:description;type:varchar(500);comment:群简介"`
	Language          string `gorm:"column:language;type:varchar(30);comment:交流语言"`
	MemberCnt         int    `gorm:"column:member_cnt;default:1;comment:群人数"`
	AdminId           string `gorm:"column:admin_id;type:char(20);not null;comment:群主uuid"`
	ActiveMeetingUuid string `gorm:"column:active_meeting_uuid;type:varchar(64);default:'';comment:进行中的群组会议uuid"`
	Avatar            string `gorm:"column:avatar;type:char(255);default:https://cube.elemecdn.com/0/88/03b0d39583f48206768a7534e55bcpng.png;not null;comment:头像"`
	Status            int8   `gorm:"column:status;default:0;comment:状态，0.正常，1.禁用，2.解散"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
