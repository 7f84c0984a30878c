package model

import "gorm.io/gorm"

// GroupMember 群成员关联表
// (group_uuid, user_uuid) 联合唯一索引防止同一用户重复入群
type GroupMember struct {
	gorm.Model
	GroupUuid string `gorm:"type:char(20);uniqueIndex:idx_group_member,priority:1;not null;comment:群组ID"`
	UserUuid  string `gorm:"type:char(20);uniqueIndex:idx_group_member,priority:2;index;not null;comment:用户ID"`
	Role      int8   `gorm:"default:1;comment:1普通成员 3群主"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
