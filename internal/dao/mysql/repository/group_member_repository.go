// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupMemberRepository 接口
package repository

import (
	"errors"

	"lingua_meet_server/internal/model"

	"gorm.io/gorm"
)

// groupMemberRepository GroupMemberRepository 接口的实现
type groupMemberRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupMemberRepository 创建 GroupMemberRepository 实例
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// CreateGroupMember 创建群成员记录
func (r *groupMemberRepository) CreateGroupMember(member *model.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "创建群成员")
	}
	return nil
}

// IsMember 判断用户是否为群成员
func (r *groupMemberRepository) IsMember(groupUuid, userUuid string) (bool, error) {
	var member model.GroupMember
	err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapDBErrorf(err, "查询群成员 group=%s user=%s", groupUuid, userUuid)
	}
	return true, nil
}

// FindByGroupUuid 查找群组的所有成员记录
func (r *groupMemberRepository) FindByGroupUuid(groupUuid string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	if err := r.db.Where("group_uuid = ?", groupUuid).Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员列表 group=%s", groupUuid)
	}
	return members, nil
}

// FindGroupUuidsByUserUuid 查找用户加入的所有群组 uuid
func (r *groupMemberRepository) FindGroupUuidsByUserUuid(userUuid string) ([]string, error) {
	var groupUuids []string
	if err := r.db.Model(&model.GroupMember{}).Where("user_uuid = ?", userUuid).Pluck("group_uuid", &groupUuids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户已加入群组 user=%s", userUuid)
	}
	return groupUuids, nil
}

// DeleteByUserUuids 删除群组中的指定成员
// 物理删除：成员表有联合唯一索引，软删除墓碑会阻止用户再次入群
func (r *groupMemberRepository) DeleteByUserUuids(groupUuid string, userUuids []string) error {
	if len(userUuids) == 0 {
		return nil
	}
	if err := r.db.Unscoped().Where("group_uuid = ? AND user_uuid IN ?", groupUuid, userUuids).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群成员 group=%s", groupUuid)
	}
	return nil
}

// DeleteByGroupUuid 删除群组的全部成员记录
func (r *groupMemberRepository) DeleteByGroupUuid(groupUuid string) error {
	if err := r.db.Unscoped().Where("group_uuid = ?", groupUuid).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组全部成员 group=%s", groupUuid)
	}
	return nil
}
