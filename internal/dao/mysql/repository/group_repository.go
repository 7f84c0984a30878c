// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理群组相关的数据库操作
package repository

import (
	"lingua_meet_server/internal/model"

	"gorm.io/gorm"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByUuid 根据 UUID 查找群组
func (r *groupRepository) FindByUuid(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByUuids 批量根据 UUID 查找群组
func (r *groupRepository) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if len(uuids) == 0 {
		return groups, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&groups).Error; err != nil {
		return nil, wrapDBError(err, "批量查询群组")
	}
	return groups, nil
}

// CreateGroup 创建群组
func (r *groupRepository) CreateGroup(group *model.GroupInfo) error {
	if err := r.db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	return nil
}

// Update 更新群组信息（全字段更新）
func (r *groupRepository) Update(group *model.GroupInfo) error {
	if err := r.db.Save(group).Error; err != nil {
		return wrapDBError(err, "更新群组")
	}
	return nil
}

// SoftDeleteByUuid 软删除群组
func (r *groupRepository) SoftDeleteByUuid(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.GroupInfo{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组 uuid=%s", uuid)
	}
	return nil
}

// IncrementMemberCount 增加群成员计数
// 使用 UpdateColumn + gorm.Expr 实现原子自增
func (r *groupRepository) IncrementMemberCount(uuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).UpdateColumn("member_cnt", gorm.Expr("member_cnt + ?", 1)).Error; err != nil {
		return wrapDBErrorf(err, "增加群成员数 uuid=%s", uuid)
	}
	return nil
}

// DecrementMemberCountBy 减少指定数量的群成员计数
func (r *groupRepository) DecrementMemberCountBy(uuid string, count int) error {
	if count <= 0 {
		return nil
	}
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).UpdateColumn("member_cnt", gorm.Expr("member_cnt - ?", count)).Error; err != nil {
		return wrapDBErrorf(err, "减少群成员数 uuid=%s count=%d", uuid, count)
	}
	return nil
}

// SetActiveMeeting 设置群组进行中会议指针（CAS 语义）
// 单条带条件 UPDATE：仅当指针为空时写入，靠 RowsAffected 判断是否抢到，
// 从而在数据库层面保证"一个群同一时刻至多一场会议"
func (r *groupRepository) SetActiveMeeting(groupUuid, meetingUuid string) (bool, error) {
	result := r.db.Model(&model.GroupInfo{}).
		Where("uuid = ? AND active_meeting_uuid = ''", groupUuid).
		UpdateColumn("active_meeting_uuid", meetingUuid)
	if result.Error != nil {
		return false, wrapDBErrorf(result.Error, "设置群组会议指针 group=%s meeting=%s", groupUuid, meetingUuid)
	}
	return result.RowsAffected > 0, nil
}

// ClearActiveMeeting 清空群组进行中会议指针（条件清空）
// 仅当指针仍指向 meetingUuid 时才清空，避免覆盖并发创建的新会议
func (r *groupRepository) ClearActiveMeeting(groupUuid, meetingUuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).
		Where("uuid = ? AND active_meeting_uuid = ?", groupUuid, meetingUuid).
		UpdateColumn("active_meeting_uuid", "").Error; err != nil {
		return wrapDBErrorf(err, "清空群组会议指针 group=%s meeting=%s", groupUuid, meetingUuid)
	}
	return nil
}
