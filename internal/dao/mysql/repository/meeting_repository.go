// Package repository 提供数据访问层的具体实现
// 本文件实现 MeetingRepository 接口，处理会议记录及其
// 参与者/待审批两个集合子表的数据库操作
//
// 并发约定：
//   - 集合写入（AddParticipant/AddPendingRequest）是单条原子语句，
//     依赖联合唯一索引 + ON CONFLICT DO NOTHING 实现 add-if-absent，
//     两个并发请求同时插入同一用户最多落库一条
//   - 会议级状态机变更（join/respond/end）由 Service 层在事务内
//     先 FindByUuidForUpdate 加行锁，串行化同一会议的并发变更；
//     会议删除后行锁读返回 NotFound，变更不会复活已删除记录
package repository

import (
	"errors"
	"time"

	"lingua_meet_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// meetingRepository MeetingRepository 接口的实现
type meetingRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewMeetingRepository 创建 MeetingRepository 实例
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepository{db: db}
}

// CreateMeeting 创建会议记录
func (r *meetingRepository) CreateMeeting(meeting *model.Meeting) error {
	if err := r.db.Create(meeting).Error; err != nil {
		return wrapDBError(err, "创建会议")
	}
	return nil
}

// FindByUuid 根据 UUID 查找会议
func (r *meetingRepository) FindByUuid(uuid string) (*model.Meeting, error) {
	var meeting model.Meeting
	if err := r.db.First(&meeting, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会议 uuid=%s", uuid)
	}
	return &meeting, nil
}

// FindByUuidForUpdate 根据 UUID 查找会议并加行锁
// 必须在事务内调用
func (r *meetingRepository) FindByUuidForUpdate(uuid string) (*model.Meeting, error) {
	var meeting model.Meeting
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&meeting, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会议 uuid=%s", uuid)
	}
	return &meeting, nil
}

// AddParticipant 将用户加入参与者集合
// INSERT ... ON CONFLICT DO NOTHING：已存在时无副作用，天然幂等
func (r *meetingRepository) AddParticipant(meetingUuid, userUuid string) error {
	participant := model.MeetingParticipant{
		MeetingUuid: meetingUuid,
		UserUuid:    userUuid,
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
		return wrapDBErrorf(err, "添加会议参与者 meeting=%s user=%s", meetingUuid, userUuid)
	}
	return nil
}

// IsParticipant 判断用户是否在参与者集合中
func (r *meetingRepository) IsParticipant(meetingUuid, userUuid string) (bool, error) {
	var participant model.MeetingParticipant
	err := r.db.Where("meeting_uuid = ? AND user_uuid = ?", meetingUuid, userUuid).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapDBErrorf(err, "查询会议参与者 meeting=%s user=%s", meetingUuid, userUuid)
	}
	return true, nil
}

// ListParticipants 获取参与者集合
func (r *meetingRepository) ListParticipants(meetingUuid string) ([]model.MeetingParticipant, error) {
	var participants []model.MeetingParticipant
	if err := r.db.Where("meeting_uuid = ?", meetingUuid).Order("id").Find(&participants).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会议参与者列表 meeting=%s", meetingUuid)
	}
	return participants, nil
}

// AddPendingRequest 将用户加入待审批集合（幂等）
// 重复申请不会产生第二条记录，也不会覆盖已有记录的申请人昵称
func (r *meetingRepository) AddPendingRequest(meetingUuid, userUuid, userName string) error {
	request := model.MeetingPendingRequest{
		MeetingUuid: meetingUuid,
		UserUuid:    userUuid,
		UserName:    userName,
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&request).Error; err != nil {
		return wrapDBErrorf(err, "添加入会申请 meeting=%s user=%s", meetingUuid, userUuid)
	}
	return nil
}

// RemovePendingRequest 将用户移出待审批集合
// 物理删除：软删除墓碑会占住唯一索引、阻止用户日后再次申请
// 返回是否真的删掉了记录，调用方据此区分有效审批和重复审批
func (r *meetingRepository) RemovePendingRequest(meetingUuid, userUuid string) (bool, error) {
	result := r.db.Unscoped().Where("meeting_uuid = ? AND user_uuid = ?", meetingUuid, userUuid).Delete(&model.MeetingPendingRequest{})
	if result.Error != nil {
		return false, wrapDBErrorf(result.Error, "移除入会申请 meeting=%s user=%s", meetingUuid, userUuid)
	}
	return result.RowsAffected > 0, nil
}

// ListPendingRequests 获取待审批集合
func (r *meetingRepository) ListPendingRequests(meetingUuid string) ([]model.MeetingPendingRequest, error) {
	var requests []model.MeetingPendingRequest
	if err := r.db.Where("meeting_uuid = ?", meetingUuid).Order("id").Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询入会申请列表 meeting=%s", meetingUuid)
	}
	return requests, nil
}

// TouchActivity 刷新会议最近活动时间
func (r *meetingRepository) TouchActivity(uuid string) error {
	if err := r.db.Model(&model.Meeting{}).Where("uuid = ?", uuid).UpdateColumn("last_activity_at", time.Now()).Error; err != nil {
		return wrapDBErrorf(err, "刷新会议活动时间 uuid=%s", uuid)
	}
	return nil
}

// SoftDeleteByUuid 软删除会议记录
// uuid 唯一索引上的墓碑保证会议 id 永远不被复用
func (r *meetingRepository) SoftDeleteByUuid(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.Meeting{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会议 uuid=%s", uuid)
	}
	return nil
}

// DeleteChildren 物理删除会议的参与者和待审批记录
func (r *meetingRepository) DeleteChildren(meetingUuid string) error {
	if err := r.db.Unscoped().Where("meeting_uuid = ?", meetingUuid).Delete(&model.MeetingParticipant{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会议参与者 meeting=%s", meetingUuid)
	}
	if err := r.db.Unscoped().Where("meeting_uuid = ?", meetingUuid).Delete(&model.MeetingPendingRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会议入会申请 meeting=%s", meetingUuid)
	}
	return nil
}

// FindIdleSince 查找最近活动时间早于 t 的会议
// last_activity_at 为空的历史数据按创建时间兜底
func (r *meetingRepository) FindIdleSince(t time.Time) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.Where("last_activity_at < ? OR (last_activity_at IS NULL AND created_at < ?)", t, t).Find(&meetings).Error
	if err != nil {
		return nil, wrapDBError(err, "查询闲置会议")
	}
	return meetings, nil
}
