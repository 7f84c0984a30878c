// Package meeting 实现会议准入协调器
// 临时会议的创建/结束，以及 join/respond 准入状态机
//
// 并发控制：所有会议状态变更都在事务中先以 SELECT ... FOR UPDATE
// 锁住会议行，同一会议上的并发操作被串行化；集合写入本身又是
// 存储层的 add-if-absent / remove 原子操作，双重保证不会出现
// 重复条目或读改写丢失
package meeting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/dto/respond"
	"lingua_meet_server/internal/infrastructure/mq"
	"lingua_meet_server/internal/model"
	"lingua_meet_server/pkg/constants"
	"lingua_meet_server/pkg/errorx"
)

// 会议结束原因
const (
	endReasonHost   = "host"   // 主持人主动结束
	endReasonReaper = "reaper" // 空闲回收
)

type meetingService struct {
	repos     *repository.Repositories
	publisher mq.EventPublisher
}

// NewMeetingService 创建会议服务实例
func NewMeetingService(repos *repository.Repositories, publisher mq.EventPublisher) *meetingService {
	return &meetingService{
		repos:     repos,
		publisher: publisher,
	}
}

// CreateMeeting 创建临时会议
// 主持人自动进入参与者集合，不经过审批
func (m *meetingService) CreateMeeting(req request.CreateMeetingRequest) (*respond.CreateMeetingRespond, error) {
	meetingId := uuid.NewString()
	newMeeting := &model.Meeting{
		Uuid:           meetingId,
		HostId:         req.HostId,
		HostName:       req.HostName,
		IsGroupMeeting: false,
		LastActivityAt: nowNullTime(),
	}

	if err := m.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Meeting.CreateMeeting(newMeeting); err != nil {
			return err
		}
		return tx.Meeting.AddParticipant(meetingId, req.HostId)
	}); err != nil {
		zap.L().Error("create meeting error", zap.String("hostId", req.HostId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	m.publisher.PublishMeetingEvent(context.Background(), mq.MeetingEvent{
		Type:      mq.EventMeetingCreated,
		MeetingId: meetingId,
		HostId:    req.HostId,
	})
	zap.L().Info("meeting created", zap.String("meetingId", meetingId), zap.String("hostId", req.HostId))
	return &respond.CreateMeetingRespond{MeetingId: meetingId}, nil
}

// GetMeetingDetail 获取会议详情
// 纯读操作，不刷新活动时间（避免大厅轮询让空闲会议永生）
func (m *meetingService) GetMeetingDetail(meetingId string) (*respond.MeetingDetailRespond, error) {
	meetingRow, err := m.repos.Meeting.FindByUuid(meetingId)
	if err != nil {
		return nil, meetingNotFoundOr(err)
	}
	return m.buildMeetingDetail(m.repos, meetingRow)
}

// JoinMeeting 请求加入会议
// 准入规则（按顺序）：
//  1. 会议不存在（含已结束）返回 NotFound
//  2. 群组会议要求申请人是群成员，否则 Forbidden
//  3. 主持人和已在参与者集合中的用户直接 approved（重连场景）
//  4. 其余进入待审批集合，返回 waiting
func (m *meetingService) JoinMeeting(meetingId string, req request.JoinMeetingRequest) (*respond.JoinMeetingRespond, error) {
	var status string
	err := m.repos.Transaction(func(tx *repository.Repositories) error {
		meetingRow, err := tx.Meeting.FindByUuidForUpdate(meetingId)
		if err != nil {
			return meetingNotFoundOr(err)
		}

		if meetingRow.IsGroupMeeting {
			isMember, err := tx.GroupMember.IsMember(meetingRow.GroupUuid, req.UserId)
			if err != nil {
				return err
			}
			if !isMember {
				return errorx.New(errorx.CodeForbidden, "只有群成员可以加入群组会议")
			}
		}

		if req.UserId == meetingRow.HostId {
			// 主持人重连，保证始终在参与者集合中
			status = constants.JoinStatusApproved
			if err := tx.Meeting.AddParticipant(meetingId, req.UserId); err != nil {
				return err
			}
			return tx.Meeting.TouchActivity(meetingId)
		}

		isParticipant, err := tx.Meeting.IsParticipant(meetingId, req.UserId)
		if err != nil {
			return err
		}
		if isParticipant {
			status = constants.JoinStatusApproved
			return tx.Meeting.TouchActivity(meetingId)
		}

		// add-if-absent：重复申请不会产生第二条待审批记录
		status = constants.JoinStatusWaiting
		if err := tx.Meeting.AddPendingRequest(meetingId, req.UserId, req.Name); err != nil {
			return err
		}
		return tx.Meeting.TouchActivity(meetingId)
	})
	if err != nil {
		if errorx.IsClientError(err) {
			return nil, err
		}
		zap.L().Error("join meeting error", zap.String("meetingId", meetingId), zap.String("userId", req.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	detail, err := m.detailByUuid(meetingId)
	if err != nil {
		return nil, err
	}
	return &respond.JoinMeetingRespond{Status: status, Meeting: detail}, nil
}

// RespondJoinRequest 主持人审批入会申请
// 只处理仍在待审批集合中的申请：条目先被原子移除，
// 审批竞态（两次 approve、approve 撞 reject）最多生效一次
func (m *meetingService) RespondJoinRequest(meetingId, callerId string, req request.RespondJoinRequest) (*respond.RespondJoinRespond, error) {
	err := m.repos.Transaction(func(tx *repository.Repositories) error {
		meetingRow, err := tx.Meeting.FindByUuidForUpdate(meetingId)
		if err != nil {
			return meetingNotFoundOr(err)
		}
		if callerId != meetingRow.HostId {
			return errorx.New(errorx.CodeForbidden, "只有主持人可以审批入会申请")
		}

		// 无论批准还是拒绝都先移除待审批条目
		// 条目已不存在（重复审批、approve 撞 reject）时整个操作是 no-op
		removed, err := tx.Meeting.RemovePendingRequest(meetingId, req.UserId)
		if err != nil {
			return err
		}
		if removed && req.Action == constants.RespondActionApprove {
			if err := tx.Meeting.AddParticipant(meetingId, req.UserId); err != nil {
				return err
			}
		}
		return tx.Meeting.TouchActivity(meetingId)
	})
	if err != nil {
		if errorx.IsClientError(err) {
			return nil, err
		}
		zap.L().Error("respond join request error", zap.String("meetingId", meetingId), zap.String("userId", req.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	detail, err := m.detailByUuid(meetingId)
	if err != nil {
		return nil, err
	}
	return &respond.RespondJoinRespond{Success: true, Meeting: detail}, nil
}

// EndMeeting 主持人结束会议
func (m *meetingService) EndMeeting(meetingId, callerId string) error {
	return m.endMeeting(meetingId, callerId, endReasonHost)
}

// endMeeting 结束会议的公共路径
// callerId 为空时跳过主持人校验（reaper 内部调用）
func (m *meetingService) endMeeting(meetingId, callerId, reason string) error {
	var ended *model.Meeting
	err := m.repos.Transaction(func(tx *repository.Repositories) error {
		meetingRow, err := tx.Meeting.FindByUuidForUpdate(meetingId)
		if err != nil {
			return meetingNotFoundOr(err)
		}
		if callerId != "" && callerId != meetingRow.HostId {
			return errorx.New(errorx.CodeForbidden, "只有主持人可以结束会议")
		}

		// 子表物理删除，会议行软删除留墓碑防 id 复用
		if err := tx.Meeting.DeleteChildren(meetingId); err != nil {
			return err
		}
		if err := tx.Meeting.SoftDeleteByUuid(meetingId); err != nil {
			return err
		}
		ended = meetingRow
		return nil
	})
	if err != nil {
		if errorx.IsClientError(err) {
			return err
		}
		zap.L().Error("end meeting error", zap.String("meetingId", meetingId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	// 群组会议清空进行中会议指针
	// 尽力而为：清空失败不回滚会议结束，读路径会懒修复失效指针
	if ended.IsGroupMeeting && ended.GroupUuid != "" {
		if err := m.repos.Group.ClearActiveMeeting(ended.GroupUuid, meetingId); err != nil {
			zap.L().Warn("clear group active meeting error",
				zap.String("groupId", ended.GroupUuid),
				zap.String("meetingId", meetingId),
				zap.Error(err),
			)
		}
	}

	m.publisher.PublishMeetingEvent(context.Background(), mq.MeetingEvent{
		Type:      mq.EventMeetingEnded,
		MeetingId: meetingId,
		HostId:    ended.HostId,
		GroupId:   ended.GroupUuid,
		Reason:    reason,
	})
	zap.L().Info("meeting ended", zap.String("meetingId", meetingId), zap.String("reason", reason))
	return nil
}

// detailByUuid 查询会议并组装详情
func (m *meetingService) detailByUuid(meetingId string) (*respond.MeetingDetailRespond, error) {
	meetingRow, err := m.repos.Meeting.FindByUuid(meetingId)
	if err != nil {
		return nil, meetingNotFoundOr(err)
	}
	return m.buildMeetingDetail(m.repos, meetingRow)
}

// buildMeetingDetail 组装会议详情读模型
func (m *meetingService) buildMeetingDetail(repos *repository.Repositories, meetingRow *model.Meeting) (*respond.MeetingDetailRespond, error) {
	participants, err := repos.Meeting.ListParticipants(meetingRow.Uuid)
	if err != nil {
		zap.L().Error("list participants error", zap.String("meetingId", meetingRow.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	pending, err := repos.Meeting.ListPendingRequests(meetingRow.Uuid)
	if err != nil {
		zap.L().Error("list pending requests error", zap.String("meetingId", meetingRow.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	detail := &respond.MeetingDetailRespond{
		MeetingId:       meetingRow.Uuid,
		HostId:          meetingRow.HostId,
		HostName:        meetingRow.HostName,
		Participants:    make([]string, 0, len(participants)),
		PendingRequests: make([]respond.PendingRequestRespond, 0, len(pending)),
		IsGroupMeeting:  meetingRow.IsGroupMeeting,
		GroupId:         meetingRow.GroupUuid,
	}
	for _, p := range participants {
		detail.Participants = append(detail.Participants, p.UserUuid)
	}
	for _, p := range pending {
		detail.PendingRequests = append(detail.PendingRequests, respond.PendingRequestRespond{
			UserId: p.UserUuid,
			Name:   p.UserName,
		})
	}

	// 群组名仅用于展示，查不到不视为错误
	if meetingRow.IsGroupMeeting && meetingRow.GroupUuid != "" {
		if groupRow, err := repos.Group.FindByUuid(meetingRow.GroupUuid); err == nil {
			detail.GroupName = groupRow.Name
		} else if !errorx.IsNotFound(err) {
			zap.L().Warn("find group for meeting detail error", zap.String("groupId", meetingRow.GroupUuid), zap.Error(err))
		}
	}
	return detail, nil
}

// meetingNotFoundOr 将查询错误归一化
// 记录不存在（含软删除的已结束会议）统一返回"会议不存在"
func meetingNotFoundOr(err error) error {
	if errorx.IsNotFound(err) {
		return errorx.New(errorx.CodeNotFound, "会议不存在或已结束")
	}
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		return err
	}
	return errorx.Wrap(err, errorx.CodeDBError, "查询会议失败")
}

func nowNullTime() sql.NullTime {
	return sql.NullTime{Time: time.Now(), Valid: true}
}
