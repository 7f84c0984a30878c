// Package group 实现语伴群组业务
// 群组 CRUD、成员管理，以及群组与会议的绑定
// （ActiveMeetingUuid 指针保证一个群同一时刻至多一场进行中的会议）
//
// 群组资料走 Redis 旁路缓存（cache-aside），写操作异步失效；
// 会议状态永远直读数据库
package group

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/dao/redis"
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/dto/respond"
	"lingua_meet_server/internal/infrastructure/mq"
	"lingua_meet_server/internal/model"
	"lingua_meet_server/pkg/constants"
	"lingua_meet_server/pkg/errorx"
	"lingua_meet_server/pkg/util/random"
)

// 缓存 key 前缀
const (
	groupInfoCachePrefix = "group_info_"      // 群组详情（含成员列表）
	groupListCachePrefix = "user_group_list_" // 用户的群组列表
)

// 缓存基础过期时间，实际 TTL 加随机分钟防雪崩
const cacheBaseTTL = 24 * time.Hour

type groupService struct {
	repos     *repository.Repositories
	cache     redis.AsyncCacheService
	publisher mq.EventPublisher
}

// NewGroupService 创建群组服务实例
func NewGroupService(repos *repository.Repositories, cache redis.AsyncCacheService, publisher mq.EventPublisher) *groupService {
	return &groupService{
		repos:     repos,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateGroup 创建群组
// 创建者自动成为群主和首位成员；Members 去重后批量校验存在性
func (g *groupService) CreateGroup(creatorId string, req request.CreateGroupRequest) (*respond.GetGroupInfoRespond, error) {
	// 去重并剔除创建者（创建者单独以群主身份写入）
	memberSet := make(map[string]struct{}, len(req.Members))
	members := make([]string, 0, len(req.Members))
	for _, uid := range req.Members {
		if uid == "" || uid == creatorId {
			continue
		}
		if _, ok := memberSet[uid]; ok {
			continue
		}
		memberSet[uid] = struct{}{}
		members = append(members, uid)
	}

	if len(members) > 0 {
		users, err := g.repos.User.FindByUuids(members)
		if err != nil {
			zap.L().Error("find users for create group error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		if len(users) != len(members) {
			return nil, errorx.New(errorx.CodeUserNotExist, "部分初始成员不存在")
		}
	}

	groupUuid := "G" + random.GetNowAndLenRandomString(11)
	newGroup := &model.GroupInfo{
		Uuid:        groupUuid,
		Name:        req.Name,
		Description: req.Description,
		Language:    req.Language,
		MemberCnt:   len(members) + 1,
		AdminId:     creatorId,
	}
	if req.Avatar != "" {
		newGroup.Avatar = req.Avatar
	}

	if err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Group.CreateGroup(newGroup); err != nil {
			return err
		}
		if err := tx.GroupMember.CreateGroupMember(&model.GroupMember{
			GroupUuid: groupUuid,
			UserUuid:  creatorId,
			Role:      constants.GroupRoleAdmin,
		}); err != nil {
			return err
		}
		for _, uid := range members {
			if err := tx.GroupMember.CreateGroupMember(&model.GroupMember{
				GroupUuid: groupUuid,
				UserUuid:  uid,
				Role:      constants.GroupRoleMember,
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		zap.L().Error("create group error", zap.String("creatorId", creatorId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 异步失效所有初始成员的群组列表缓存
	g.invalidateGroupListCache(append(members, creatorId))
	zap.L().Info("group created", zap.String("groupId", groupUuid), zap.String("adminId", creatorId))
	return g.buildGroupDetail(newGroup)
}

// GetUserGroups 获取用户加入的群组列表（旁路缓存）
func (g *groupService) GetUserGroups(userId string) ([]respond.GetGroupListRespond, error) {
	cacheKey := groupListCachePrefix + userId
	if cached, err := g.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var list []respond.GetGroupListRespond
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return list, nil
		}
		// 缓存内容损坏，回源重建
		zap.L().Warn("group list cache corrupted", zap.String("key", cacheKey))
	}

	groupUuids, err := g.repos.GroupMember.FindGroupUuidsByUserUuid(userId)
	if err != nil {
		zap.L().Error("find user group uuids error", zap.String("userId", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	list := make([]respond.GetGroupListRespond, 0, len(groupUuids))
	if len(groupUuids) > 0 {
		groups, err := g.repos.Group.FindByUuids(groupUuids)
		if err != nil {
			zap.L().Error("find groups error", zap.String("userId", userId), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		for _, info := range groups {
			list = append(list, respond.GetGroupListRespond{
				Uuid:      info.Uuid,
				Name:      info.Name,
				Language:  info.Language,
				Avatar:    info.Avatar,
				MemberCnt: info.MemberCnt,
				AdminId:   info.AdminId,
			})
		}
	}

	g.setCacheAsync(cacheKey, list)
	return list, nil
}

// GetGroupDetail 获取群组详情（仅群成员，旁路缓存）
func (g *groupService) GetGroupDetail(groupId, callerId string) (*respond.GetGroupInfoRespond, error) {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := g.requireMember(groupId, callerId); err != nil {
		return nil, err
	}

	cacheKey := groupInfoCachePrefix + groupId
	if cached, err := g.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var detail respond.GetGroupInfoRespond
		if err := json.Unmarshal([]byte(cached), &detail); err == nil {
			return &detail, nil
		}
		zap.L().Warn("group info cache corrupted", zap.String("key", cacheKey))
	}

	detail, err := g.buildGroupDetail(groupRow)
	if err != nil {
		return nil, err
	}
	g.setCacheAsync(cacheKey, detail)
	return detail, nil
}

// UpdateGroupInfo 更新群组信息（仅群主），空字段不修改
func (g *groupService) UpdateGroupInfo(groupId, callerId string, req request.UpdateGroupInfoRequest) error {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	if callerId != groupRow.AdminId {
		return errorx.New(errorx.CodeForbidden, "只有群主可以修改群组信息")
	}

	if req.Name != "" {
		groupRow.Name = req.Name
	}
	if req.Description != "" {
		groupRow.Description = req.Description
	}
	if req.Language != "" {
		groupRow.Language = req.Language
	}
	if req.Avatar != "" {
		groupRow.Avatar = req.Avatar
	}
	if err := g.repos.Group.Update(groupRow); err != nil {
		zap.L().Error("update group error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	g.invalidateGroupCache(groupId)
	return nil
}

// DeleteGroup 解散群组（仅群主）
// 群成员记录物理删除；进行中的群组会议一并结束
func (g *groupService) DeleteGroup(groupId, callerId string) error {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	if callerId != groupRow.AdminId {
		return errorx.New(errorx.CodeForbidden, "只有群主可以解散群组")
	}

	memberRows, err := g.repos.GroupMember.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error("find group members error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	activeMeeting := groupRow.ActiveMeetingUuid
	if err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.GroupMember.DeleteByGroupUuid(groupId); err != nil {
			return err
		}
		if err := tx.Group.SoftDeleteByUuid(groupId); err != nil {
			return err
		}
		// 进行中的群组会议随群解散
		if activeMeeting != "" {
			if err := tx.Meeting.DeleteChildren(activeMeeting); err != nil {
				return err
			}
			if err := tx.Meeting.SoftDeleteByUuid(activeMeeting); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		zap.L().Error("delete group error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	if activeMeeting != "" {
		g.publisher.PublishMeetingEvent(context.Background(), mq.MeetingEvent{
			Type:      mq.EventMeetingEnded,
			MeetingId: activeMeeting,
			HostId:    groupRow.AdminId,
			GroupId:   groupId,
			Reason:    "group_dissolved",
		})
	}

	memberUuids := make([]string, 0, len(memberRows))
	for _, m := range memberRows {
		memberUuids = append(memberUuids, m.UserUuid)
	}
	g.invalidateGroupCache(groupId)
	g.invalidateGroupListCache(memberUuids)
	zap.L().Info("group dissolved", zap.String("groupId", groupId))
	return nil
}

// AddGroupMember 添加群成员（仅群主）
func (g *groupService) AddGroupMember(groupId, callerId, userId string) error {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	if callerId != groupRow.AdminId {
		return errorx.New(errorx.CodeForbidden, "只有群主可以添加群成员")
	}
	if _, err := g.repos.User.FindByUuid(userId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find user error", zap.String("userId", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	isMember, err := g.repos.GroupMember.IsMember(groupId, userId)
	if err != nil {
		zap.L().Error("check group member error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if isMember {
		return errorx.New(errorx.CodeInvalidParam, "用户已在群组中")
	}

	if err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.GroupMember.CreateGroupMember(&model.GroupMember{
			GroupUuid: groupId,
			UserUuid:  userId,
			Role:      constants.GroupRoleMember,
		}); err != nil {
			return err
		}
		return tx.Group.IncrementMemberCount(groupId)
	}); err != nil {
		zap.L().Error("add group member error", zap.String("groupId", groupId), zap.String("userId", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	g.invalidateGroupCache(groupId)
	g.invalidateGroupListCache([]string{userId})
	return nil
}

// RemoveGroupMember 移除群成员
// 群主可移除任何成员，普通成员只能退出自己；群主不可被移除（先转让或解散）
func (g *groupService) RemoveGroupMember(groupId, callerId, userId string) error {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	if callerId != groupRow.AdminId && callerId != userId {
		return errorx.New(errorx.CodeForbidden, "没有权限移除该成员")
	}
	if userId == groupRow.AdminId {
		return errorx.New(errorx.CodeInvalidParam, "群主不能退出群组，请解散群组")
	}
	isMember, err := g.repos.GroupMember.IsMember(groupId, userId)
	if err != nil {
		zap.L().Error("check group member error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !isMember {
		return errorx.New(errorx.CodeInvalidParam, "用户不在群组中")
	}

	if err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.GroupMember.DeleteByUserUuids(groupId, []string{userId}); err != nil {
			return err
		}
		return tx.Group.DecrementMemberCountBy(groupId, 1)
	}); err != nil {
		zap.L().Error("remove group member error", zap.String("groupId", groupId), zap.String("userId", userId), zap.Error(err))
		return errorx.ErrServerBusy
	}

	g.invalidateGroupCache(groupId)
	g.invalidateGroupListCache([]string{userId})
	return nil
}

// CreateGroupMeeting 创建群组会议（仅群主）
// 会议 id 确定性生成：group-<群组uuid>-<毫秒时间戳>
// 先 CAS 抢占群组的进行中会议指针，再在同一事务里创建会议记录，
// 两个群主并发创建时只有一方能提交，另一方收到 Conflict
func (g *groupService) CreateGroupMeeting(groupId, callerId string, req request.CreateGroupMeetingRequest) (*respond.CreateGroupMeetingRespond, error) {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return nil, err
	}
	if callerId != groupRow.AdminId {
		return nil, errorx.New(errorx.CodeForbidden, "只有群主可以发起群组会议")
	}

	meetingId := fmt.Sprintf("group-%s-%d", groupId, time.Now().UnixMilli())
	err = g.repos.Transaction(func(tx *repository.Repositories) error {
		ok, err := tx.Group.SetActiveMeeting(groupId, meetingId)
		if err != nil {
			return err
		}
		if !ok {
			// 指针已被占用：所指会议仍存在则是真冲突；
			// 会议已结束但指针没清掉（失效指针）则懒清理后重试一次
			cur, err := tx.Group.FindByUuid(groupId)
			if err != nil {
				return err
			}
			stale := cur.ActiveMeetingUuid
			if stale != "" {
				if _, err := tx.Meeting.FindByUuid(stale); err == nil {
					return errorx.New(errorx.CodeConflict, "群组已有进行中的会议")
				} else if !errorx.IsNotFound(err) {
					return err
				}
				if err := tx.Group.ClearActiveMeeting(groupId, stale); err != nil {
					return err
				}
			}
			ok, err = tx.Group.SetActiveMeeting(groupId, meetingId)
			if err != nil {
				return err
			}
			if !ok {
				return errorx.New(errorx.CodeConflict, "群组已有进行中的会议")
			}
		}

		if err := tx.Meeting.CreateMeeting(&model.Meeting{
			Uuid:           meetingId,
			HostId:         req.HostId,
			HostName:       req.HostName,
			IsGroupMeeting: true,
			GroupUuid:      groupId,
			LastActivityAt: sql.NullTime{Time: time.Now(), Valid: true},
		}); err != nil {
			return err
		}
		return tx.Meeting.AddParticipant(meetingId, req.HostId)
	})
	if err != nil {
		if errorx.IsClientError(err) {
			return nil, err
		}
		zap.L().Error("create group meeting error", zap.String("groupId", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	g.publisher.PublishMeetingEvent(context.Background(), mq.MeetingEvent{
		Type:      mq.EventMeetingCreated,
		MeetingId: meetingId,
		HostId:    req.HostId,
		GroupId:   groupId,
	})
	zap.L().Info("group meeting created", zap.String("groupId", groupId), zap.String("meetingId", meetingId))
	return &respond.CreateGroupMeetingRespond{
		MeetingId: meetingId,
		GroupId:   groupId,
		HostId:    req.HostId,
		HostName:  req.HostName,
	}, nil
}

// GetGroupMeeting 查询群组进行中的会议（仅群成员）
// 指针指向已结束的会议时懒清理并按"无进行中会议"处理
func (g *groupService) GetGroupMeeting(groupId, callerId string) (*respond.GetGroupMeetingRespond, error) {
	groupRow, err := g.findGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := g.requireMember(groupId, callerId); err != nil {
		return nil, err
	}

	meetingId := groupRow.ActiveMeetingUuid
	if meetingId == "" {
		return nil, errorx.New(errorx.CodeNotFound, "群组没有进行中的会议")
	}
	if _, err := g.repos.Meeting.FindByUuid(meetingId); err != nil {
		if errorx.IsNotFound(err) {
			// 失效指针，尽力清理后按无会议返回
			if clearErr := g.repos.Group.ClearActiveMeeting(groupId, meetingId); clearErr != nil {
				zap.L().Warn("clear stale active meeting error",
					zap.String("groupId", groupId),
					zap.String("meetingId", meetingId),
					zap.Error(clearErr),
				)
			}
			return nil, errorx.New(errorx.CodeNotFound, "群组没有进行中的会议")
		}
		zap.L().Error("find group meeting error", zap.String("meetingId", meetingId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.GetGroupMeetingRespond{
		MeetingId: meetingId,
		GroupId:   groupId,
	}, nil
}

// findGroup 查询群组，记录不存在（含已解散）统一返回"群组不存在"
func (g *groupService) findGroup(groupId string) (*model.GroupInfo, error) {
	groupRow, err := g.repos.Group.FindByUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		zap.L().Error("find group error", zap.String("groupId", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return groupRow, nil
}

// requireMember 校验调用者是群成员
func (g *groupService) requireMember(groupId, callerId string) error {
	isMember, err := g.repos.GroupMember.IsMember(groupId, callerId)
	if err != nil {
		zap.L().Error("check group member error", zap.String("groupId", groupId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !isMember {
		return errorx.New(errorx.CodeForbidden, "只有群成员可以执行此操作")
	}
	return nil
}

// buildGroupDetail 组装群组详情（成员列表关联用户资料）
func (g *groupService) buildGroupDetail(groupRow *model.GroupInfo) (*respond.GetGroupInfoRespond, error) {
	memberRows, err := g.repos.GroupMember.FindByGroupUuid(groupRow.Uuid)
	if err != nil {
		zap.L().Error("find group members error", zap.String("groupId", groupRow.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	memberUuids := make([]string, 0, len(memberRows))
	for _, m := range memberRows {
		memberUuids = append(memberUuids, m.UserUuid)
	}

	detail := &respond.GetGroupInfoRespond{
		Uuid:        groupRow.Uuid,
		Name:        groupRow.Name,
		Description: groupRow.Description,
		Language:    groupRow.Language,
		Avatar:      groupRow.Avatar,
		MemberCnt:   groupRow.MemberCnt,
		AdminId:     groupRow.AdminId,
		Status:      groupRow.Status,
		Members:     make([]respond.GroupMemberRespond, 0, len(memberUuids)),
	}
	if len(memberUuids) == 0 {
		return detail, nil
	}

	users, err := g.repos.User.FindByUuids(memberUuids)
	if err != nil {
		zap.L().Error("find member users error", zap.String("groupId", groupRow.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for _, u := range users {
		detail.Members = append(detail.Members, respond.GroupMemberRespond{
			UserId:           u.Uuid,
			Nickname:         u.Nickname,
			Avatar:           u.Avatar,
			NativeLanguage:   u.NativeLanguage,
			LearningLanguage: u.LearningLanguage,
		})
	}
	return detail, nil
}

// setCacheAsync 异步写入缓存，失败只记日志
func (g *groupService) setCacheAsync(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Error("marshal cache value error", zap.String("key", key), zap.Error(err))
		return
	}
	g.cache.SubmitTask(func() {
		ttl := cacheBaseTTL + time.Duration(random.GetRandomInt(2))*time.Minute
		if err := g.cache.Set(context.Background(), key, string(data), ttl); err != nil {
			zap.L().Error("set cache error", zap.String("key", key), zap.Error(err))
		}
	})
}

// invalidateGroupCache 异步失效群组详情缓存
func (g *groupService) invalidateGroupCache(groupId string) {
	g.cache.SubmitTask(func() {
		if err := g.cache.Delete(context.Background(), groupInfoCachePrefix+groupId); err != nil {
			zap.L().Error("delete group cache error", zap.String("groupId", groupId), zap.Error(err))
		}
	})
}

// invalidateGroupListCache 异步失效一批用户的群组列表缓存
func (g *groupService) invalidateGroupListCache(userIds []string) {
	if len(userIds) == 0 {
		return
	}
	keys := make([]string, 0, len(userIds))
	for _, uid := range userIds {
		keys = append(keys, groupListCachePrefix+uid)
	}
	g.cache.SubmitTask(func() {
		for _, key := range keys {
			if err := g.cache.Delete(context.Background(), key); err != nil {
				zap.L().Error("delete group list cache error", zap.String("key", key), zap.Error(err))
			}
		}
	})
}
