// Package mocks 提供 Repository 接口的内存实现
// 供 Service 层单元测试注入使用，行为与 MySQL 实现对齐：
// 软删除留墓碑、集合写入 add-if-absent、指针 CAS 靠条件写入
package mocks

import (
	"sort"
	"sync"
	"time"

	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/model"
	"lingua_meet_server/pkg/errorx"
)

// ==================== UserRepository ====================

// UserRepo UserRepository 的内存实现
type UserRepo struct {
	mu    sync.Mutex
	users map[string]model.UserInfo
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]model.UserInfo)}
}

// AddUser 测试数据准备
func (r *UserRepo) AddUser(u model.UserInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Uuid] = u
}

func (r *UserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uuid]
	if !ok {
		return nil, errorx.New(errorx.CodeNotFound, "record not found")
	}
	return &u, nil
}

func (r *UserRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.UserInfo, 0, len(uuids))
	for _, uuid := range uuids {
		if u, ok := r.users[uuid]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

// ==================== GroupRepository ====================

// GroupRepo GroupRepository 的内存实现
type GroupRepo struct {
	mu      sync.Mutex
	groups  map[string]*model.GroupInfo
	deleted map[string]bool // 软删除墓碑
}

func NewGroupRepo() *GroupRepo {
	return &GroupRepo{
		groups:  make(map[string]*model.GroupInfo),
		deleted: make(map[string]bool),
	}
}

func (r *GroupRepo) FindByUuid(uuid string) (*model.GroupInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[uuid]
	if !ok || r.deleted[uuid] {
		return nil, errorx.New(errorx.CodeNotFound, "record not found")
	}
	cp := *g
	return &cp, nil
}

func (r *GroupRepo) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.GroupInfo, 0, len(uuids))
	for _, uuid := range uuids {
		if g, ok := r.groups[uuid]; ok && !r.deleted[uuid] {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (r *GroupRepo) CreateGroup(group *model.GroupInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.Uuid]; ok {
		return errorx.New(errorx.CodeDBError, "duplicate group uuid")
	}
	cp := *group
	r.groups[group.Uuid] = &cp
	return nil
}

func (r *GroupRepo) Update(group *model.GroupInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.Uuid]; !ok || r.deleted[group.Uuid] {
		return errorx.New(errorx.CodeNotFound, "record not found")
	}
	cp := *group
	r.groups[group.Uuid] = &cp
	return nil
}

func (r *GroupRepo) SoftDeleteByUuid(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted[uuid] = true
	return nil
}

func (r *GroupRepo) IncrementMemberCount(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[uuid]; ok {
		g.MemberCnt++
	}
	return nil
}

func (r *GroupRepo) DecrementMemberCountBy(uuid string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[uuid]; ok {
		g.MemberCnt -= count
	}
	return nil
}

func (r *GroupRepo) SetActiveMeeting(groupUuid, meetingUuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupUuid]
	if !ok || r.deleted[groupUuid] || g.ActiveMeetingUuid != "" {
		return false, nil
	}
	g.ActiveMeetingUuid = meetingUuid
	return true, nil
}

func (r *GroupRepo) ClearActiveMeeting(groupUuid, meetingUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[groupUuid]; ok && g.ActiveMeetingUuid == meetingUuid {
		g.ActiveMeetingUuid = ""
	}
	return nil
}

// ActiveMeetingOf 测试断言辅助：读当前指针
func (r *GroupRepo) ActiveMeetingOf(groupUuid string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[groupUuid]; ok {
		return g.ActiveMeetingUuid
	}
	return ""
}

// ==================== GroupMemberRepository ====================

// GroupMemberRepo GroupMemberRepository 的内存实现
type GroupMemberRepo struct {
	mu      sync.Mutex
	members map[string]map[string]int8 // groupUuid -> userUuid -> role
}

func NewGroupMemberRepo() *GroupMemberRepo {
	return &GroupMemberRepo{members: make(map[string]map[string]int8)}
}

func (r *GroupMemberRepo) CreateGroupMember(member *model.GroupMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[member.GroupUuid] == nil {
		r.members[member.GroupUuid] = make(map[string]int8)
	}
	if _, ok := r.members[member.GroupUuid][member.UserUuid]; ok {
		return errorx.New(errorx.CodeDBError, "duplicate group member")
	}
	r.members[member.GroupUuid][member.UserUuid] = member.Role
	return nil
}

func (r *GroupMemberRepo) IsMember(groupUuid, userUuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[groupUuid][userUuid]
	return ok, nil
}

func (r *GroupMemberRepo) FindByGroupUuid(groupUuid string) ([]model.GroupMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.GroupMember, 0, len(r.members[groupUuid]))
	for uid, role := range r.members[groupUuid] {
		result = append(result, model.GroupMember{GroupUuid: groupUuid, UserUuid: uid, Role: role})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserUuid < result[j].UserUuid })
	return result, nil
}

func (r *GroupMemberRepo) FindGroupUuidsByUserUuid(userUuid string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []string
	for groupUuid, users := range r.members {
		if _, ok := users[userUuid]; ok {
			result = append(result, groupUuid)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *GroupMemberRepo) DeleteByUserUuids(groupUuid string, userUuids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, uid := range userUuids {
		delete(r.members[groupUuid], uid)
	}
	return nil
}

func (r *GroupMemberRepo) DeleteByGroupUuid(groupUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, groupUuid)
	return nil
}

// ==================== MeetingRepository ====================

// MeetingRepo MeetingRepository 的内存实现
// 行为对齐真实实现：会议行软删除留墓碑（uuid 不可复用），
// 子表集合是幂等的 add-if-absent / remove
type MeetingRepo struct {
	mu           sync.Mutex
	meetings     map[string]*model.Meeting
	deleted      map[string]bool              // 软删除墓碑
	participants map[string]map[string]bool   // meetingUuid -> userUuid
	pending      map[string]map[string]string // meetingUuid -> userUuid -> userName
}

func NewMeetingRepo() *MeetingRepo {
	return &MeetingRepo{
		meetings:     make(map[string]*model.Meeting),
		deleted:      make(map[string]bool),
		participants: make(map[string]map[string]bool),
		pending:      make(map[string]map[string]string),
	}
}

func (r *MeetingRepo) CreateMeeting(meeting *model.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 墓碑也占用 uuid，保证会议 id 不被复用
	if _, ok := r.meetings[meeting.Uuid]; ok {
		return errorx.New(errorx.CodeDBError, "duplicate meeting uuid")
	}
	cp := *meeting
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.meetings[meeting.Uuid] = &cp
	return nil
}

func (r *MeetingRepo) FindByUuid(uuid string) (*model.Meeting, error) {
	return r.find(uuid)
}

func (r *MeetingRepo) FindByUuidForUpdate(uuid string) (*model.Meeting, error) {
	return r.find(uuid)
}

func (r *MeetingRepo) find(uuid string) (*model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[uuid]
	if !ok || r.deleted[uuid] {
		return nil, errorx.New(errorx.CodeNotFound, "record not found")
	}
	cp := *m
	return &cp, nil
}

func (r *MeetingRepo) AddParticipant(meetingUuid, userUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.participants[meetingUuid] == nil {
		r.participants[meetingUuid] = make(map[string]bool)
	}
	r.participants[meetingUuid][userUuid] = true
	return nil
}

func (r *MeetingRepo) IsParticipant(meetingUuid, userUuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participants[meetingUuid][userUuid], nil
}

func (r *MeetingRepo) ListParticipants(meetingUuid string) ([]model.MeetingParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.MeetingParticipant, 0, len(r.participants[meetingUuid]))
	for uid := range r.participants[meetingUuid] {
		result = append(result, model.MeetingParticipant{MeetingUuid: meetingUuid, UserUuid: uid})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserUuid < result[j].UserUuid })
	return result, nil
}

func (r *MeetingRepo) AddPendingRequest(meetingUuid, userUuid, userName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[meetingUuid] == nil {
		r.pending[meetingUuid] = make(map[string]string)
	}
	if _, ok := r.pending[meetingUuid][userUuid]; !ok {
		r.pending[meetingUuid][userUuid] = userName
	}
	return nil
}

func (r *MeetingRepo) RemovePendingRequest(meetingUuid, userUuid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[meetingUuid][userUuid]; !ok {
		return false, nil
	}
	delete(r.pending[meetingUuid], userUuid)
	return true, nil
}

func (r *MeetingRepo) ListPendingRequests(meetingUuid string) ([]model.MeetingPendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.MeetingPendingRequest, 0, len(r.pending[meetingUuid]))
	for uid, name := range r.pending[meetingUuid] {
		result = append(result, model.MeetingPendingRequest{MeetingUuid: meetingUuid, UserUuid: uid, UserName: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserUuid < result[j].UserUuid })
	return result, nil
}

func (r *MeetingRepo) TouchActivity(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[uuid]; ok && !r.deleted[uuid] {
		m.LastActivityAt.Time = time.Now()
		m.LastActivityAt.Valid = true
	}
	return nil
}

func (r *MeetingRepo) SoftDeleteByUuid(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted[uuid] = true
	return nil
}

func (r *MeetingRepo) DeleteChildren(meetingUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, meetingUuid)
	delete(r.pending, meetingUuid)
	return nil
}

func (r *MeetingRepo) FindIdleSince(t time.Time) ([]model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Meeting
	for uuid, m := range r.meetings {
		if r.deleted[uuid] {
			continue
		}
		last := m.CreatedAt
		if m.LastActivityAt.Valid {
			last = m.LastActivityAt.Time
		}
		if last.Before(t) {
			result = append(result, *m)
		}
	}
	return result, nil
}

// SetLastActivity 测试数据准备：把会议活动时间拨回过去
func (r *MeetingRepo) SetLastActivity(uuid string, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meetings[uuid]; ok {
		m.LastActivityAt.Time = t
		m.LastActivityAt.Valid = true
	}
}

// 接口实现检查
var (
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.GroupRepository       = (*GroupRepo)(nil)
	_ repository.GroupMemberRepository = (*GroupMemberRepo)(nil)
	_ repository.MeetingRepository     = (*MeetingRepo)(nil)
)
