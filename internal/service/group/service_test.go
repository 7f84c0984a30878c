package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/dao/mysql/repository/mocks"
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/model"
	"lingua_meet_server/pkg/errorx"
)

type testEnv struct {
	svc         *groupService
	userRepo    *mocks.UserRepo
	groupRepo   *mocks.GroupRepo
	memberRepo  *mocks.GroupMemberRepo
	meetingRepo *mocks.MeetingRepo
	publisher   *mocks.RecordingPublisher
}

func newTestEnv() *testEnv {
	userRepo := mocks.NewUserRepo()
	groupRepo := mocks.NewGroupRepo()
	memberRepo := mocks.NewGroupMemberRepo()
	meetingRepo := mocks.NewMeetingRepo()
	publisher := mocks.NewRecordingPublisher()
	repos := repository.NewRepositoriesWith(userRepo, groupRepo, memberRepo, meetingRepo)
	return &testEnv{
		svc:         NewGroupService(repos, mocks.NewMemoryCache(), publisher),
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		meetingRepo: meetingRepo,
		publisher:   publisher,
	}
}

func (e *testEnv) addUsers(uuids ...string) {
	for _, uid := range uuids {
		e.userRepo.AddUser(model.UserInfo{Uuid: uid, Nickname: "user-" + uid})
	}
}

// createGroup 建群并返回群组 uuid
func (e *testEnv) createGroup(t *testing.T, creatorId string, members ...string) string {
	t.Helper()
	e.addUsers(append([]string{creatorId}, members...)...)
	resp, err := e.svc.CreateGroup(creatorId, request.CreateGroupRequest{
		Name:    "英语角",
		Members: members,
	})
	require.NoError(t, err)
	return resp.Uuid
}

func TestCreateGroup(t *testing.T) {
	env := newTestEnv()
	env.addUsers("U1", "U2", "U3")

	// 成员列表含重复和创建者本人，都应被去重
	resp, err := env.svc.CreateGroup("U1", request.CreateGroupRequest{
		Name:    "英语角",
		Members: []string{"U2", "U2", "U1", "U3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "U1", resp.AdminId)
	assert.Equal(t, 3, resp.MemberCnt)
	assert.Len(t, resp.Members, 3)

	isMember, err := env.memberRepo.IsMember(resp.Uuid, "U3")
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestCreateGroup_UnknownMember(t *testing.T) {
	env := newTestEnv()
	env.addUsers("U1")
	_, err := env.svc.CreateGroup("U1", request.CreateGroupRequest{
		Name:    "英语角",
		Members: []string{"U404"},
	})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestGetUserGroups(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")

	list, err := env.svc.GetUserGroups("U2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, groupId, list[0].Uuid)

	// 第二次命中缓存，结果一致
	list, err = env.svc.GetUserGroups("U2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.svc.GetUserGroups("U9")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetGroupDetail_MemberGate(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")

	detail, err := env.svc.GetGroupDetail(groupId, "U2")
	require.NoError(t, err)
	assert.Len(t, detail.Members, 2)

	env.addUsers("U9")
	_, err = env.svc.GetGroupDetail(groupId, "U9")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	_, err = env.svc.GetGroupDetail("no-such-group", "U1")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestUpdateGroupInfo_AdminOnly(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")

	err := env.svc.UpdateGroupInfo(groupId, "U2", request.UpdateGroupInfoRequest{Name: "法语角"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, env.svc.UpdateGroupInfo(groupId, "U1", request.UpdateGroupInfoRequest{Name: "法语角"}))
	g, err := env.groupRepo.FindByUuid(groupId)
	require.NoError(t, err)
	assert.Equal(t, "法语角", g.Name)
}

func TestAddAndRemoveGroupMember(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")
	env.addUsers("U3")

	// 非群主不能加人
	err := env.svc.AddGroupMember(groupId, "U2", "U3")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, env.svc.AddGroupMember(groupId, "U1", "U3"))
	g, err := env.groupRepo.FindByUuid(groupId)
	require.NoError(t, err)
	assert.Equal(t, 3, g.MemberCnt)

	// 重复添加
	err = env.svc.AddGroupMember(groupId, "U1", "U3")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	// 成员自己退群
	require.NoError(t, env.svc.RemoveGroupMember(groupId, "U3", "U3"))
	// 成员不能移除别人
	err = env.svc.RemoveGroupMember(groupId, "U2", "U1")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	// 群主不能被移除
	err = env.svc.RemoveGroupMember(groupId, "U1", "U1")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	// 群主移除成员
	require.NoError(t, env.svc.RemoveGroupMember(groupId, "U1", "U2"))

	g, err = env.groupRepo.FindByUuid(groupId)
	require.NoError(t, err)
	assert.Equal(t, 1, g.MemberCnt)
}

func TestCreateGroupMeeting(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")

	// 非群主禁止发起
	_, err := env.svc.CreateGroupMeeting(groupId, "U2", request.CreateGroupMeetingRequest{HostId: "U2"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	resp, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1", HostName: "Aki"})
	require.NoError(t, err)
	assert.Contains(t, resp.MeetingId, "group-"+groupId+"-")
	assert.Equal(t, resp.MeetingId, env.groupRepo.ActiveMeetingOf(groupId))

	// 会议记录已创建，主持人在参与者集合中
	m, err := env.meetingRepo.FindByUuid(resp.MeetingId)
	require.NoError(t, err)
	assert.True(t, m.IsGroupMeeting)
	assert.Equal(t, groupId, m.GroupUuid)
	isParticipant, err := env.meetingRepo.IsParticipant(resp.MeetingId, "U1")
	require.NoError(t, err)
	assert.True(t, isParticipant)
}

func TestCreateGroupMeeting_Conflict(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1")

	_, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	// 已有进行中的会议，再次发起冲突
	_, err = env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestCreateGroupMeeting_StalePointerSelfHeal(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1")

	// 指针指向一场已经不存在的会议（清理失败留下的失效指针）
	ok, err := env.groupRepo.SetActiveMeeting(groupId, "group-"+groupId+"-0")
	require.NoError(t, err)
	require.True(t, ok)

	resp, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	assert.Equal(t, resp.MeetingId, env.groupRepo.ActiveMeetingOf(groupId))
}

func TestGetGroupMeeting(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")

	// 无进行中会议
	_, err := env.svc.GetGroupMeeting(groupId, "U2")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	created, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	resp, err := env.svc.GetGroupMeeting(groupId, "U2")
	require.NoError(t, err)
	assert.Equal(t, created.MeetingId, resp.MeetingId)

	// 非群成员不可见
	env.addUsers("U9")
	_, err = env.svc.GetGroupMeeting(groupId, "U9")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestGetGroupMeeting_StalePointerLazyClear(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1")

	created, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	// 会议被结束但指针没清掉
	require.NoError(t, env.meetingRepo.SoftDeleteByUuid(created.MeetingId))

	_, err = env.svc.GetGroupMeeting(groupId, "U1")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	// 失效指针被懒清理
	assert.Equal(t, "", env.groupRepo.ActiveMeetingOf(groupId))
}

func TestDeleteGroup(t *testing.T) {
	env := newTestEnv()
	groupId := env.createGroup(t, "U1", "U2")
	created, err := env.svc.CreateGroupMeeting(groupId, "U1", request.CreateGroupMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	// 非群主禁止解散
	err = env.svc.DeleteGroup(groupId, "U2")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, env.svc.DeleteGroup(groupId, "U1"))

	_, err = env.groupRepo.FindByUuid(groupId)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	// 进行中的群组会议随群结束
	_, err = env.meetingRepo.FindByUuid(created.MeetingId)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	// 成员关系清空
	isMember, err := env.memberRepo.IsMember(groupId, "U2")
	require.NoError(t, err)
	assert.False(t, isMember)
}
