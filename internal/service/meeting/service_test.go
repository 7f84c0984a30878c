package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua_meet_server/internal/config"
	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/dao/mysql/repository/mocks"
	"lingua_meet_server/internal/dto/request"
	"lingua_meet_server/internal/infrastructure/mq"
	"lingua_meet_server/internal/model"
	"lingua_meet_server/pkg/constants"
	"lingua_meet_server/pkg/errorx"
)

type testEnv struct {
	svc         *meetingService
	meetingRepo *mocks.MeetingRepo
	groupRepo   *mocks.GroupRepo
	memberRepo  *mocks.GroupMemberRepo
	publisher   *mocks.RecordingPublisher
}

func newTestEnv() *testEnv {
	meetingRepo := mocks.NewMeetingRepo()
	groupRepo := mocks.NewGroupRepo()
	memberRepo := mocks.NewGroupMemberRepo()
	publisher := mocks.NewRecordingPublisher()
	repos := repository.NewRepositoriesWith(mocks.NewUserRepo(), groupRepo, memberRepo, meetingRepo)
	return &testEnv{
		svc:         NewMeetingService(repos, publisher),
		meetingRepo: meetingRepo,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		publisher:   publisher,
	}
}

// addGroupMeeting 准备一场群组会议及其群成员
func (e *testEnv) addGroupMeeting(t *testing.T, meetingId, groupId, hostId string, members ...string) {
	t.Helper()
	require.NoError(t, e.groupRepo.CreateGroup(&model.GroupInfo{Uuid: groupId, Name: "日语角", AdminId: hostId}))
	require.NoError(t, e.memberRepo.CreateGroupMember(&model.GroupMember{GroupUuid: groupId, UserUuid: hostId, Role: constants.GroupRoleAdmin}))
	for _, uid := range members {
		require.NoError(t, e.memberRepo.CreateGroupMember(&model.GroupMember{GroupUuid: groupId, UserUuid: uid, Role: constants.GroupRoleMember}))
	}
	require.NoError(t, e.meetingRepo.CreateMeeting(&model.Meeting{
		Uuid: meetingId, HostId: hostId, IsGroupMeeting: true, GroupUuid: groupId,
	}))
	require.NoError(t, e.meetingRepo.AddParticipant(meetingId, hostId))
	ok, err := e.groupRepo.SetActiveMeeting(groupId, meetingId)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateMeeting(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1", HostName: "Aki"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.MeetingId)

	// 主持人自动进入参与者集合
	detail, err := env.svc.GetMeetingDetail(resp.MeetingId)
	require.NoError(t, err)
	assert.Equal(t, "U1", detail.HostId)
	assert.Equal(t, []string{"U1"}, detail.Participants)
	assert.Empty(t, detail.PendingRequests)
	assert.False(t, detail.IsGroupMeeting)

	events := env.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, mq.EventMeetingCreated, events[0].Type)
	assert.Equal(t, resp.MeetingId, events[0].MeetingId)
}

func TestGetMeetingDetail_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.GetMeetingDetail("no-such-meeting")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestJoinMeeting_WaitingAndIdempotent(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	// 首次 join 进大厅
	resp, err := env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2", Name: "Ben"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusWaiting, resp.Status)
	require.Len(t, resp.Meeting.PendingRequests, 1)
	assert.Equal(t, "U2", resp.Meeting.PendingRequests[0].UserId)
	assert.Equal(t, "Ben", resp.Meeting.PendingRequests[0].Name)

	// 重试不产生重复条目
	resp, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2", Name: "Ben"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusWaiting, resp.Status)
	assert.Len(t, resp.Meeting.PendingRequests, 1)
	assert.Equal(t, []string{"U1"}, resp.Meeting.Participants)
}

func TestJoinMeeting_HostAlwaysApproved(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	resp, err := env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U1"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusApproved, resp.Status)
	assert.Equal(t, []string{"U1"}, resp.Meeting.Participants)
	assert.Empty(t, resp.Meeting.PendingRequests)
}

func TestJoinMeeting_ApprovedParticipantRejoins(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)
	_, err = env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionApprove})
	require.NoError(t, err)

	// 掉线重连：已获准的参与者直接 approved，不回大厅
	resp, err := env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusApproved, resp.Status)
	assert.Equal(t, []string{"U1", "U2"}, resp.Meeting.Participants)
	assert.Empty(t, resp.Meeting.PendingRequests)
}

func TestJoinMeeting_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.JoinMeeting("missing", request.JoinMeetingRequest{UserId: "U2"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestJoinMeeting_GroupMeetingMembershipGate(t *testing.T) {
	env := newTestEnv()
	env.addGroupMeeting(t, "group-G1-1", "G1", "U1", "U2")

	// 非群成员被拒
	_, err := env.svc.JoinMeeting("group-G1-1", request.JoinMeetingRequest{UserId: "U9"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 群成员正常进大厅
	resp, err := env.svc.JoinMeeting("group-G1-1", request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusWaiting, resp.Status)
	assert.Equal(t, "日语角", resp.Meeting.GroupName)
}

func TestRespondJoinRequest_Approve(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)

	resp, err := env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionApprove})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"U1", "U2"}, resp.Meeting.Participants)
	assert.Empty(t, resp.Meeting.PendingRequests)
}

func TestRespondJoinRequest_RejectThenRejoin(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)

	resp, err := env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionReject})
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, resp.Meeting.Participants)
	assert.Empty(t, resp.Meeting.PendingRequests)

	// 被拒后可以再次申请，重新进入大厅
	joinResp, err := env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)
	assert.Equal(t, constants.JoinStatusWaiting, joinResp.Status)
	assert.Len(t, joinResp.Meeting.PendingRequests, 1)
}

func TestRespondJoinRequest_HostOnly(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)

	_, err = env.svc.RespondJoinRequest(created.MeetingId, "U2", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionApprove})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 申请仍在大厅，状态未被篡改
	detail, err := env.svc.GetMeetingDetail(created.MeetingId)
	require.NoError(t, err)
	assert.Len(t, detail.PendingRequests, 1)
	assert.Equal(t, []string{"U1"}, detail.Participants)
}

func TestRespondJoinRequest_MissingEntryIsNoOp(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)

	// 先拒绝
	_, err = env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionReject})
	require.NoError(t, err)

	// 条目已不在，迟到的 approve 不能把被拒用户放进会议
	resp, err := env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U2", Action: constants.RespondActionApprove})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"U1"}, resp.Meeting.Participants)

	// 从未申请过的用户同理
	resp, err = env.svc.RespondJoinRequest(created.MeetingId, "U1", request.RespondJoinRequest{UserId: "U8", Action: constants.RespondActionApprove})
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, resp.Meeting.Participants)
}

func TestEndMeeting_HostOnly(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	require.NoError(t, err)

	err = env.svc.EndMeeting(created.MeetingId, "U2")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 会议原样存在
	detail, err := env.svc.GetMeetingDetail(created.MeetingId)
	require.NoError(t, err)
	assert.Len(t, detail.PendingRequests, 1)
}

func TestEndMeeting_ByHost(t *testing.T) {
	env := newTestEnv()
	created, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)

	require.NoError(t, env.svc.EndMeeting(created.MeetingId, "U1"))

	// 结束后所有操作都是 NotFound
	_, err = env.svc.GetMeetingDetail(created.MeetingId)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = env.svc.JoinMeeting(created.MeetingId, request.JoinMeetingRequest{UserId: "U2"})
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	err = env.svc.EndMeeting(created.MeetingId, "U1")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 墓碑占住 uuid，会议 id 不可复用
	err = env.meetingRepo.CreateMeeting(&model.Meeting{Uuid: created.MeetingId, HostId: "U9"})
	require.Error(t, err)

	events := env.publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, mq.EventMeetingEnded, events[1].Type)
	assert.Equal(t, "host", events[1].Reason)
}

func TestEndMeeting_GroupMeetingClearsPointer(t *testing.T) {
	env := newTestEnv()
	env.addGroupMeeting(t, "group-G1-1", "G1", "U1", "U2")

	require.NoError(t, env.svc.EndMeeting("group-G1-1", "U1"))
	assert.Equal(t, "", env.groupRepo.ActiveMeetingOf("G1"))
}

func TestReaper_EndsIdleMeetings(t *testing.T) {
	env := newTestEnv()
	idle, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U1"})
	require.NoError(t, err)
	active, err := env.svc.CreateMeeting(request.CreateMeetingRequest{HostId: "U2"})
	require.NoError(t, err)

	env.meetingRepo.SetLastActivity(idle.MeetingId, time.Now().Add(-3*time.Hour))

	reaper := NewReaper(env.svc, &config.MeetingConfig{InactivityMinutes: 120, ReapIntervalMinutes: 10})
	reaper.reapOnce()

	// 空闲会议被回收，活跃会议保留
	_, err = env.svc.GetMeetingDetail(idle.MeetingId)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = env.svc.GetMeetingDetail(active.MeetingId)
	assert.NoError(t, err)

	events := env.publisher.Events()
	last := events[len(events)-1]
	assert.Equal(t, mq.EventMeetingEnded, last.Type)
	assert.Equal(t, idle.MeetingId, last.MeetingId)
	assert.Equal(t, "reaper", last.Reason)
}

func TestReaper_StartStop(t *testing.T) {
	env := newTestEnv()
	reaper := NewReaper(env.svc, &config.MeetingConfig{InactivityMinutes: 120, ReapIntervalMinutes: 10})
	reaper.Start()
	reaper.Stop()
}
