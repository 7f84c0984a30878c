package respond

// JoinMeetingRespond 加入会议响应
// Status 为 approved（已入会）或 waiting（等待主持人审批）
type JoinMeetingRespond struct {
	Status  string                `json:"status"`
	Meeting *MeetingDetailRespond `json:"meeting"`
}
