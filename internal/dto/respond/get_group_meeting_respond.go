package respond

// GetGroupMeetingRespond 查询群组进行中会议响应
type GetGroupMeetingRespond struct {
	MeetingId string `json:"meetingId"`
	GroupId   string `json:"groupId"`
}
