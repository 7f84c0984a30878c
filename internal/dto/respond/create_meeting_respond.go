package respond

// CreateMeetingRespond 创建临时会议响应
type CreateMeetingRespond struct {
	MeetingId string `json:"meetingId"`
}
