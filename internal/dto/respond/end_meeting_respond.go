package respond

// EndMeetingRespond 结束会议响应
type EndMeetingRespond struct {
	Message string `json:"message"`
}
