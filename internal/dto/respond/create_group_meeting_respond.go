package respond

// CreateGroupMeetingRespond 创建群组会议响应
type CreateGroupMeetingRespond struct {
	MeetingId string `json:"meetingId"`
	GroupId   string `json:"groupId"`
	HostId    string `json:"hostId"`
	HostName  string `json:"hostName"`
}
