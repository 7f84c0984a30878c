package respond

// PendingRequestRespond 待审批的入会申请
type PendingRequestRespond struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
}

// MeetingDetailRespond 会议详情（大厅轮询和通话页共用的读模型）
// Participants / PendingRequests 来自集合子表，天然无重复
type MeetingDetailRespond struct {
	MeetingId       string                  `json:"meetingId"`
	HostId          string                  `json:"hostId"`
	HostName        string                  `json:"hostName"`
	Participants    []string                `json:"participants"`
	PendingRequests []PendingRequestRespond `json:"pendingRequests"`
	IsGroupMeeting  bool                    `json:"isGroupMeeting"`
	GroupId         string                  `json:"groupId,omitempty"`
	GroupName       string                  `json:"groupName,omitempty"`
}
