package request

// CreateGroupMeetingRequest 创建群组会议请求
type CreateGroupMeetingRequest struct {
	HostId   string `json:"hostId" binding:"required"`
	HostName string `json:"hostName"`
}
