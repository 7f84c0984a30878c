package request

// CreateMeetingRequest 创建临时会议请求
// 使用位置:
//   - internal/handler/meeting_handler.go: CreateMeeting
//   - internal/service/meeting/service.go: CreateMeeting
type CreateMeetingRequest struct {
	HostId   string `json:"hostId" binding:"required"`
	HostName string `json:"hostName"`
}
