package request

// JoinMeetingRequest 加入会议请求
// 同一用户重试调用必须安全（幂等），见 meeting service 的准入逻辑
type JoinMeetingRequest struct {
	UserId string `json:"userId" binding:"required"`
	Name   string `json:"name"`
}
