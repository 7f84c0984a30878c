package request

// RespondJoinRequest 主持人审批入会申请请求
// Action 仅允许 approve / reject
type RespondJoinRequest struct {
	UserId string `json:"userId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=approve reject"`
}
