package respond

// RespondJoinRespond 审批入会申请响应
type RespondJoinRespond struct {
	Success bool                  `json:"success"`
	Meeting *MeetingDetailRespond `json:"meeting"`
}
