package request

// AddGroupMemberRequest 添加群成员请求
type AddGroupMemberRequest struct {
	UserId string `json:"userId" binding:"required"`
}
