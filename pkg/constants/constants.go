package constants

const (
	// 会议准入状态：join 接口返回给客户端的 disposition
	JoinStatusApproved = "approved" // 已获准进入会议
	JoinStatusWaiting  = "waiting"  // 等待主持人审批（大厅状态）

	// 审批动作：respond 接口的 action 取值
	RespondActionApprove = "approve" // 同意入会
	RespondActionReject  = "reject"  // 拒绝入会

	// 群成员角色
	GroupRoleMember = 1 // 普通成员
	GroupRoleAdmin  = 3 // 群主（管理员）
)
