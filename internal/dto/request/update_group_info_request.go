package request

// UpdateGroupInfoRequest 更新群组信息请求
// 空字段表示不修改
type UpdateGroupInfoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Avatar      string `json:"avatar"`
}
