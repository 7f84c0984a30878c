package request

// CreateGroupRequest 创建语伴群组请求
// Members 为初始成员 uuid 列表，创建者自动成为群主和首位成员
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Members     []string `json:"members"`
	Avatar      string   `json:"avatar"`
}
