package respond

// GetGroupListRespond 我加入的群组列表条目
type GetGroupListRespond struct {
	Uuid      string `json:"uuid"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	Avatar    string `json:"avatar"`
	MemberCnt int    `json:"memberCnt"`
	AdminId   string `json:"adminId"`
}
