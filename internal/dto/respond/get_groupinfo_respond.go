package respond

// GroupMemberRespond 群成员条目
type GroupMemberRespond struct {
	UserId           string `json:"userId"`
	Nickname         string `json:"nickname"`
	Avatar           string `json:"avatar"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

// GetGroupInfoRespond 群组详情
type GetGroupInfoRespond struct {
	Uuid        string               `json:"uuid"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Language    string               `json:"language"`
	Avatar      string               `json:"avatar"`
	MemberCnt   int                  `json:"memberCnt"`
	AdminId     string               `json:"adminId"`
	Status      int8                 `json:"status"`
	Members     []GroupMemberRespond `json:"members,omitempty"`
	IsDeleted   bool                 `json:"isDeleted"`
}
