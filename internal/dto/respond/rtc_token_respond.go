package respond

// RtcTokenRespond 实时音视频服务商 Token 响应
// 客户端用 ApiKey 初始化服务商 SDK，用 Token 鉴权
type RtcTokenRespond struct {
	ApiKey string `json:"apiKey"`
	Token  string `json:"token"`
}
