// Package rtc 封装外部实时音视频服务商的接入
// 本服务不做媒体路由和信令，只负责给客户端签发服务商 Token；
// 客户端拿 Token 直连服务商完成通话和聊天
//
// Provider 在进程启动时显式构造一次，按引用注入到 Handler，
// 不使用包级缓存的客户端单例
package rtc

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lingua_meet_server/internal/config"
	"lingua_meet_server/pkg/errorx"
)

// TokenProvider 服务商 Token 签发接口
type TokenProvider interface {
	// IssueToken 为指定用户签发服务商 Token
	IssueToken(userId string) (string, error)
	// ApiKey 返回服务商 API Key（客户端初始化 SDK 需要）
	ApiKey() string
}

// hmacTokenProvider 基于 HS256 的 Token 签发实现
// 服务商 SDK 的 server-side token 即为 api secret 签名的 JWT
type hmacTokenProvider struct {
	apiKey    string
	apiSecret string
	expiry    time.Duration
}

// NewTokenProvider 创建 Token 签发器
func NewTokenProvider(conf *config.RtcConfig) TokenProvider {
	expiry := time.Duration(conf.TokenExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &hmacTokenProvider{
		apiKey:    conf.ApiKey,
		apiSecret: conf.ApiSecret,
		expiry:    expiry,
	}
}

// IssueToken 为指定用户签发服务商 Token
func (p *hmacTokenProvider) IssueToken(userId string) (string, error) {
	if userId == "" {
		return "", errorx.New(errorx.CodeInvalidParam, "用户 id 不能为空")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userId,
		"iss":     p.apiKey,
		"iat":     now.Unix(),
		"exp":     now.Add(p.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.apiSecret))
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "签发 RTC Token 失败")
	}
	return signed, nil
}

// ApiKey 返回服务商 API Key
func (p *hmacTokenProvider) ApiKey() string {
	return p.apiKey
}

var _ TokenProvider = (*hmacTokenProvider)(nil)
