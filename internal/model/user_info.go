// Package model 定义数据库实体模型
// 本文件定义用户信息模型（语言交换用户的基本资料）
// 用户的注册/登录由上游身份服务完成，本服务只读用户资料
package model

import (
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 用户唯一标识
	// 格式：U + 13位时间戳随机字符串，如 "U2024010412345678"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	// Nickname 用户昵称
	Nickname string `gorm:"column:nickname;type:varchar(20);not null;comment:昵称"`

	// Email 邮箱地址（可选）
	Email string `gorm:"column:email;type:char(30);comment:邮箱"`

	// Avatar 用户头像 URL
	Avatar string `gorm:"column:avatar;type:char(255);default:https://cube.elemecdn.com/0/88/03b0d39583f48206768a7534e55bcpng.png;not null;comment:头像"`

	// NativeLanguage 母语
	NativeLanguage string `gorm:"column:native_language;type:varchar(30);comment:母语"`

	// LearningLanguage 正在学习的语言
	LearningLanguage string `gorm:"column:learning_language;type:varchar(30);comment:学习语言"`

	// Status 账号状态
	// 0=正常, 1=禁用
	Status int8 `gorm:"column:status;index;not null;comment:状态，0.正常，1.禁用"`
}

// TableName 指定表名
// GORM 默认会将结构体名转为蛇形命名，这里显式指定
func (UserInfo) TableName() string {
	return "user_info"
}
