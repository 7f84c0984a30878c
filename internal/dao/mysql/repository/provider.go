// Package repository 提供 Repository 层聚合与构造
package repository

import (
	"gorm.io/gorm"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB              // GORM 数据库实例
	User        UserRepository        // 用户 Repository
	Group       GroupRepository       // 群组 Repository
	GroupMember GroupMemberRepository // 群成员 Repository
	Meeting     MeetingRepository     // 会议 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
// 返回: Repositories 聚合指针
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Group:       NewGroupRepository(db),
		GroupMember: NewGroupMemberRepository(db),
		Meeting:     NewMeetingRepository(db),
	}
}

// NewRepositoriesWith 使用外部给定的 Repository 实现构造聚合
// 供单元测试注入内存实现；此时 Transaction 退化为直接执行
func NewRepositoriesWith(user UserRepository, group GroupRepository, member GroupMemberRepository, meeting MeetingRepository) *Repositories {
	return &Repositories{
		User:        user,
		Group:       group,
		GroupMember: member,
		Meeting:     meeting,
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	// 无数据库句柄时（内存实现）直接执行，不具备回滚能力
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
