// Package router 提供 HTTP 路由注册
// 本文件定义群组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由（需要认证）
// 包括群组创建、管理、成员管理和群组会议的绑定
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/groups")
	{
		// ===== 群组基本操作 =====
		groupGroup.POST("", rt.handlers.Group.CreateGroup)            // 创建群组
		groupGroup.GET("", rt.handlers.Group.GetMyGroups)             // 我加入的群组列表
		groupGroup.GET("/:groupId", rt.handlers.Group.GetGroupDetail) // 群组详情（仅成员）
		groupGroup.PUT("/:groupId", rt.handlers.Group.UpdateGroupInfo) // 更新群组信息（群主）
		groupGroup.DELETE("/:groupId", rt.handlers.Group.DeleteGroup)  // 解散群组（群主）

		// ===== 群成员管理 =====
		groupGroup.POST("/:groupId/members", rt.handlers.Group.AddGroupMember)              // 添加成员（群主）
		groupGroup.DELETE("/:groupId/members/:userId", rt.handlers.Group.RemoveGroupMember) // 移除成员/退群

		// ===== 群组会议绑定 =====
		groupGroup.POST("/:groupId/meeting", rt.handlers.Group.CreateGroupMeeting) // 发起群组会议（群主）
		groupGroup.GET("/:groupId/meeting", rt.handlers.Group.GetGroupMeeting)     // 查询进行中的群组会议（仅成员）
	}
}
