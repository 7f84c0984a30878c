package service

import (
	"lingua_meet_server/internal/config"
	"lingua_meet_server/internal/dao/mysql/repository"
	"lingua_meet_server/internal/dao/redis"
	"lingua_meet_server/internal/infrastructure/mq"
	"lingua_meet_server/internal/service/group"
	"lingua_meet_server/internal/service/meeting"
)

// Services 聚合所有业务服务实例
// 由 main 显式构造一次，按引用注入到 Handler 层
type Services struct {
	Meeting MeetingService
	Group   GroupService
	// MeetingReaper 空闲会议回收器，随服务启停
	MeetingReaper *meeting.Reaper
}

// NewServices 创建业务服务聚合
func NewServices(
	repos *repository.Repositories,
	cache redis.AsyncCacheService,
	publisher mq.EventPublisher,
	meetingConf *config.MeetingConfig,
) *Services {
	meetingService := meeting.NewMeetingService(repos, publisher)
	return &Services{
		Meeting: meetingService,
		Group:   group.NewGroupService(repos, cache, publisher),
		MeetingReaper: meeting.NewReaper(meetingService, meetingConf),
	}
}
