package meeting

import (
	"time"

	"go.uber.org/zap"

	"lingua_meet_server/internal/config"
	"lingua_meet_server/pkg/errorx"
)

// Reaper 空闲会议回收器
// 周期扫描最近活动时间早于阈值的会议并强制结束，
// 防止客户端异常退出留下永不结束的会议占住群组会议指针
type Reaper struct {
	svc      *meetingService
	idle     time.Duration
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewReaper 创建空闲会议回收器（需调用 Start 启动）
func NewReaper(svc *meetingService, conf *config.MeetingConfig) *Reaper {
	idle := time.Duration(conf.InactivityMinutes) * time.Minute
	if idle <= 0 {
		idle = 120 * time.Minute
	}
	interval := time.Duration(conf.ReapIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Reaper{
		svc:      svc,
		idle:     idle,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start 启动回收循环（后台 goroutine）
func (r *Reaper) Start() {
	go func() {
		defer close(r.doneChan)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		zap.L().Info("meeting reaper started",
			zap.Duration("idle", r.idle),
			zap.Duration("interval", r.interval),
		)
		for {
			select {
			case <-ticker.C:
				r.reapOnce()
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop 停止回收循环并等待当前轮次结束
func (r *Reaper) Stop() {
	close(r.stopChan)
	<-r.doneChan
	zap.L().Info("meeting reaper stopped")
}

// reapOnce 执行一轮回收
// 逐个结束走正常结束路径（事务 + 行锁），与在线操作竞态时
// 以先拿到锁的一方为准；已被结束的会议按 NotFound 跳过
func (r *Reaper) reapOnce() {
	cutoff := time.Now().Add(-r.idle)
	idleMeetings, err := r.svc.repos.Meeting.FindIdleSince(cutoff)
	if err != nil {
		zap.L().Error("reaper find idle meetings error", zap.Error(err))
		return
	}
	for _, m := range idleMeetings {
		if err := r.svc.endMeeting(m.Uuid, "", endReasonReaper); err != nil {
			if errorx.IsNotFound(err) {
				continue
			}
			zap.L().Error("reaper end meeting error", zap.String("meetingId", m.Uuid), zap.Error(err))
			continue
		}
		zap.L().Info("reaper ended idle meeting", zap.String("meetingId", m.Uuid))
	}
}
