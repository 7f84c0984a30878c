// Package mq 提供会议生命周期事件的对外发布
// 会议创建/结束时向 Kafka 写入事件，供通知、统计等下游服务消费
// 发布是尽力而为的：写入失败只记日志，绝不影响会议操作本身
package mq

import (
	"context"
	"encoding/json"
	"time"

	"lingua_meet_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 事件类型
const (
	EventMeetingCreated = "meeting.created" // 会议创建
	EventMeetingEnded   = "meeting.ended"   // 会议结束
)

// MeetingEvent 会议生命周期事件
type MeetingEvent struct {
	Type       string `json:"type"`                // 事件类型
	MeetingId  string `json:"meeting_id"`          // 会议 uuid
	HostId     string `json:"host_id"`             // 主持人 uuid
	GroupId    string `json:"group_id,omitempty"`  // 所属群组 uuid（群组会议）
	Reason     string `json:"reason,omitempty"`    // 结束原因：host / reaper
	OccurredAt int64  `json:"occurred_at"`         // 事件时间（Unix 秒）
}

// EventPublisher 会议事件发布接口
// Service 层依赖此接口；禁用 Kafka 时注入 NopPublisher
type EventPublisher interface {
	// PublishMeetingEvent 发布一条会议生命周期事件
	PublishMeetingEvent(ctx context.Context, event MeetingEvent)
	// Close 关闭底层连接
	Close()
}

// kafkaPublisher EventPublisher 的 Kafka 实现
type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建 Kafka 事件发布器
// 显式构造并由 main 注入，不使用包级单例
func NewKafkaPublisher(conf *config.KafkaConfig) EventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.HostPort),
		Topic:                  conf.MeetingEventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: true,
	}
	return &kafkaPublisher{writer: writer}
}

// PublishMeetingEvent 发布一条会议生命周期事件
// 按会议 uuid 作为消息 key，同一会议的事件落入同一分区保持有序
func (p *kafkaPublisher) PublishMeetingEvent(ctx context.Context, event MeetingEvent) {
	if event.OccurredAt == 0 {
		event.OccurredAt = time.Now().Unix()
	}
	value, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal meeting event error", zap.Error(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.MeetingId),
		Value: value,
	}); err != nil {
		// 尽力而为：只记日志，不向调用方传播
		zap.L().Error("publish meeting event error",
			zap.String("type", event.Type),
			zap.String("meetingId", event.MeetingId),
			zap.Error(err),
		)
	}
}

// Close 关闭底层连接
func (p *kafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

// NopPublisher 空实现，Kafka 未启用时使用
type NopPublisher struct{}

func (NopPublisher) PublishMeetingEvent(ctx context.Context, event MeetingEvent) {}

func (NopPublisher) Close() {}

var (
	_ EventPublisher = (*kafkaPublisher)(nil)
	_ EventPublisher = NopPublisher{}
)
