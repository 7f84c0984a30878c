// 本文件提供基础设施接口（缓存、事件发布）的内存实现，供单元测试注入
package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"lingua_meet_server/internal/dao/redis"
	"lingua_meet_server/internal/infrastructure/mq"
)

// MemoryCache AsyncCacheService 的内存实现
// SubmitTask 同步执行，测试中无需等待异步任务
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *MemoryCache) DeleteByPatterns(ctx context.Context, patterns []string) error {
	for _, p := range patterns {
		if err := c.DeleteByPattern(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (c *MemoryCache) SubmitTask(action func()) {
	action()
}

var _ redis.AsyncCacheService = (*MemoryCache)(nil)

// RecordingPublisher EventPublisher 的内存实现，记录发布过的事件
type RecordingPublisher struct {
	mu     sync.Mutex
	events []mq.MeetingEvent
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) PublishMeetingEvent(ctx context.Context, event mq.MeetingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *RecordingPublisher) Close() {}

// Events 返回已发布事件的快照
func (p *RecordingPublisher) Events() []mq.MeetingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]mq.MeetingEvent, len(p.events))
	copy(out, p.events)
	return out
}

var _ mq.EventPublisher = (*RecordingPublisher)(nil)
