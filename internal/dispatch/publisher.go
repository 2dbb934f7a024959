package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dispatchQueueKey = "dispatch_jobs"
)

// DispatchEvent - задание на рассылку оповещений по одному подтвержденному инциденту
type DispatchEvent struct {
	IncidentID int64     `json:"incident_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// Publisher - интерфейс для постановки заданий рассылки в очередь
type Publisher interface {
	Publish(ctx context.Context, event DispatchEvent) error
}

// RedisPublisher - реализация Publisher, использующая список Redis как очередь
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует задание рассылки в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event DispatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	// Используем LPUSH для добавления задания в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, dispatchQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish dispatch event to Redis: %w", err)
	}
	return nil
}
