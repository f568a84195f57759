package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_reporting_system/internal/models"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	incidentQueueKey = "incident_events"
)

type EventType string

const (
	IncidentCreated EventType = "incident.created"
	IncidentUpdated EventType = "incident.updated"
)

// IncidentEvent - событие жизненного цикла отчета для внешних потребителей
type IncidentEvent struct {
	Type      EventType        `json:"type"`
	Incident  *models.Incident `json:"incident"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewIncidentEvent создает событие; у анонимных отчетов владелец вычищается
func NewIncidentEvent(t EventType, incident *models.Incident, at time.Time) IncidentEvent {
	inc := incident.Clone()
	inc.OwnerID = inc.VisibleOwnerID()
	return IncidentEvent{Type: t, Incident: inc, Timestamp: at}
}

// Publisher - интерфейс для публикации событий
type Publisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisPublisher - реализация Publisher, использующая список Redis как очередь
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	// LPUSH в голову списка, потребители забирают с хвоста
	if err := p.redisClient.LPush(ctx, incidentQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}

// NoopPublisher используется, когда публикация событий выключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, IncidentEvent) error { return nil }
