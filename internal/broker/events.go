package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/models"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher emits migration lifecycle events for audit consumers.
// A nil publisher is valid and drops everything; event publishing is an
// observability concern and never affects migration outcomes.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher. producer may be nil.
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		logger:   util.GetLogger(),
	}
}

// Publish emits one migration event keyed by source entity id.
func (ep *EventPublisher) Publish(ctx context.Context, eventType string, sourceID, destID int64, message string) {
	if ep == nil || ep.producer == nil {
		return
	}

	event := &models.MigrationEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		SourceID:  sourceID,
		DestID:    destID,
		Message:   message,
		Timestamp: time.Now(),
	}

	key := fmt.Sprintf("%s-%d", eventType, sourceID)
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		ep.logger.Error("Failed to publish migration event",
			zap.String("event_type", eventType),
			zap.Int64("source_id", sourceID),
			zap.Error(err))
	}
}
