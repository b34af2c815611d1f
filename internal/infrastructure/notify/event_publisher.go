package notify

import (
	"context"

	"github.com/timeclock-platform/shift-service/internal/domain"
	"github.com/timeclock-platform/shift-service/pkg/cloudevents"
	"github.com/timeclock-platform/shift-service/pkg/kafka"
	"github.com/timeclock-platform/shift-service/pkg/logging"
)

// KafkaEventPublisher publishes shift domain events as CloudEvents on the
// shift events topic. Consumers are the reporting and timesheet services.
type KafkaEventPublisher struct {
	producer EventSink
	factory  *cloudevents.EventFactory
	topic    string
	logger   *logging.Logger
}

var _ domain.EventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(
	producer EventSink,
	factory *cloudevents.EventFactory,
	logger *logging.Logger,
) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		factory:  factory,
		topic:    kafka.Topics.ShiftEvents,
		logger:   logger,
	}
}

// Publish converts a single domain event to a CloudEvent and publishes it.
// Unknown event types are skipped.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	cloudEvent := p.toCloudEvent(ctx, event)
	if cloudEvent == nil {
		p.logger.Warn("Skipping unknown domain event", "eventType", event.EventType())
		return nil
	}
	return p.producer.PublishEvent(ctx, p.topic, cloudEvent)
}

// PublishAll publishes a batch of domain events in order
func (p *KafkaEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	cloudEvents := make([]*cloudevents.CloudEvent, 0, len(events))
	for _, event := range events {
		if cloudEvent := p.toCloudEvent(ctx, event); cloudEvent != nil {
			cloudEvents = append(cloudEvents, cloudEvent)
		}
	}
	if len(cloudEvents) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.topic, cloudEvents)
}

func (p *KafkaEventPublisher) toCloudEvent(ctx context.Context, event domain.DomainEvent) *cloudevents.CloudEvent {
	switch e := event.(type) {
	case *domain.ShiftStartedEvent:
		location := cloudevents.GeoPoint{Type: e.Location.Type, Coordinates: e.Location.Coordinates}
		return p.factory.CreateShiftStartedEvent(ctx, e.ShiftID, e.EmployeeID, e.StartedAt, &location)
	case *domain.BreakStartedEvent:
		return p.factory.CreateBreakStartedEvent(ctx, e.ShiftID, e.EmployeeID, string(e.Kind), e.StartedAt)
	case *domain.BreakEndedEvent:
		return p.factory.CreateBreakEndedEvent(ctx, e.ShiftID, e.EmployeeID, string(e.Kind), e.EndedAt)
	case *domain.ShiftCompletedEvent:
		return p.factory.CreateShiftCompletedEvent(ctx, e.ShiftID, e.EmployeeID, e.StartedAt, e.EndedAt, e.TotalWorkDuration, e.TotalBreakDuration)
	default:
		return nil
	}
}
