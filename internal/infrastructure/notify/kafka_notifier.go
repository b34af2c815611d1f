package notify

import (
	"context"
	"fmt"

	"github.com/timeclock-platform/shift-service/internal/domain"
	"github.com/timeclock-platform/shift-service/pkg/cloudevents"
	"github.com/timeclock-platform/shift-service/pkg/kafka"
	"github.com/timeclock-platform/shift-service/pkg/logging"
	"github.com/timeclock-platform/shift-service/pkg/resilience"
)

// KafkaCompletionNotifier publishes shift completion events to Kafka.
// Publishes run through a circuit breaker so a degraded broker fails
// fast instead of holding up request handling.
type KafkaCompletionNotifier struct {
	producer EventSink
	factory  *cloudevents.EventFactory
	breaker  *resilience.CircuitBreaker
	topic    string
	logger   *logging.Logger
}

var _ domain.CompletionNotifier = (*KafkaCompletionNotifier)(nil)

func NewKafkaCompletionNotifier(
	producer EventSink,
	factory *cloudevents.EventFactory,
	breaker *resilience.CircuitBreaker,
	logger *logging.Logger,
) *KafkaCompletionNotifier {
	return &KafkaCompletionNotifier{
		producer: producer,
		factory:  factory,
		breaker:  breaker,
		topic:    kafka.Topics.ShiftEvents,
		logger:   logger,
	}
}

// NotifyShiftCompleted publishes a shift completion event. Callers treat
// failures as non-fatal; the shift is already persisted by the time this
// runs.
func (n *KafkaCompletionNotifier) NotifyShiftCompleted(ctx context.Context, shift *domain.Shift) error {
	if shift.EndTime == nil {
		return fmt.Errorf("shift %s has no end time", shift.ShiftID)
	}

	event := n.factory.CreateShiftCompletedEvent(
		ctx,
		shift.ShiftID,
		shift.EmployeeID,
		shift.StartTime,
		*shift.EndTime,
		shift.TotalWorkDuration,
		shift.TotalBreakDuration,
	)

	_, err := n.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, n.producer.PublishEvent(ctx, n.topic, event)
	})
	if err != nil {
		return fmt.Errorf("failed to publish shift completion event: %w", err)
	}

	n.logger.WithContext(ctx).Info("Published shift completion event",
		"shiftId", shift.ShiftID, "topic", n.topic)
	return nil
}
