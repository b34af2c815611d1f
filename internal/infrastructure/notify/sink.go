package notify

import (
	"context"

	"github.com/timeclock-platform/shift-service/pkg/cloudevents"
)

// EventSink is the outbound event transport. The instrumented Kafka
// producer satisfies it in production.
type EventSink interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.CloudEvent) error
	PublishBatch(ctx context.Context, topic string, events []*cloudevents.CloudEvent) error
}
