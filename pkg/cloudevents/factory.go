package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for timeclock domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new CloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *CloudEvent {
	return &CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *CloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateShiftStartedEvent creates a ShiftStarted event
func (f *EventFactory) CreateShiftStartedEvent(
	ctx context.Context,
	shiftID string,
	employeeID string,
	startTime time.Time,
	location *GeoPoint,
) *CloudEvent {
	data := ShiftStartedData{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		StartTime:  startTime,
		Location:   location,
	}
	return f.CreateEvent(ctx, ShiftStarted, "shift/"+shiftID, data)
}

// CreateShiftCompletedEvent creates a ShiftCompleted event
func (f *EventFactory) CreateShiftCompletedEvent(
	ctx context.Context,
	shiftID string,
	employeeID string,
	startTime time.Time,
	endTime time.Time,
	totalWorkDuration float64,
	totalBreakDuration float64,
) *CloudEvent {
	data := ShiftCompletedData{
		ShiftID:            shiftID,
		EmployeeID:         employeeID,
		StartTime:          startTime,
		EndTime:            endTime,
		TotalWorkDuration:  totalWorkDuration,
		TotalBreakDuration: totalBreakDuration,
	}
	return f.CreateEvent(ctx, ShiftCompleted, "shift/"+shiftID, data)
}

// CreateBreakStartedEvent creates a BreakStarted event
func (f *EventFactory) CreateBreakStartedEvent(
	ctx context.Context,
	shiftID string,
	employeeID string,
	breakKind string,
	startTime time.Time,
) *CloudEvent {
	data := BreakStartedData{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		BreakKind:  breakKind,
		StartTime:  startTime,
	}
	return f.CreateEvent(ctx, BreakStarted, "shift/"+shiftID, data)
}

// CreateBreakEndedEvent creates a BreakEnded event
func (f *EventFactory) CreateBreakEndedEvent(
	ctx context.Context,
	shiftID string,
	employeeID string,
	breakKind string,
	endTime time.Time,
) *CloudEvent {
	data := BreakEndedData{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		BreakKind:  breakKind,
		EndTime:    endTime,
	}
	return f.CreateEvent(ctx, BreakEnded, "shift/"+shiftID, data)
}
