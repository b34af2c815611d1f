package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// ShiftStartedEvent is published when an employee clocks in
type ShiftStartedEvent struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	Location   GeoPoint  `json:"location"`
	StartedAt  time.Time `json:"startedAt"`
}

func (e *ShiftStartedEvent) EventType() string     { return "timeclock.shift.started" }
func (e *ShiftStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// BreakStartedEvent is published when an employee starts a break
type BreakStartedEvent struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	Kind       BreakKind `json:"kind"`
	StartedAt  time.Time `json:"startedAt"`
}

func (e *BreakStartedEvent) EventType() string     { return "timeclock.shift.break-started" }
func (e *BreakStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// BreakEndedEvent is published when an employee returns from a break
type BreakEndedEvent struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	Kind       BreakKind `json:"kind"`
	EndedAt    time.Time `json:"endedAt"`
}

func (e *BreakEndedEvent) EventType() string     { return "timeclock.shift.break-ended" }
func (e *BreakEndedEvent) OccurredAt() time.Time { return e.EndedAt }

// ShiftCompletedEvent is published when an employee clocks out
type ShiftCompletedEvent struct {
	ShiftID            string    `json:"shiftId"`
	EmployeeID         string    `json:"employeeId"`
	StartedAt          time.Time `json:"startedAt"`
	EndedAt            time.Time `json:"endedAt"`
	TotalWorkDuration  float64   `json:"totalWorkDuration"`
	TotalBreakDuration float64   `json:"totalBreakDuration"`
}

func (e *ShiftCompletedEvent) EventType() string     { return "timeclock.shift.completed" }
func (e *ShiftCompletedEvent) OccurredAt() time.Time { return e.EndedAt }
