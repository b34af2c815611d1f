package cloudevents

import (
	"time"
)

// EventType constants for timeclock domain events
const (
	// Shift events
	ShiftStarted   = "timeclock.shift.started"
	ShiftCompleted = "timeclock.shift.completed"

	// Break events
	BreakStarted = "timeclock.shift.break-started"
	BreakEnded   = "timeclock.shift.break-ended"
)

// Source constants for event sources
const (
	SourceShiftService = "/timeclock/shift-service"
)

// CloudEvent represents a CloudEvents v1.0 compliant event
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Correlation extension
	CorrelationID string `json:"correlationid,omitempty"`
}

// GeoPoint is a GeoJSON Point location in [longitude, latitude] order
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ShiftStartedData is the data payload for the ShiftStarted event
type ShiftStartedData struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	StartTime  time.Time `json:"startTime"`
	Location   *GeoPoint `json:"location,omitempty"`
}

// ShiftCompletedData is the data payload for the ShiftCompleted event
type ShiftCompletedData struct {
	ShiftID            string    `json:"shiftId"`
	EmployeeID         string    `json:"employeeId"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	TotalWorkDuration  float64   `json:"totalWorkDuration"`
	TotalBreakDuration float64   `json:"totalBreakDuration"`
}

// BreakStartedData is the data payload for the BreakStarted event
type BreakStartedData struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	BreakKind  string    `json:"breakKind"`
	StartTime  time.Time `json:"startTime"`
}

// BreakEndedData is the data payload for the BreakEnded event
type BreakEndedData struct {
	ShiftID    string    `json:"shiftId"`
	EmployeeID string    `json:"employeeId"`
	BreakKind  string    `json:"breakKind"`
	EndTime    time.Time `json:"endTime"`
}
