package application

import "time"

// ShiftDTO represents a shift in responses
type ShiftDTO struct {
	ShiftID            string       `json:"shiftId"`
	EmployeeID         string       `json:"employeeId"`
	Status             string       `json:"status"`
	StartTime          time.Time    `json:"startTime"`
	StartLocation      GeoPointDTO  `json:"startLocation"`
	EndTime            *time.Time   `json:"endTime,omitempty"`
	EndLocation        *GeoPointDTO `json:"endLocation,omitempty"`
	Breaks             []BreakDTO   `json:"breaks"`
	TotalWorkDuration  float64      `json:"totalWorkDuration"`
	TotalBreakDuration float64      `json:"totalBreakDuration"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// BreakDTO represents a break within a shift
type BreakDTO struct {
	Kind      string      `json:"type"`
	StartTime time.Time   `json:"startTime"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
	Location  GeoPointDTO `json:"location"`
}

// GeoPointDTO represents a GeoJSON point
type GeoPointDTO struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}
