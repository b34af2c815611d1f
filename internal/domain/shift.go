package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrShiftAlreadyOpen = errors.New("employee already has an open shift")
	ErrNoActiveShift    = errors.New("no active shift")
	ErrAlreadyOnBreak   = errors.New("shift is already on break")
	ErrNotOnBreak       = errors.New("no shift on break")
	ErrShiftCompleted   = errors.New("shift has already been completed")
	ErrInvalidBreakKind = errors.New("invalid break kind")
)

// nowFunc returns the current time. Tests override it for fixed timestamps.
var nowFunc = time.Now

// ShiftStatus represents the lifecycle state of a shift
type ShiftStatus string

const (
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusOnBreak   ShiftStatus = "on_break"
	ShiftStatusCompleted ShiftStatus = "completed"
)

// BreakKind represents the type of a break
type BreakKind string

const (
	BreakKindLunch BreakKind = "lunch"
	BreakKindShort BreakKind = "short"
)

// ValidBreakKind reports whether kind is a recognized break kind
func ValidBreakKind(kind BreakKind) bool {
	return kind == BreakKindLunch || kind == BreakKindShort
}

// GeoPoint is a GeoJSON Point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint creates a GeoJSON Point from longitude and latitude
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// Break represents a single break taken during a shift.
// Location holds the coordinates reported when the break ended; the
// end-break position overwrites whatever was captured at break start.
type Break struct {
	Kind      BreakKind  `bson:"type"`
	StartTime time.Time  `bson:"startTime"`
	EndTime   *time.Time `bson:"endTime,omitempty"`
	Location  GeoPoint   `bson:"location"`
}

// Open reports whether the break has not yet ended
func (b *Break) Open() bool {
	return b.EndTime == nil
}

// Shift is the aggregate root for the timeclock bounded context
type Shift struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ShiftID    string             `bson:"shiftId"`
	EmployeeID string             `bson:"employeeId"`
	Status     ShiftStatus        `bson:"status"`

	StartTime     time.Time `bson:"startTime"`
	StartLocation GeoPoint  `bson:"startLocation"`

	EndTime     *time.Time `bson:"endTime,omitempty"`
	EndLocation *GeoPoint  `bson:"endLocation,omitempty"`

	Breaks []Break `bson:"breaks"`

	// Open backs the partial unique index that enforces one open
	// shift per employee. True until the shift is completed.
	Open bool `bson:"open"`

	// Set when the shift completes, in fractional minutes.
	TotalWorkDuration  float64 `bson:"totalWorkDuration"`
	TotalBreakDuration float64 `bson:"totalBreakDuration"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`

	DomainEvents []DomainEvent `bson:"-"`
}

// StartShift creates a new active shift for the employee at the given location.
// The one-open-shift-per-employee invariant is enforced by the repository.
func StartShift(shiftID, employeeID string, location GeoPoint) *Shift {
	now := nowFunc()
	s := &Shift{
		ShiftID:       shiftID,
		EmployeeID:    employeeID,
		Status:        ShiftStatusActive,
		StartTime:     now,
		StartLocation: location,
		Breaks:        make([]Break, 0),
		Open:          true,
		CreatedAt:     now,
		UpdatedAt:     now,
		DomainEvents:  make([]DomainEvent, 0),
	}

	s.AddDomainEvent(&ShiftStartedEvent{
		ShiftID:    shiftID,
		EmployeeID: employeeID,
		Location:   location,
		StartedAt:  now,
	})

	return s
}

// StartBreak begins a break of the given kind. Only an active shift can
// start a break.
func (s *Shift) StartBreak(kind BreakKind, location GeoPoint) error {
	if !ValidBreakKind(kind) {
		return ErrInvalidBreakKind
	}
	switch s.Status {
	case ShiftStatusCompleted:
		return ErrNoActiveShift
	case ShiftStatusOnBreak:
		return ErrAlreadyOnBreak
	}

	now := nowFunc()
	s.Breaks = append(s.Breaks, Break{
		Kind:      kind,
		StartTime: now,
		Location:  location,
	})
	s.Status = ShiftStatusOnBreak
	s.UpdatedAt = now

	s.AddDomainEvent(&BreakStartedEvent{
		ShiftID:    s.ShiftID,
		EmployeeID: s.EmployeeID,
		Kind:       kind,
		StartedAt:  now,
	})

	return nil
}

// EndBreak closes the open break. The location reported at end-break
// replaces the break's recorded location.
func (s *Shift) EndBreak(location GeoPoint) error {
	if s.Status != ShiftStatusOnBreak {
		return ErrNotOnBreak
	}

	now := nowFunc()
	br := s.openBreak()
	br.EndTime = &now
	br.Location = location
	s.Status = ShiftStatusActive
	s.UpdatedAt = now

	s.AddDomainEvent(&BreakEndedEvent{
		ShiftID:    s.ShiftID,
		EmployeeID: s.EmployeeID,
		Kind:       br.Kind,
		EndedAt:    now,
	})

	return nil
}

// End completes the shift. A break still open is closed at the shift's
// end time. Totals are recomputed from the final timeline.
func (s *Shift) End(location GeoPoint) error {
	if s.Status == ShiftStatusCompleted {
		return ErrShiftCompleted
	}

	now := nowFunc()
	if br := s.openBreak(); br != nil {
		br.EndTime = &now
	}

	s.EndTime = &now
	s.EndLocation = &location
	s.Status = ShiftStatusCompleted
	s.Open = false
	s.TotalWorkDuration, s.TotalBreakDuration = AggregateDurations(s.StartTime, now, s.Breaks)
	s.UpdatedAt = now

	s.AddDomainEvent(&ShiftCompletedEvent{
		ShiftID:            s.ShiftID,
		EmployeeID:         s.EmployeeID,
		StartedAt:          s.StartTime,
		EndedAt:            now,
		TotalWorkDuration:  s.TotalWorkDuration,
		TotalBreakDuration: s.TotalBreakDuration,
	})

	return nil
}

// openBreak returns the break without an end time, or nil
func (s *Shift) openBreak() *Break {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].EndTime == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

// IsOpen reports whether the shift has not been completed
func (s *Shift) IsOpen() bool {
	return s.Status != ShiftStatusCompleted
}

// AggregateDurations computes the net worked minutes and total break
// minutes for a shift timeline. Durations are fractional minutes. Only
// closed breaks contribute to the break total; an open break counts as
// zero. Values are not clamped, so inconsistent timestamps can yield
// negative results.
func AggregateDurations(start, end time.Time, breaks []Break) (work float64, breakTotal float64) {
	for _, b := range breaks {
		if b.EndTime == nil {
			continue
		}
		breakTotal += b.EndTime.Sub(b.StartTime).Minutes()
	}
	work = end.Sub(start).Minutes() - breakTotal
	return work, breakTotal
}

// AddDomainEvent adds a domain event
func (s *Shift) AddDomainEvent(event DomainEvent) {
	s.DomainEvents = append(s.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (s *Shift) ClearDomainEvents() {
	s.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (s *Shift) GetDomainEvents() []DomainEvent {
	return s.DomainEvents
}
