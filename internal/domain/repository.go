package domain

import "context"

// ShiftRepository defines the interface for shift persistence
type ShiftRepository interface {
	// Create inserts a new shift. It returns ErrShiftAlreadyOpen when
	// the employee already has an open shift.
	Create(ctx context.Context, shift *Shift) error
	Update(ctx context.Context, shift *Shift) error
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Shift, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]*Shift, error)
	FindAll(ctx context.Context, limit, offset int) ([]*Shift, error)
}

// CompletionNotifier is notified when a shift completes. Delivery is
// best effort; callers log and discard failures.
type CompletionNotifier interface {
	NotifyShiftCompleted(ctx context.Context, shift *Shift) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
