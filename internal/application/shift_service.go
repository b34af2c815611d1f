package application

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/timeclock-platform/shift-service/internal/domain"
	"github.com/timeclock-platform/shift-service/pkg/errors"
	"github.com/timeclock-platform/shift-service/pkg/logging"
)

// ShiftApplicationService handles shift lifecycle use cases
type ShiftApplicationService struct {
	repo      domain.ShiftRepository
	notifier  domain.CompletionNotifier
	publisher domain.EventPublisher
	logger    *logging.Logger
}

// NewShiftApplicationService creates a new ShiftApplicationService
func NewShiftApplicationService(
	repo domain.ShiftRepository,
	notifier domain.CompletionNotifier,
	publisher domain.EventPublisher,
	logger *logging.Logger,
) *ShiftApplicationService {
	return &ShiftApplicationService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// StartShift opens a new shift for an employee. An employee can hold at
// most one open shift; a second start is rejected with a conflict.
func (s *ShiftApplicationService) StartShift(ctx context.Context, cmd StartShiftCommand) (*ShiftDTO, error) {
	location := domain.NewGeoPoint(cmd.Longitude, cmd.Latitude)
	shift := domain.StartShift(uuid.New().String(), cmd.EmployeeID, location)

	if err := s.repo.Create(ctx, shift); err != nil {
		if stderrors.Is(err, domain.ErrShiftAlreadyOpen) {
			return nil, errors.MapDomainError(err)
		}
		s.logger.WithError(err).Error("Failed to create shift", "employeeId", cmd.EmployeeID)
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	s.publishEvents(ctx, shift)

	s.logger.Info("Started shift", "employeeId", cmd.EmployeeID, "shiftId", shift.ShiftID)
	return ToShiftDTO(shift), nil
}

// EndShift closes the employee's open shift, computing the work and break
// totals. A completion notification is published best effort; publish
// failures are logged and do not fail the request.
func (s *ShiftApplicationService) EndShift(ctx context.Context, cmd EndShiftCommand) (*ShiftDTO, error) {
	shift, err := s.findOpenShift(ctx, cmd.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := shift.End(domain.NewGeoPoint(cmd.Longitude, cmd.Latitude)); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.updateShift(ctx, shift, cmd.EmployeeID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shift)

	if s.notifier != nil {
		if err := s.notifier.NotifyShiftCompleted(ctx, shift); err != nil {
			s.logger.WithError(err).Warn("Failed to publish shift completion",
				"employeeId", cmd.EmployeeID, "shiftId", shift.ShiftID)
		}
	}

	s.logger.Info("Ended shift",
		"employeeId", cmd.EmployeeID,
		"shiftId", shift.ShiftID,
		"totalWorkDuration", shift.TotalWorkDuration,
		"totalBreakDuration", shift.TotalBreakDuration)
	return ToShiftDTO(shift), nil
}

// StartBreak starts a break on the employee's open shift
func (s *ShiftApplicationService) StartBreak(ctx context.Context, cmd StartBreakCommand) (*ShiftDTO, error) {
	shift, err := s.findOpenShift(ctx, cmd.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := shift.StartBreak(cmd.Kind, domain.NewGeoPoint(cmd.Longitude, cmd.Latitude)); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.updateShift(ctx, shift, cmd.EmployeeID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shift)

	s.logger.Info("Started break", "employeeId", cmd.EmployeeID, "shiftId", shift.ShiftID, "kind", cmd.Kind)
	return ToShiftDTO(shift), nil
}

// EndBreak ends the break on the employee's open shift
func (s *ShiftApplicationService) EndBreak(ctx context.Context, cmd EndBreakCommand) (*ShiftDTO, error) {
	shift, err := s.findOpenShift(ctx, cmd.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := shift.EndBreak(domain.NewGeoPoint(cmd.Longitude, cmd.Latitude)); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.updateShift(ctx, shift, cmd.EmployeeID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shift)

	s.logger.Info("Ended break", "employeeId", cmd.EmployeeID, "shiftId", shift.ShiftID)
	return ToShiftDTO(shift), nil
}

// GetCurrentShift retrieves the employee's open shift
func (s *ShiftApplicationService) GetCurrentShift(ctx context.Context, query GetCurrentShiftQuery) (*ShiftDTO, error) {
	shift, err := s.findOpenShift(ctx, query.EmployeeID)
	if err != nil {
		return nil, err
	}
	return ToShiftDTO(shift), nil
}

// ListShifts retrieves an employee's shift history, newest first
func (s *ShiftApplicationService) ListShifts(ctx context.Context, query ListShiftsQuery) ([]ShiftDTO, error) {
	shifts, err := s.repo.FindByEmployee(ctx, query.EmployeeID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shifts", "employeeId", query.EmployeeID)
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	return ToShiftDTOs(shifts), nil
}

// ListAllShifts retrieves shifts across all employees
func (s *ShiftApplicationService) ListAllShifts(ctx context.Context, query ListAllShiftsQuery) ([]ShiftDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50 // Default limit
	}

	shifts, err := s.repo.FindAll(ctx, limit, query.Offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shifts")
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	return ToShiftDTOs(shifts), nil
}

// publishEvents drains the aggregate's domain events to the event
// publisher. Publishing is best effort; the state change is already
// durable and event consumers tolerate gaps.
func (s *ShiftApplicationService) publishEvents(ctx context.Context, shift *domain.Shift) {
	events := shift.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAll(ctx, events); err != nil {
			s.logger.WithError(err).Warn("Failed to publish domain events", "shiftId", shift.ShiftID)
		}
	}

	shift.ClearDomainEvents()
}

// updateShift persists a lifecycle transition. A shift completed by a
// concurrent request surfaces as ErrNoActiveShift from the repository
// and maps to a client error rather than an internal one.
func (s *ShiftApplicationService) updateShift(ctx context.Context, shift *domain.Shift, employeeID string) error {
	err := s.repo.Update(ctx, shift)
	if err == nil {
		return nil
	}

	s.logger.WithError(err).Error("Failed to update shift", "employeeId", employeeID, "shiftId", shift.ShiftID)
	if stderrors.Is(err, domain.ErrNoActiveShift) || stderrors.Is(err, domain.ErrShiftAlreadyOpen) {
		return errors.MapDomainError(err)
	}
	return fmt.Errorf("failed to update shift: %w", err)
}

func (s *ShiftApplicationService) findOpenShift(ctx context.Context, employeeID string) (*domain.Shift, error) {
	shift, err := s.repo.FindOpenByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get shift", "employeeId", employeeID)
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	if shift == nil {
		return nil, errors.ErrNotFound("shift")
	}

	return shift, nil
}
