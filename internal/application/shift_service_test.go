package application

import (
	"context"
	"errors"
	"testing"

	"github.com/timeclock-platform/shift-service/internal/domain"
	appErrors "github.com/timeclock-platform/shift-service/pkg/errors"
	"github.com/timeclock-platform/shift-service/pkg/logging"
)

type stubShiftRepo struct {
	CreateFn             func(ctx context.Context, shift *domain.Shift) error
	UpdateFn             func(ctx context.Context, shift *domain.Shift) error
	FindOpenByEmployeeFn func(ctx context.Context, employeeID string) (*domain.Shift, error)
	FindByEmployeeFn     func(ctx context.Context, employeeID string) ([]*domain.Shift, error)
	FindAllFn            func(ctx context.Context, limit, offset int) ([]*domain.Shift, error)
}

func (s *stubShiftRepo) Create(ctx context.Context, shift *domain.Shift) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, shift)
	}
	return nil
}

func (s *stubShiftRepo) Update(ctx context.Context, shift *domain.Shift) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, shift)
	}
	return nil
}

func (s *stubShiftRepo) FindOpenByEmployee(ctx context.Context, employeeID string) (*domain.Shift, error) {
	if s.FindOpenByEmployeeFn != nil {
		return s.FindOpenByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (s *stubShiftRepo) FindByEmployee(ctx context.Context, employeeID string) ([]*domain.Shift, error) {
	if s.FindByEmployeeFn != nil {
		return s.FindByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (s *stubShiftRepo) FindAll(ctx context.Context, limit, offset int) ([]*domain.Shift, error) {
	if s.FindAllFn != nil {
		return s.FindAllFn(ctx, limit, offset)
	}
	return nil, nil
}

type stubNotifier struct {
	NotifyFn func(ctx context.Context, shift *domain.Shift) error
	calls    int
}

func (s *stubNotifier) NotifyShiftCompleted(ctx context.Context, shift *domain.Shift) error {
	s.calls++
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, shift)
	}
	return nil
}

type stubPublisher struct {
	published []domain.DomainEvent
}

func (s *stubPublisher) Publish(_ context.Context, event domain.DomainEvent) error {
	s.published = append(s.published, event)
	return nil
}

func (s *stubPublisher) PublishAll(_ context.Context, events []domain.DomainEvent) error {
	s.published = append(s.published, events...)
	return nil
}

func newTestService(repo domain.ShiftRepository, notifier domain.CompletionNotifier) *ShiftApplicationService {
	logger := logging.New(logging.DefaultConfig("test"))
	return NewShiftApplicationService(repo, notifier, nil, logger)
}

func openShift(t *testing.T) *domain.Shift {
	t.Helper()
	return domain.StartShift("shift-1", "emp-1", domain.NewGeoPoint(-122.4194, 37.7749))
}

func shiftOnBreak(t *testing.T) *domain.Shift {
	t.Helper()
	shift := openShift(t)
	if err := shift.StartBreak(domain.BreakKindLunch, domain.NewGeoPoint(-122.42, 37.77)); err != nil {
		t.Fatalf("unexpected start break err: %v", err)
	}
	return shift
}

func TestShiftApplicationService_StartShift_Success(t *testing.T) {
	var created *domain.Shift
	repo := &stubShiftRepo{
		CreateFn: func(_ context.Context, shift *domain.Shift) error {
			created = shift
			return nil
		},
	}
	service := newTestService(repo, nil)

	dto, err := service.StartShift(context.Background(), StartShiftCommand{
		EmployeeID: "emp-1",
		Longitude:  -122.4194,
		Latitude:   37.7749,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created == nil {
		t.Fatal("expected shift to be created")
	}
	if dto == nil || dto.EmployeeID != "emp-1" || dto.Status != string(domain.ShiftStatusActive) {
		t.Fatalf("unexpected dto: %#v", dto)
	}
	if dto.ShiftID == "" {
		t.Fatal("expected generated shift id")
	}
	if len(dto.StartLocation.Coordinates) != 2 || dto.StartLocation.Coordinates[0] != -122.4194 {
		t.Fatalf("unexpected start location: %#v", dto.StartLocation)
	}
}

func TestShiftApplicationService_StartShift_AlreadyOpen(t *testing.T) {
	repo := &stubShiftRepo{
		CreateFn: func(_ context.Context, _ *domain.Shift) error {
			return domain.ErrShiftAlreadyOpen
		},
	}
	service := newTestService(repo, nil)

	_, err := service.StartShift(context.Background(), StartShiftCommand{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeConflict {
		t.Fatalf("expected conflict AppError, got %#v", err)
	}
}

func TestShiftApplicationService_StartShift_CreateError(t *testing.T) {
	repo := &stubShiftRepo{
		CreateFn: func(_ context.Context, _ *domain.Shift) error {
			return errors.New("write failed")
		},
	}
	service := newTestService(repo, nil)

	dto, err := service.StartShift(context.Background(), StartShiftCommand{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if dto != nil {
		t.Fatalf("expected nil dto, got %#v", dto)
	}
}

func TestShiftApplicationService_EndShift_Success(t *testing.T) {
	shift := openShift(t)
	updated := false
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
		UpdateFn: func(_ context.Context, _ *domain.Shift) error {
			updated = true
			return nil
		},
	}
	notifier := &stubNotifier{}
	service := newTestService(repo, notifier)

	dto, err := service.EndShift(context.Background(), EndShiftCommand{
		EmployeeID: "emp-1",
		Longitude:  -122.41,
		Latitude:   37.78,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !updated {
		t.Fatal("expected shift to be updated")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one completion notification, got %d", notifier.calls)
	}
	if dto == nil || dto.Status != string(domain.ShiftStatusCompleted) || dto.EndTime == nil {
		t.Fatalf("unexpected dto: %#v", dto)
	}
}

func TestShiftApplicationService_EndShift_NoOpenShift(t *testing.T) {
	service := newTestService(&stubShiftRepo{}, nil)

	_, err := service.EndShift(context.Background(), EndShiftCommand{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_EndShift_ConcurrentlyCompleted(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
		UpdateFn: func(_ context.Context, _ *domain.Shift) error {
			return domain.ErrNoActiveShift
		},
	}
	service := newTestService(repo, nil)

	_, err := service.EndShift(context.Background(), EndShiftCommand{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_StartBreak_UpdateConflict(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
		UpdateFn: func(_ context.Context, _ *domain.Shift) error {
			return domain.ErrShiftAlreadyOpen
		},
	}
	service := newTestService(repo, nil)

	_, err := service.StartBreak(context.Background(), StartBreakCommand{
		EmployeeID: "emp-1",
		Kind:       domain.BreakKindLunch,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeConflict {
		t.Fatalf("expected conflict AppError, got %#v", err)
	}
}

func TestShiftApplicationService_EndShift_NotifierFailureSwallowed(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	notifier := &stubNotifier{
		NotifyFn: func(_ context.Context, _ *domain.Shift) error {
			return errors.New("broker unavailable")
		},
	}
	service := newTestService(repo, notifier)

	dto, err := service.EndShift(context.Background(), EndShiftCommand{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("expected nil error despite notifier failure, got %v", err)
	}
	if dto == nil || dto.Status != string(domain.ShiftStatusCompleted) {
		t.Fatalf("unexpected dto: %#v", dto)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification attempt, got %d", notifier.calls)
	}
}

func TestShiftApplicationService_StartBreak_Success(t *testing.T) {
	shift := openShift(t)
	updated := false
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
		UpdateFn: func(_ context.Context, _ *domain.Shift) error {
			updated = true
			return nil
		},
	}
	service := newTestService(repo, nil)

	dto, err := service.StartBreak(context.Background(), StartBreakCommand{
		EmployeeID: "emp-1",
		Kind:       domain.BreakKindLunch,
		Longitude:  -122.42,
		Latitude:   37.77,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !updated {
		t.Fatal("expected shift to be updated")
	}
	if dto == nil || dto.Status != string(domain.ShiftStatusOnBreak) || len(dto.Breaks) != 1 {
		t.Fatalf("unexpected dto: %#v", dto)
	}
}

func TestShiftApplicationService_StartBreak_NoOpenShift(t *testing.T) {
	service := newTestService(&stubShiftRepo{}, nil)

	_, err := service.StartBreak(context.Background(), StartBreakCommand{
		EmployeeID: "emp-1",
		Kind:       domain.BreakKindLunch,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_StartBreak_AlreadyOnBreak(t *testing.T) {
	shift := shiftOnBreak(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.StartBreak(context.Background(), StartBreakCommand{
		EmployeeID: "emp-1",
		Kind:       domain.BreakKindShort,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_StartBreak_InvalidKind(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.StartBreak(context.Background(), StartBreakCommand{
		EmployeeID: "emp-1",
		Kind:       domain.BreakKind("nap"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeValidationError {
		t.Fatalf("expected validation AppError, got %#v", err)
	}
}

func TestShiftApplicationService_EndBreak_Success(t *testing.T) {
	shift := shiftOnBreak(t)
	updated := false
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
		UpdateFn: func(_ context.Context, _ *domain.Shift) error {
			updated = true
			return nil
		},
	}
	service := newTestService(repo, nil)

	dto, err := service.EndBreak(context.Background(), EndBreakCommand{
		EmployeeID: "emp-1",
		Longitude:  -122.43,
		Latitude:   37.76,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !updated {
		t.Fatal("expected shift to be updated")
	}
	if dto == nil || dto.Status != string(domain.ShiftStatusActive) {
		t.Fatalf("unexpected dto: %#v", dto)
	}
	if len(dto.Breaks) != 1 || dto.Breaks[0].EndTime == nil {
		t.Fatalf("expected closed break, got %#v", dto.Breaks)
	}
}

func TestShiftApplicationService_EndBreak_NotOnBreak(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.EndBreak(context.Background(), EndBreakCommand{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_GetCurrentShift_NotFound(t *testing.T) {
	service := newTestService(&stubShiftRepo{}, nil)

	_, err := service.GetCurrentShift(context.Background(), GetCurrentShiftQuery{EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.CodeNotFound {
		t.Fatalf("expected not found AppError, got %#v", err)
	}
}

func TestShiftApplicationService_GetCurrentShift_Success(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil)

	dto, err := service.GetCurrentShift(context.Background(), GetCurrentShiftQuery{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if dto == nil || dto.ShiftID != "shift-1" {
		t.Fatalf("unexpected dto: %#v", dto)
	}
}

func TestShiftApplicationService_ListShifts(t *testing.T) {
	repo := &stubShiftRepo{
		FindByEmployeeFn: func(_ context.Context, employeeID string) ([]*domain.Shift, error) {
			if employeeID != "emp-1" {
				t.Fatalf("unexpected employee id: %s", employeeID)
			}
			return []*domain.Shift{openShift(t)}, nil
		},
	}
	service := newTestService(repo, nil)

	dtos, err := service.ListShifts(context.Background(), ListShiftsQuery{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(dtos) != 1 || dtos[0].EmployeeID != "emp-1" {
		t.Fatalf("unexpected result: %#v", dtos)
	}
}

func TestShiftApplicationService_ListAllShifts_DefaultLimit(t *testing.T) {
	called := false
	repo := &stubShiftRepo{
		FindAllFn: func(_ context.Context, limit, offset int) ([]*domain.Shift, error) {
			called = true
			if limit != 50 || offset != 0 {
				t.Fatalf("unexpected limit/offset: %d/%d", limit, offset)
			}
			return []*domain.Shift{}, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.ListAllShifts(context.Background(), ListAllShiftsQuery{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected FindAll to be called")
	}
}

func TestShiftApplicationService_PublishesDomainEvents(t *testing.T) {
	shift := openShift(t)
	repo := &stubShiftRepo{
		FindOpenByEmployeeFn: func(_ context.Context, _ string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	publisher := &stubPublisher{}
	logger := logging.New(logging.DefaultConfig("test"))
	service := NewShiftApplicationService(repo, nil, publisher, logger)

	shift.ClearDomainEvents()

	_, err := service.EndShift(context.Background(), EndShiftCommand{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	if publisher.published[0].EventType() != "timeclock.shift.completed" {
		t.Fatalf("unexpected event type: %s", publisher.published[0].EventType())
	}
	if len(shift.GetDomainEvents()) != 0 {
		t.Fatal("expected domain events to be cleared after publishing")
	}
}

// memShiftRepo enforces the one-open-shift rule the way the mongo
// repository does with its partial unique index.
type memShiftRepo struct {
	shifts []*domain.Shift
}

func (m *memShiftRepo) Create(_ context.Context, shift *domain.Shift) error {
	for _, existing := range m.shifts {
		if existing.EmployeeID == shift.EmployeeID && existing.Open {
			return domain.ErrShiftAlreadyOpen
		}
	}
	m.shifts = append(m.shifts, shift)
	return nil
}

func (m *memShiftRepo) Update(_ context.Context, shift *domain.Shift) error {
	for i, existing := range m.shifts {
		if existing.ShiftID == shift.ShiftID {
			m.shifts[i] = shift
			return nil
		}
	}
	return errors.New("shift not found")
}

func (m *memShiftRepo) FindOpenByEmployee(_ context.Context, employeeID string) (*domain.Shift, error) {
	for _, existing := range m.shifts {
		if existing.EmployeeID == employeeID && existing.Open {
			return existing, nil
		}
	}
	return nil, nil
}

func (m *memShiftRepo) FindByEmployee(_ context.Context, employeeID string) ([]*domain.Shift, error) {
	var result []*domain.Shift
	for _, existing := range m.shifts {
		if existing.EmployeeID == employeeID {
			result = append(result, existing)
		}
	}
	return result, nil
}

func (m *memShiftRepo) FindAll(_ context.Context, _, _ int) ([]*domain.Shift, error) {
	return m.shifts, nil
}

func TestShiftApplicationService_OneOpenShiftPerEmployee(t *testing.T) {
	repo := &memShiftRepo{}
	service := newTestService(repo, nil)
	ctx := context.Background()

	start := StartShiftCommand{EmployeeID: "emp-1", Longitude: -122.4, Latitude: 37.8}

	if _, err := service.StartShift(ctx, start); err != nil {
		t.Fatalf("first start should succeed: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err := service.StartShift(ctx, start)
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.CodeConflict {
			t.Fatalf("repeat start should conflict, got %#v", err)
		}
	}

	if _, err := service.EndShift(ctx, EndShiftCommand{EmployeeID: "emp-1"}); err != nil {
		t.Fatalf("end shift should succeed: %v", err)
	}

	if _, err := service.StartShift(ctx, start); err != nil {
		t.Fatalf("start after completion should succeed: %v", err)
	}

	dtos, err := service.ListShifts(ctx, ListShiftsQuery{EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected two shifts in history, got %d", len(dtos))
	}
}
