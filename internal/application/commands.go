package application

import "github.com/timeclock-platform/shift-service/internal/domain"

// StartShiftCommand opens a shift for an employee
type StartShiftCommand struct {
	EmployeeID string
	Longitude  float64
	Latitude   float64
}

// EndShiftCommand closes the employee's open shift
type EndShiftCommand struct {
	EmployeeID string
	Longitude  float64
	Latitude   float64
}

// StartBreakCommand starts a break on the open shift
type StartBreakCommand struct {
	EmployeeID string
	Kind       domain.BreakKind
	Longitude  float64
	Latitude   float64
}

// EndBreakCommand ends the break on the open shift
type EndBreakCommand struct {
	EmployeeID string
	Longitude  float64
	Latitude   float64
}

// GetCurrentShiftQuery retrieves the employee's open shift
type GetCurrentShiftQuery struct {
	EmployeeID string
}

// ListShiftsQuery retrieves an employee's shift history
type ListShiftsQuery struct {
	EmployeeID string
}

// ListAllShiftsQuery retrieves shifts across all employees
type ListAllShiftsQuery struct {
	Limit  int
	Offset int
}
