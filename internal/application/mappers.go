package application

import "github.com/timeclock-platform/shift-service/internal/domain"

// ToShiftDTO converts a domain Shift to ShiftDTO
func ToShiftDTO(shift *domain.Shift) *ShiftDTO {
	if shift == nil {
		return nil
	}

	breaks := make([]BreakDTO, 0, len(shift.Breaks))
	for _, brk := range shift.Breaks {
		breaks = append(breaks, ToBreakDTO(brk))
	}

	dto := &ShiftDTO{
		ShiftID:            shift.ShiftID,
		EmployeeID:         shift.EmployeeID,
		Status:             string(shift.Status),
		StartTime:          shift.StartTime,
		StartLocation:      ToGeoPointDTO(shift.StartLocation),
		EndTime:            shift.EndTime,
		Breaks:             breaks,
		TotalWorkDuration:  shift.TotalWorkDuration,
		TotalBreakDuration: shift.TotalBreakDuration,
		CreatedAt:          shift.CreatedAt,
		UpdatedAt:          shift.UpdatedAt,
	}

	if shift.EndLocation != nil {
		endLocation := ToGeoPointDTO(*shift.EndLocation)
		dto.EndLocation = &endLocation
	}

	return dto
}

// ToBreakDTO converts a domain Break to BreakDTO
func ToBreakDTO(brk domain.Break) BreakDTO {
	return BreakDTO{
		Kind:      string(brk.Kind),
		StartTime: brk.StartTime,
		EndTime:   brk.EndTime,
		Location:  ToGeoPointDTO(brk.Location),
	}
}

// ToGeoPointDTO converts a domain GeoPoint to GeoPointDTO
func ToGeoPointDTO(point domain.GeoPoint) GeoPointDTO {
	return GeoPointDTO{
		Type:        point.Type,
		Coordinates: point.Coordinates,
	}
}

// ToShiftDTOs converts a slice of domain Shifts to ShiftDTOs
func ToShiftDTOs(shifts []*domain.Shift) []ShiftDTO {
	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, shift := range shifts {
		if dto := ToShiftDTO(shift); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}
