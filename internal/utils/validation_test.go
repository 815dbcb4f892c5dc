package utils

import (
	"testing"

	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
	"github.com/stretchr/testify/assert"
)

func validationFixture() (*domain.Schedule, []*domain.Employee) {
	schedule := &domain.Schedule{
		Shifts: []domain.Shift{{ID: 101}, {ID: 102}},
	}
	employees := []*domain.Employee{{ID: 1}, {ID: 2}}
	return schedule, employees
}

func TestValidateSolveResponse(t *testing.T) {
	schedule, employees := validationFixture()
	resp := &solver.SolveResponse{
		Assignments: []domain.PinnedPair{
			{ShiftID: 101, EmployeeID: 1},
			{ShiftID: 101, EmployeeID: 2},
			{ShiftID: 102, EmployeeID: 1},
		},
	}

	assert.NoError(t, ValidateSolveResponse(resp, schedule, employees))
}

func TestValidateSolveResponseUnknownShift(t *testing.T) {
	schedule, employees := validationFixture()
	resp := &solver.SolveResponse{
		Assignments: []domain.PinnedPair{{ShiftID: 999, EmployeeID: 1}},
	}

	assert.Error(t, ValidateSolveResponse(resp, schedule, employees))
}

func TestValidateSolveResponseUnknownEmployee(t *testing.T) {
	schedule, employees := validationFixture()
	resp := &solver.SolveResponse{
		Assignments: []domain.PinnedPair{{ShiftID: 101, EmployeeID: 999}},
	}

	assert.Error(t, ValidateSolveResponse(resp, schedule, employees))
}

func TestValidateSolveResponseDuplicatePair(t *testing.T) {
	schedule, employees := validationFixture()
	resp := &solver.SolveResponse{
		Assignments: []domain.PinnedPair{
			{ShiftID: 101, EmployeeID: 1},
			{ShiftID: 101, EmployeeID: 1},
		},
	}

	assert.Error(t, ValidateSolveResponse(resp, schedule, employees))
}

func TestValidateSolveResponseEmpty(t *testing.T) {
	schedule, employees := validationFixture()

	assert.NoError(t, ValidateSolveResponse(&solver.SolveResponse{}, schedule, employees))
}
