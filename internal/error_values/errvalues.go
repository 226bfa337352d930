package errorvalues

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftbook/workcal/pkg/entity"
)

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exist")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrMonthExists   = errors.New("month already exists for this date")
	ErrMonthNotFound = errors.New("month doesn't exist")
	ErrOwnerNotFound = errors.New("owner doesn't exist")
	ErrWrongOwner    = errors.New("entity has different owner")

	ErrWorkdayExists   = errors.New("workday already exists for this date")
	ErrWorkdayNotFound = errors.New("workday doesn't exist")

	// Validation failures on workday times
	ErrMissingTimes = errors.New("must provide time in and time out")
	ErrEqualTimes   = errors.New("time in and time out should not be the same")
)

// ConsistencyError reports that a month's totals were updated but the
// dependent workday write failed (or vice versa), leaving the aggregates out
// of sync with the stored workdays. It is fatal: callers surface it, they do
// not retry it.
type ConsistencyError struct {
	Entity  string
	ID      uuid.UUID
	MonthID uuid.UUID
	Op      string
	Delta   entity.AggregateDelta
	Cause   error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"consistency violation: %s %s %s failed after month %s absorbed delta {hours %+.2f, workdays %+d, days off %+d}: %v",
		e.Op, e.Entity, e.ID, e.MonthID,
		e.Delta.Hours, e.Delta.Workdays, e.Delta.DaysOff, e.Cause,
	)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Cause
}
