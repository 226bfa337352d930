package errorvalues_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/pkg/entity"
)

func TestConsistencyErrorMessage(t *testing.T) {
	monthID := uuid.New()
	workdayID := uuid.New()
	cause := errors.New("connection reset")

	t.Run("create reports the month and the delta that landed", func(t *testing.T) {
		err := &errorvalues.ConsistencyError{
			Entity:  "workday",
			MonthID: monthID,
			Op:      "create",
			Delta:   entity.AggregateDelta{Hours: 8, Workdays: 1},
			Cause:   cause,
		}
		msg := err.Error()
		assert.Contains(t, msg, "create workday")
		assert.Contains(t, msg, "month "+monthID.String())
		assert.Contains(t, msg, "hours +8.00")
		assert.Contains(t, msg, "workdays +1")
		assert.Contains(t, msg, "days off +0")
		assert.Contains(t, msg, "connection reset")
	})
	t.Run("delete reports signed negative deltas", func(t *testing.T) {
		err := &errorvalues.ConsistencyError{
			Entity:  "workday",
			ID:      workdayID,
			MonthID: monthID,
			Op:      "delete",
			Delta:   entity.AggregateDelta{Hours: -7.25, Workdays: -1},
			Cause:   cause,
		}
		msg := err.Error()
		assert.Contains(t, msg, workdayID.String())
		assert.Contains(t, msg, "hours -7.25")
		assert.Contains(t, msg, "workdays -1")
	})
	t.Run("unwraps to the cause", func(t *testing.T) {
		err := &errorvalues.ConsistencyError{
			Entity:  "workday",
			MonthID: monthID,
			Op:      "update",
			Delta:   entity.AggregateDelta{DaysOff: 1},
			Cause:   cause,
		}
		assert.ErrorIs(t, err, cause)
	})
}
