package service

import (
	"github.com/shiftbook/workcal/pkg/entity"
	"github.com/shiftbook/workcal/pkg/timecalc"
)

// dayOffTransition keys the four ways a workday edit can move between the
// working and day-off states.
type dayOffTransition struct {
	oldOff bool
	newOff bool
}

// updateTransitions maps each transition to the month delta it implies.
// work->off subtracts the old contribution only when old hours were positive;
// that asymmetry is carried over from the original counting behavior.
var updateTransitions = map[dayOffTransition]func(oldHours, newHours float64) entity.AggregateDelta{
	{oldOff: false, newOff: false}: func(oldHours, newHours float64) entity.AggregateDelta {
		return entity.AggregateDelta{Hours: timecalc.HoursDiff(newHours, oldHours)}
	},
	{oldOff: false, newOff: true}: func(oldHours, _ float64) entity.AggregateDelta {
		d := entity.AggregateDelta{DaysOff: 1}
		if oldHours > 0 {
			d.Hours = -oldHours
			d.Workdays = -1
		}
		return d
	},
	{oldOff: true, newOff: false}: func(_, newHours float64) entity.AggregateDelta {
		return entity.AggregateDelta{Hours: newHours, Workdays: 1, DaysOff: -1}
	},
	{oldOff: true, newOff: true}: func(_, _ float64) entity.AggregateDelta {
		return entity.AggregateDelta{}
	},
}

// CreateDelta is the month delta implied by adding w.
func CreateDelta(w *entity.Workday) entity.AggregateDelta {
	return w.Contribution()
}

// UpdateDelta is the month delta implied by replacing old with updated.
// Reapplying an identical patch yields a zero delta.
func UpdateDelta(old, updated *entity.Workday) entity.AggregateDelta {
	return updateTransitions[dayOffTransition{
		oldOff: old.IsDayOff,
		newOff: updated.IsDayOff,
	}](old.TotalHours, updated.TotalHours)
}

// RemoveDelta is the month delta implied by deleting w: the exact negation
// of its current contribution.
func RemoveDelta(w *entity.Workday) entity.AggregateDelta {
	return w.Contribution().Negated()
}
