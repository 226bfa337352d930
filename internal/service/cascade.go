package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/internal/repository"
	"github.com/shiftbook/workcal/pkg/entity"
	"github.com/shiftbook/workcal/pkg/timecalc"
)

// CascadeCoordinator propagates month-level structural changes down to
// workdays and user deletion down to months. Every step here is an explicit
// repository call; nothing happens as a side effect of a save.
type CascadeCoordinator struct {
	monthsRepo   repository.MonthsRepositoryI
	workdaysRepo repository.WorkdaysRepositoryI
}

func NewCascadeCoordinator(monthsRepo repository.MonthsRepositoryI, workdaysRepo repository.WorkdaysRepositoryI) *CascadeCoordinator {
	if monthsRepo == nil || workdaysRepo == nil {
		log.Fatal("provided nil repos to cascade coordinator")
	}
	return &CascadeCoordinator{
		monthsRepo:   monthsRepo,
		workdaysRepo: workdaysRepo,
	}
}

// MonthDateChanged relabels every workday of the month with the new year and
// month, preserving day-of-month and time-of-day. The totals are untouched:
// a pure date relabeling changes no contribution, so the writes go through
// UpdateSchedule and never through ApplyDelta.
func (c *CascadeCoordinator) MonthDateChanged(ctx context.Context, month *entity.Month, newDate time.Time) error {
	workdays, err := c.workdaysRepo.GetByMonth(ctx, month.ID)
	if err != nil {
		return errors.New("loading workdays for date shift error: " + err.Error())
	}
	for _, w := range workdays {
		date := timecalc.ShiftIntoMonth(w.Date, newDate)
		timeIn := w.TimeIn
		if timeIn != nil {
			shifted := timecalc.ShiftIntoMonth(*timeIn, newDate)
			timeIn = &shifted
		}
		timeOut := w.TimeOut
		if timeOut != nil {
			shifted := timecalc.ShiftIntoMonth(*timeOut, newDate)
			timeOut = &shifted
		}
		if err := c.workdaysRepo.UpdateSchedule(ctx, w.ID, date, timeIn, timeOut); err != nil {
			return errors.New("shifting workday schedule error: " + err.Error())
		}
	}
	return nil
}

// MonthDeleted removes every workday of the month in one sweep. The month's
// totals are being discarded with it, so nothing is reversed per row.
func (c *CascadeCoordinator) MonthDeleted(ctx context.Context, monthID uuid.UUID) error {
	_, err := c.workdaysRepo.DeleteByMonth(ctx, monthID)
	if err != nil {
		return errors.New("cascading workday deletion error: " + err.Error())
	}
	return nil
}

// UserDeleted drives the month-delete cascade for every owned month, then
// removes the month rows themselves.
func (c *CascadeCoordinator) UserDeleted(ctx context.Context, userID uuid.UUID) error {
	months, err := c.monthsRepo.GetByOwner(ctx, userID)
	if err != nil {
		return errors.New("loading months for user deletion error: " + err.Error())
	}
	for _, m := range months {
		if err := c.MonthDeleted(ctx, m.ID); err != nil {
			return err
		}
		if err := c.monthsRepo.Delete(ctx, m.ID); err != nil && !errors.Is(err, errorvalues.ErrMonthNotFound) {
			return errors.New("deleting month during user cascade error: " + err.Error())
		}
	}
	return nil
}
