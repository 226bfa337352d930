package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/internal/repository"
	"github.com/shiftbook/workcal/pkg/entity"
	"github.com/shiftbook/workcal/pkg/timecalc"
)

// WorkdayService is the workday lifecycle manager. Each operation validates,
// derives the month delta, applies it through the ledger's single ApplyDelta
// path, and only then persists the workday itself. A workday write failing
// after its delta already landed is reported as a ConsistencyError, never
// retried or swallowed.
type WorkdayService struct {
	workdaysRepo repository.WorkdaysRepositoryI
	monthsRepo   repository.MonthsRepositoryI
}

func NewWorkdayService(workdaysRepo repository.WorkdaysRepositoryI, monthsRepo repository.MonthsRepositoryI) *WorkdayService {
	if workdaysRepo == nil || monthsRepo == nil {
		log.Fatal("provided nil repos to workday service")
	}
	return &WorkdayService{
		workdaysRepo: workdaysRepo,
		monthsRepo:   monthsRepo,
	}
}

func (ws *WorkdayService) ownedMonth(ctx context.Context, monthID, ownerID uuid.UUID) (*entity.Month, error) {
	month, err := ws.monthsRepo.GetByID(ctx, monthID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMonthNotFound) {
			return nil, err
		}
		return nil, errors.New("months repository error: " + err.Error())
	}
	if month.OwnerID != ownerID {
		return nil, errorvalues.ErrWrongOwner
	}
	return month, nil
}

// checkTimes enforces the day-off invariant: a working day needs two distinct
// clock values, a day off needs none.
func checkTimes(isDayOff bool, timeIn, timeOut *time.Time) error {
	if isDayOff {
		return nil
	}
	if timeIn == nil || timeOut == nil {
		return errorvalues.ErrMissingTimes
	}
	if timeIn.Equal(*timeOut) {
		return errorvalues.ErrEqualTimes
	}
	return nil
}

func (ws *WorkdayService) Create(ctx context.Context, ownerID uuid.UUID, req *CreateWorkdayRequest) (*entity.Workday, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	month, err := ws.ownedMonth(ctx, req.MonthID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := checkTimes(req.IsDayOff, req.TimeIn, req.TimeOut); err != nil {
		return nil, err
	}
	workday := entity.Workday{
		MonthID:  month.ID,
		Date:     timecalc.StartOfDay(req.Date),
		Note:     req.Note,
		IsDayOff: req.IsDayOff,
	}
	if !req.IsDayOff {
		workday.TimeIn = req.TimeIn
		workday.TimeOut = req.TimeOut
		workday.TotalHours = timecalc.ElapsedHours(*req.TimeIn, *req.TimeOut)
	}
	// Friendly duplicate answer before any state moves. The unique constraint
	// below remains the authoritative check for the insert race
	exists, err := ws.workdaysRepo.ExistsByMonthAndDate(ctx, month.ID, workday.Date)
	if err != nil {
		return nil, errors.New("workdays repository error: " + err.Error())
	}
	if exists {
		return nil, errorvalues.ErrWorkdayExists
	}

	delta := CreateDelta(&workday)
	if err := ws.monthsRepo.ApplyDelta(ctx, month.ID, delta); err != nil {
		if errors.Is(err, errorvalues.ErrMonthNotFound) {
			return nil, err
		}
		return nil, errors.New("months repository error: " + err.Error())
	}
	id, err := ws.workdaysRepo.Create(ctx, &workday)
	if err != nil {
		// The month already absorbed the delta; this divergence is fatal
		return nil, &errorvalues.ConsistencyError{
			Entity:  "workday",
			MonthID: month.ID,
			Op:      "create",
			Delta:   delta,
			Cause:   err,
		}
	}
	workday.ID = id
	return &workday, nil
}

func (ws *WorkdayService) Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error) {
	workday, err := ws.workdaysRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWorkdayNotFound) {
			return nil, err
		}
		return nil, errors.New("workdays repository error: " + err.Error())
	}
	if _, err := ws.ownedMonth(ctx, workday.MonthID, ownerID); err != nil {
		return nil, err
	}
	return workday, nil
}

func (ws *WorkdayService) ListByMonth(ctx context.Context, monthID, ownerID uuid.UUID) ([]*entity.Workday, error) {
	if _, err := ws.ownedMonth(ctx, monthID, ownerID); err != nil {
		return nil, err
	}
	workdays, err := ws.workdaysRepo.GetByMonth(ctx, monthID)
	if err != nil {
		return nil, errors.New("workdays repository error: " + err.Error())
	}
	return workdays, nil
}

func (ws *WorkdayService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Workday, error) {
	months, err := ws.monthsRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.New("months repository error: " + err.Error())
	}
	workdays := make([]*entity.Workday, 0)
	for _, m := range months {
		monthWorkdays, err := ws.workdaysRepo.GetByMonth(ctx, m.ID)
		if err != nil {
			return nil, errors.New("workdays repository error: " + err.Error())
		}
		workdays = append(workdays, monthWorkdays...)
	}
	return workdays, nil
}

func (ws *WorkdayService) Update(ctx context.Context, id, ownerID uuid.UUID, patch *WorkdayPatch) (*entity.Workday, error) {
	err := validate.Struct(*patch)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	old, err := ws.workdaysRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWorkdayNotFound) {
			return nil, err
		}
		return nil, errors.New("workdays repository error: " + err.Error())
	}
	month, err := ws.ownedMonth(ctx, old.MonthID, ownerID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if patch.Date != nil {
		updated.Date = timecalc.StartOfDay(*patch.Date)
	}
	if patch.Note != nil {
		updated.Note = *patch.Note
	}
	if patch.IsDayOff != nil {
		updated.IsDayOff = *patch.IsDayOff
	}
	if patch.TimeIn != nil {
		updated.TimeIn = patch.TimeIn
	}
	if patch.TimeOut != nil {
		updated.TimeOut = patch.TimeOut
	}
	if updated.IsDayOff {
		updated.TimeIn = nil
		updated.TimeOut = nil
		updated.TotalHours = 0
	} else {
		if err := checkTimes(false, updated.TimeIn, updated.TimeOut); err != nil {
			return nil, err
		}
		updated.TotalHours = timecalc.ElapsedHours(*updated.TimeIn, *updated.TimeOut)
	}
	if !updated.Date.Equal(old.Date) {
		exists, err := ws.workdaysRepo.ExistsByMonthAndDate(ctx, month.ID, updated.Date)
		if err != nil {
			return nil, errors.New("workdays repository error: " + err.Error())
		}
		if exists {
			return nil, errorvalues.ErrWorkdayExists
		}
	}

	delta := UpdateDelta(old, &updated)
	if !delta.IsZero() {
		if err := ws.monthsRepo.ApplyDelta(ctx, month.ID, delta); err != nil {
			if errors.Is(err, errorvalues.ErrMonthNotFound) {
				return nil, err
			}
			return nil, errors.New("months repository error: " + err.Error())
		}
	}
	if err := ws.workdaysRepo.Update(ctx, &updated); err != nil {
		if delta.IsZero() {
			// Nothing aggregate moved yet, plain failure
			if errors.Is(err, errorvalues.ErrWorkdayNotFound) || errors.Is(err, errorvalues.ErrWorkdayExists) {
				return nil, err
			}
			return nil, errors.New("workdays repository error: " + err.Error())
		}
		return nil, &errorvalues.ConsistencyError{
			Entity:  "workday",
			ID:      updated.ID,
			MonthID: month.ID,
			Op:      "update",
			Delta:   delta,
			Cause:   err,
		}
	}
	return &updated, nil
}

func (ws *WorkdayService) Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error) {
	workday, err := ws.workdaysRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrWorkdayNotFound) {
			return nil, err
		}
		return nil, errors.New("workdays repository error: " + err.Error())
	}
	month, err := ws.ownedMonth(ctx, workday.MonthID, ownerID)
	if err != nil {
		return nil, err
	}

	delta := RemoveDelta(workday)
	if err := ws.monthsRepo.ApplyDelta(ctx, month.ID, delta); err != nil {
		if errors.Is(err, errorvalues.ErrMonthNotFound) {
			return nil, err
		}
		return nil, errors.New("months repository error: " + err.Error())
	}
	if err := ws.workdaysRepo.Delete(ctx, workday.ID); err != nil {
		return nil, &errorvalues.ConsistencyError{
			Entity:  "workday",
			ID:      workday.ID,
			MonthID: month.ID,
			Op:      "delete",
			Delta:   delta,
			Cause:   err,
		}
	}
	return workday, nil
}
