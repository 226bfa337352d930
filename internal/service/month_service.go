package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/internal/repository"
	"github.com/shiftbook/workcal/pkg/entity"
	"github.com/shiftbook/workcal/pkg/timecalc"
)

const defaultPotentialMonthHours = 160

// MonthService owns the month aggregate ledger: creation, date and target
// edits, deletion. The three totals are never assigned here; they only move
// through the repository's ApplyDelta, driven by the workday service.
type MonthService struct {
	repo    repository.MonthsRepositoryI
	cascade *CascadeCoordinator
}

func NewMonthService(monthsRepo repository.MonthsRepositoryI, cascade *CascadeCoordinator) *MonthService {
	if monthsRepo == nil || cascade == nil {
		log.Fatal("provided nil deps to month service")
	}
	return &MonthService{
		repo:    monthsRepo,
		cascade: cascade,
	}
}

func (ms *MonthService) Create(ctx context.Context, ownerID uuid.UUID, req *CreateMonthRequest) (*entity.Month, error) {
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
	month := entity.Month{
		OwnerID:             ownerID,
		MonthDate:           timecalc.StartOfMonth(req.MonthDate),
		PotentialMonthHours: defaultPotentialMonthHours,
	}
	if req.PotentialMonthHours != nil {
		month.PotentialMonthHours = *req.PotentialMonthHours
	}
	id, err := ms.repo.Create(ctx, &month)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMonthExists):
			return nil, errorvalues.ErrMonthExists
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("months repository error: " + err.Error())
	}
	created, err := ms.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("months repository error: " + err.Error())
	}
	return created, nil
}

func (ms *MonthService) Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error) {
	month, err := ms.repo.GetByID(ctx, id)
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

func (ms *MonthService) List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Month, error) {
	months, err := ms.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.New("months repository error: " + err.Error())
	}
	return months, nil
}

// Update applies a MonthPatch. A month-date change re-checks the (owner,
// date) uniqueness against the target and then shifts every owned workday
// into the new month; the totals stay as they are.
func (ms *MonthService) Update(ctx context.Context, id, ownerID uuid.UUID, patch *MonthPatch) (*entity.Month, error) {
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
	month, err := ms.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if patch.PotentialMonthHours != nil && *patch.PotentialMonthHours != month.PotentialMonthHours {
		if err := ms.repo.UpdatePotentialHours(ctx, month.ID, *patch.PotentialMonthHours); err != nil {
			if errors.Is(err, errorvalues.ErrMonthNotFound) {
				return nil, err
			}
			return nil, errors.New("months repository error: " + err.Error())
		}
		month.PotentialMonthHours = *patch.PotentialMonthHours
	}
	if patch.MonthDate != nil {
		newDate := timecalc.StartOfMonth(*patch.MonthDate)
		if !newDate.Equal(month.MonthDate) {
			exists, err := ms.repo.ExistsByOwnerAndDate(ctx, ownerID, newDate)
			if err != nil {
				return nil, errors.New("months repository error: " + err.Error())
			}
			if exists {
				return nil, errorvalues.ErrMonthExists
			}
			if err := ms.repo.UpdateDate(ctx, month.ID, newDate); err != nil {
				if errors.Is(err, errorvalues.ErrMonthExists) || errors.Is(err, errorvalues.ErrMonthNotFound) {
					return nil, err
				}
				return nil, errors.New("months repository error: " + err.Error())
			}
			if err := ms.cascade.MonthDateChanged(ctx, month, newDate); err != nil {
				return nil, err
			}
			month.MonthDate = newDate
		}
	}
	return month, nil
}

func (ms *MonthService) Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error) {
	month, err := ms.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	// Workdays go first so the FK lets the month row go
	if err := ms.cascade.MonthDeleted(ctx, month.ID); err != nil {
		return nil, err
	}
	if err := ms.repo.Delete(ctx, month.ID); err != nil {
		if errors.Is(err, errorvalues.ErrMonthNotFound) {
			return nil, err
		}
		return nil, errors.New("months repository error: " + err.Error())
	}
	return month, nil
}
