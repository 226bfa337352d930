package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shiftbook/workcal/pkg/entity"
)

type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=7,max=72,no_password_word"`
}

type UserPatch struct {
	Email    *string `validate:"omitempty,email"`
	Password *string `validate:"omitempty,min=7,max=72,no_password_word"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// Applies email/password changes
	Update(ctx context.Context, id uuid.UUID, patch *UserPatch) (*entity.User, error)
	// Verifies password, cascades months and workdays away, removes the user
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type CreateMonthRequest struct {
	MonthDate           time.Time
	PotentialMonthHours *float64 `validate:"omitempty,gt=0"`
}

type MonthPatch struct {
	MonthDate           *time.Time
	PotentialMonthHours *float64 `validate:"omitempty,gt=0"`
}

type MonthServiceI interface {
	// Creates a month at the first of MonthDate's month with zeroed totals
	Create(ctx context.Context, ownerID uuid.UUID, req *CreateMonthRequest) (*entity.Month, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*entity.Month, error)
	// Applies date/target changes; a date change shifts every owned workday
	// into the new month while leaving the totals alone
	Update(ctx context.Context, id, ownerID uuid.UUID, patch *MonthPatch) (*entity.Month, error)
	// Removes the month and all its workdays
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Month, error)
}

type CreateWorkdayRequest struct {
	MonthID  uuid.UUID `validate:"required"`
	Date     time.Time `validate:"required"`
	TimeIn   *time.Time
	TimeOut  *time.Time
	Note     string `validate:"max=500"`
	IsDayOff bool
}

// WorkdayPatch carries the mutable workday fields; nil means unchanged.
// When IsDayOff lands true the times are forced to null regardless of the
// patch; when it lands false the effective times must be present and distinct.
type WorkdayPatch struct {
	Date     *time.Time
	TimeIn   *time.Time
	TimeOut  *time.Time
	Note     *string `validate:"omitempty,max=500"`
	IsDayOff *bool
}

type WorkdayServiceI interface {
	// Validates and commits a new workday, folding its contribution into the
	// owning month's totals
	Create(ctx context.Context, ownerID uuid.UUID, req *CreateWorkdayRequest) (*entity.Workday, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error)
	ListByMonth(ctx context.Context, monthID, ownerID uuid.UUID) ([]*entity.Workday, error)
	// Collects the workdays of every month the user owns
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Workday, error)
	// Applies patch and the transition-table delta it implies
	Update(ctx context.Context, id, ownerID uuid.UUID, patch *WorkdayPatch) (*entity.Workday, error)
	// Removes the workday, subtracting its contribution from the month
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*entity.Workday, error)
}
