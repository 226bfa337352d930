package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shiftbook/workcal/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Can be used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user. Caller is responsible for cascading months first
	Delete(ctx context.Context, uid uuid.UUID) error
}

type MonthsRepositoryI interface {
	// Creates new month. Only OwnerID, MonthDate, PotentialMonthHours are read;
	// totals start at zero. Unique on (owner_id, month_date)
	Create(ctx context.Context, month *entity.Month) (uuid.UUID, error)
	// Searches month with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Month, error)
	// Lists months owned by user, newest month date first
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Month, error)
	// Reports whether a month exists at date for owner
	ExistsByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) (bool, error)
	// Applies delta to the month's three totals as in-database increments
	// clamped at zero. This is the only write path for the totals
	ApplyDelta(ctx context.Context, id uuid.UUID, delta entity.AggregateDelta) error
	// Rewrites the month's date. Unique constraint still applies
	UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error
	// Rewrites the month's target hours
	UpdatePotentialHours(ctx context.Context, id uuid.UUID, hours float64) error
	// Deletes month. Caller is responsible for cascading workdays first
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkdaysRepositoryI interface {
	// Creates new workday. Unique on (month_id, date)
	Create(ctx context.Context, workday *entity.Workday) (uuid.UUID, error)
	// Searches workday with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Workday, error)
	// Lists workdays of a month, newest date first
	GetByMonth(ctx context.Context, monthID uuid.UUID) ([]*entity.Workday, error)
	// Reports whether a workday exists at date within month
	ExistsByMonthAndDate(ctx context.Context, monthID uuid.UUID, date time.Time) (bool, error)
	// Updates all mutable fields of the workday by ID
	Update(ctx context.Context, workday *entity.Workday) error
	// Rewrites only date/time_in/time_out, used by the month date-shift
	// cascade which must not touch totals
	UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeIn, timeOut *time.Time) error
	// Deletes workday with id
	Delete(ctx context.Context, id uuid.UUID) error
	// Deletes every workday of the month, returns how many went away
	DeleteByMonth(ctx context.Context, monthID uuid.UUID) (int64, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
