package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/pkg/cleanup"
	"github.com/shiftbook/workcal/pkg/entity"
)

type MonthsRepository struct {
	conn PgConnection
}

func NewMonthsRepo(cfg DBConfig) *MonthsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for monthsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for monthsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MonthsRepository{
		conn: pool,
	}
}

func NewMonthsRepoWithConn(conn PgConnection) *MonthsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for monthsRepo: " + err.Error())
	}
	return &MonthsRepository{
		conn: conn,
	}
}

func (mr *MonthsRepository) Create(ctx context.Context, month *entity.Month) (uuid.UUID, error) {
	var id uuid.UUID
	row := mr.conn.QueryRow(ctx, `INSERT INTO months (owner_id, month_date, potential_month_hours) VALUES ($1, $2, $3) RETURNING id;`,
		month.OwnerID,
		month.MonthDate,
		month.PotentialMonthHours,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrMonthExists
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating month db error: " + err.Error())
	}
	return id, nil
}

func (mr *MonthsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Month, error) {
	var month entity.Month
	month.ID = id
	row := mr.conn.QueryRow(ctx, `SELECT owner_id, month_date, total_hours, total_workdays, total_days_off, potential_month_hours, created_at, updated_at FROM months WHERE id = $1;`, id)
	err := row.Scan(&month.OwnerID, &month.MonthDate, &month.TotalHours, &month.TotalWorkdays,
		&month.TotalDaysOff, &month.PotentialMonthHours, &month.CreatedAt, &month.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrMonthNotFound
		}
		return nil, errors.New("getting month by id error: " + err.Error())
	}
	return &month, nil
}

func (mr *MonthsRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Month, error) {
	months := make([]*entity.Month, 0)
	rows, err := mr.conn.Query(ctx, `SELECT id, owner_id, month_date, total_hours, total_workdays, total_days_off, potential_month_hours, created_at, updated_at
		FROM months WHERE owner_id = $1 ORDER BY month_date DESC;`, ownerID)
	if err != nil {
		return nil, errors.New("getting months by owner error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		m := entity.Month{}
		err = rows.Scan(&m.ID, &m.OwnerID, &m.MonthDate, &m.TotalHours, &m.TotalWorkdays,
			&m.TotalDaysOff, &m.PotentialMonthHours, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling month error: " + err.Error())
		}
		months = append(months, &m)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return months, nil
}

func (mr *MonthsRepository) ExistsByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	row := mr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM months WHERE owner_id = $1 AND month_date = $2);`, ownerID, date)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if month exists error: " + err.Error())
	}
	return exists, nil
}

// ApplyDelta increments the totals server-side so concurrent deltas against
// the same month compose without lost updates. GREATEST keeps the counters
// from dipping below zero; a correct caller never relies on the clamp.
func (mr *MonthsRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta entity.AggregateDelta) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE months SET
		total_hours = GREATEST(round((total_hours + $1)::numeric, 2), 0),
		total_workdays = GREATEST(total_workdays + $2, 0),
		total_days_off = GREATEST(total_days_off + $3, 0),
		updated_at = NOW() WHERE id = $4;`,
		delta.Hours,
		delta.Workdays,
		delta.DaysOff,
		id,
	)
	if err != nil {
		return errors.New("applying month delta error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMonthNotFound
	}
	return nil
}

func (mr *MonthsRepository) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE months SET month_date = $1, updated_at = NOW() WHERE id = $2;`, date, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrMonthExists
		}
		return errors.New("updating month date error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMonthNotFound
	}
	return nil
}

func (mr *MonthsRepository) UpdatePotentialHours(ctx context.Context, id uuid.UUID, hours float64) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE months SET potential_month_hours = $1, updated_at = NOW() WHERE id = $2;`, hours, id)
	if err != nil {
		return errors.New("updating month potential hours error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMonthNotFound
	}
	return nil
}

func (mr *MonthsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := mr.conn.Exec(ctx, `DELETE FROM months WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting month error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMonthNotFound
	}
	return nil
}
