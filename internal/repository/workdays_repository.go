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

type WorkdaysRepository struct {
	conn PgConnection
}

func NewWorkdaysRepo(cfg DBConfig) *WorkdaysRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for workdaysRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workdaysRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &WorkdaysRepository{
		conn: pool,
	}
}

func NewWorkdaysRepoWithConn(conn PgConnection) *WorkdaysRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for workdaysRepo: " + err.Error())
	}
	return &WorkdaysRepository{
		conn: conn,
	}
}

func (wr *WorkdaysRepository) Create(ctx context.Context, workday *entity.Workday) (uuid.UUID, error) {
	var id uuid.UUID
	row := wr.conn.QueryRow(ctx, `INSERT INTO workdays (month_id, date, time_in, time_out, total_hours, note, is_day_off) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		workday.MonthID,
		workday.Date,
		workday.TimeIn,
		workday.TimeOut,
		workday.TotalHours,
		workday.Note,
		workday.IsDayOff,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrWorkdayExists
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrMonthNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating workday db error: " + err.Error())
	}
	return id, nil
}

func (wr *WorkdaysRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Workday, error) {
	var workday entity.Workday
	workday.ID = id
	row := wr.conn.QueryRow(ctx, `SELECT month_id, date, time_in, time_out, total_hours, note, is_day_off, created_at, updated_at FROM workdays WHERE id = $1;`, id)
	err := row.Scan(&workday.MonthID, &workday.Date, &workday.TimeIn, &workday.TimeOut,
		&workday.TotalHours, &workday.Note, &workday.IsDayOff, &workday.CreatedAt, &workday.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrWorkdayNotFound
		}
		return nil, errors.New("getting workday by id error: " + err.Error())
	}
	return &workday, nil
}

func (wr *WorkdaysRepository) GetByMonth(ctx context.Context, monthID uuid.UUID) ([]*entity.Workday, error) {
	workdays := make([]*entity.Workday, 0)
	rows, err := wr.conn.Query(ctx, `SELECT id, month_id, date, time_in, time_out, total_hours, note, is_day_off, created_at, updated_at
		FROM workdays WHERE month_id = $1 ORDER BY date DESC;`, monthID)
	if err != nil {
		return nil, errors.New("getting workdays by month error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		w := entity.Workday{}
		err = rows.Scan(&w.ID, &w.MonthID, &w.Date, &w.TimeIn, &w.TimeOut,
			&w.TotalHours, &w.Note, &w.IsDayOff, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling workday error: " + err.Error())
		}
		workdays = append(workdays, &w)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return workdays, nil
}

func (wr *WorkdaysRepository) ExistsByMonthAndDate(ctx context.Context, monthID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	row := wr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM workdays WHERE month_id = $1 AND date = $2);`, monthID, date)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if workday exists error: " + err.Error())
	}
	return exists, nil
}

func (wr *WorkdaysRepository) Update(ctx context.Context, workday *entity.Workday) error {
	ct, err := wr.conn.Exec(ctx, `UPDATE workdays SET date = $1, time_in = $2, time_out = $3, total_hours = $4, note = $5, is_day_off = $6, updated_at = NOW() WHERE id = $7;`,
		workday.Date,
		workday.TimeIn,
		workday.TimeOut,
		workday.TotalHours,
		workday.Note,
		workday.IsDayOff,
		workday.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrWorkdayExists
		}
		return errors.New("error updating workday: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrWorkdayNotFound
	}
	return nil
}

func (wr *WorkdaysRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, date time.Time, timeIn, timeOut *time.Time) error {
	ct, err := wr.conn.Exec(ctx, `UPDATE workdays SET date = $1, time_in = $2, time_out = $3, updated_at = NOW() WHERE id = $4;`,
		date,
		timeIn,
		timeOut,
		id,
	)
	if err != nil {
		return errors.New("error updating workday schedule: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrWorkdayNotFound
	}
	return nil
}

func (wr *WorkdaysRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := wr.conn.Exec(ctx, `DELETE FROM workdays WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting workday: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrWorkdayNotFound
	}
	return nil
}

func (wr *WorkdaysRepository) DeleteByMonth(ctx context.Context, monthID uuid.UUID) (int64, error) {
	ct, err := wr.conn.Exec(ctx, `DELETE FROM workdays WHERE month_id = $1;`, monthID)
	if err != nil {
		return 0, errors.New("error deleting workdays of month: " + err.Error())
	}
	return ct.RowsAffected(), nil
}
