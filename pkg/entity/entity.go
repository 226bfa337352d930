package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// Month is the aggregate record for one calendar month of one user.
// The three totals are only ever written through the months repository's
// ApplyDelta, so they always equal the fold over the month's workdays.
type Month struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	MonthDate           time.Time `json:"month_date"`
	TotalHours          float64   `json:"total_hours"`
	TotalWorkdays       int       `json:"total_workdays"`
	TotalDaysOff        int       `json:"total_days_off"`
	PotentialMonthHours float64   `json:"potential_month_hours"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Workday is a single day's attendance record. When IsDayOff is set,
// TimeIn/TimeOut are nil and TotalHours is zero.
type Workday struct {
	ID         uuid.UUID  `json:"id"`
	MonthID    uuid.UUID  `json:"month_id"`
	Date       time.Time  `json:"date"`
	TimeIn     *time.Time `json:"time_in,omitempty"`
	TimeOut    *time.Time `json:"time_out,omitempty"`
	TotalHours float64    `json:"total_hours"`
	Note       string     `json:"note"`
	IsDayOff   bool       `json:"is_day_off"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AggregateDelta is the signed change one workday operation implies for the
// owning month's totals.
type AggregateDelta struct {
	Hours    float64
	Workdays int
	DaysOff  int
}

func (d AggregateDelta) IsZero() bool {
	return d.Hours == 0 && d.Workdays == 0 && d.DaysOff == 0
}

func (d AggregateDelta) Negated() AggregateDelta {
	return AggregateDelta{Hours: -d.Hours, Workdays: -d.Workdays, DaysOff: -d.DaysOff}
}

// Contribution is what the workday currently adds to its month's totals.
func (w *Workday) Contribution() AggregateDelta {
	if w.IsDayOff {
		return AggregateDelta{DaysOff: 1}
	}
	return AggregateDelta{Hours: w.TotalHours, Workdays: 1}
}
