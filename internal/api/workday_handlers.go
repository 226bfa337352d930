package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/shiftbook/workcal/internal/error_values"
	"github.com/shiftbook/workcal/internal/service"
	"github.com/shiftbook/workcal/pkg/entity"
	"github.com/shiftbook/workcal/pkg/httputil"
)

type CreateWorkdayRequest struct {
	MonthID  uuid.UUID  `json:"month_id"`
	Date     time.Time  `json:"date"`
	TimeIn   *time.Time `json:"time_in"`
	TimeOut  *time.Time `json:"time_out"`
	Note     string     `json:"note"`
	IsDayOff bool       `json:"is_day_off"`
}

type UpdateWorkdayRequest struct {
	Date     *time.Time `json:"date"`
	TimeIn   *time.Time `json:"time_in"`
	TimeOut  *time.Time `json:"time_out"`
	Note     *string    `json:"note"`
	IsDayOff *bool      `json:"is_day_off"`
}

// WorkdayResponse pairs the workday with the month whose totals it just
// moved, so clients refresh both in one round trip.
type WorkdayResponse struct {
	Workday *entity.Workday `json:"workday"`
	Month   *entity.Month   `json:"month"`
}

func (s *Server) CreateWorkday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create workday error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateWorkdayRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create workday error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workday, err := s.workdayService.Create(ctx, uid, &service.CreateWorkdayRequest{
		MonthID:  req.MonthID,
		Date:     req.Date,
		TimeIn:   req.TimeIn,
		TimeOut:  req.TimeOut,
		Note:     req.Note,
		IsDayOff: req.IsDayOff,
	})
	if err != nil {
		writeWorkdayError(w, logger, "create workday", err)
		return
	}
	month, err := s.monthService.Get(ctx, workday.MonthID, uid)
	if err != nil {
		logger.Error("create workday error: loading month error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error loading month", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, WorkdayResponse{
		Workday: workday,
		Month:   month,
	})
	logger.Info("workday created")
}

func (s *Server) GetWorkday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get workday error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get workday error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workday id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workday, err := s.workdayService.Get(ctx, id, uid)
	if err != nil {
		writeWorkdayError(w, logger, "get workday", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"workday": workday})
	logger.Info("workday provided")
}

func (s *Server) GetWorkdays(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get workdays error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	workdays, err := s.workdayService.ListByOwner(ctx, uid)
	if err != nil {
		logger.Error("get workdays error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting workdays list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":      uid.String(),
		"workdays": workdays,
	})
	logger.Info("workdays provided")
}

func (s *Server) GetMonthWorkdays(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get month workdays error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	monthID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get month workdays error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	workdays, err := s.workdayService.ListByMonth(ctx, monthID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMonthNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get month workdays error: unexist month")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "month doesn't exist", nil)
		default:
			logger.Error("get month workdays error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting workdays list", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"workdays": workdays})
	logger.Info("workdays provided")
}

func (s *Server) UpdateWorkday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update workday error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update workday error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workday id in path value", nil)
		return
	}
	var req UpdateWorkdayRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update workday error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workday, err := s.workdayService.Update(ctx, id, uid, &service.WorkdayPatch{
		Date:     req.Date,
		TimeIn:   req.TimeIn,
		TimeOut:  req.TimeOut,
		Note:     req.Note,
		IsDayOff: req.IsDayOff,
	})
	if err != nil {
		writeWorkdayError(w, logger, "update workday", err)
		return
	}
	month, err := s.monthService.Get(ctx, workday.MonthID, uid)
	if err != nil {
		logger.Error("update workday error: loading month error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error loading month", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, WorkdayResponse{
		Workday: workday,
		Month:   month,
	})
	logger.Info("workday updated")
}

func (s *Server) DeleteWorkday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("workday deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("workday deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid workday id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	workday, err := s.workdayService.Delete(ctx, id, uid)
	if err != nil {
		writeWorkdayError(w, logger, "delete workday", err)
		return
	}
	month, err := s.monthService.Get(ctx, workday.MonthID, uid)
	if err != nil {
		logger.Error("workday deletion error: loading month error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error loading month", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, WorkdayResponse{
		Workday: workday,
		Month:   month,
	})
	logger.Info("workday deleted")
}

// writeWorkdayError maps service failures onto statuses. Consistency
// violations stay 500 and are logged loudly so an operator sees them.
func writeWorkdayError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var consistencyErr *errorvalues.ConsistencyError
	switch {
	case errors.As(err, &consistencyErr):
		logger.Error(op+" error: aggregate consistency violation", slog.String("error", consistencyErr.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "aggregate consistency violation", consistencyErr)
	case errors.Is(err, errorvalues.ErrWorkdayExists):
		logger.Error(op + " error: workday already exists")
		httputil.WriteErrorResponse(w, http.StatusConflict, "workday already exists", nil)
	case errors.Is(err, errorvalues.ErrWorkdayNotFound):
		logger.Error(op + " error: unexist workday")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "workday doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrMonthNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error(op + " error: unexist month")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "month doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrMissingTimes), errors.Is(err, errorvalues.ErrEqualTimes):
		logger.Error(op + " error: invalid times")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, op+" failed", err)
	}
}
