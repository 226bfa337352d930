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

type CreateMonthRequest struct {
	MonthDate           time.Time `json:"month_date"`
	PotentialMonthHours *float64  `json:"potential_month_hours"`
}

type UpdateMonthRequest struct {
	MonthDate           *time.Time `json:"month_date"`
	PotentialMonthHours *float64   `json:"potential_month_hours"`
}

type GetMonthResponse struct {
	Month    *entity.Month     `json:"month"`
	Workdays []*entity.Workday `json:"workdays"`
}

func (s *Server) CreateMonth(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create month error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateMonthRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create month error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	month, err := s.monthService.Create(ctx, uid, &service.CreateMonthRequest{
		MonthDate:           req.MonthDate,
		PotentialMonthHours: req.PotentialMonthHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMonthExists):
			logger.Error("create month error: attempt to create existed month")
			httputil.WriteErrorResponse(w, http.StatusConflict, "month already exists", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create month error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create month: user doesn't exist", nil)
		default:
			logger.Error("create month error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't create month", err)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"month": month})
	logger.Info("month created")
}

func (s *Server) GetMonths(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get months error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	months, err := s.monthService.List(ctx, uid)
	if err != nil {
		logger.Error("getting months list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting months list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":    uid.String(),
		"months": months,
	})
	logger.Info("months provided")
}

func (s *Server) GetMonth(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get month error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get month error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	month, err := s.monthService.Get(ctx, id, uid)
	if err != nil {
		writeMonthLookupError(w, logger, err)
		return
	}
	workdays, err := s.workdayService.ListByMonth(ctx, id, uid)
	if err != nil {
		logger.Error("get month error: listing workdays error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error loading workdays", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetMonthResponse{
		Month:    month,
		Workdays: workdays,
	})
	logger.Info("month provided")
}

func (s *Server) UpdateMonth(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update month error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("update month error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month id in path value", nil)
		return
	}
	var req UpdateMonthRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update month error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	month, err := s.monthService.Update(ctx, id, uid, &service.MonthPatch{
		MonthDate:           req.MonthDate,
		PotentialMonthHours: req.PotentialMonthHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMonthExists):
			logger.Error("update month error: month exists at target date")
			httputil.WriteErrorResponse(w, http.StatusConflict, "month already exists at this date", nil)
		case errors.Is(err, errorvalues.ErrMonthNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update month error: unexist month")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "month doesn't exist", nil)
		default:
			logger.Error("update month error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't update month", err)
		}
		return
	}
	workdays, err := s.workdayService.ListByMonth(ctx, id, uid)
	if err != nil {
		logger.Error("update month error: listing workdays error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error loading workdays", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetMonthResponse{
		Month:    month,
		Workdays: workdays,
	})
	logger.Info("month updated")
}

func (s *Server) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("month deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("month deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid month id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	month, err := s.monthService.Delete(ctx, id, uid)
	if err != nil {
		writeMonthLookupError(w, logger, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"month": month})
	logger.Info("month deleted")
}

func writeMonthLookupError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrMonthNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error("month lookup error: unexist month")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "month doesn't exist", nil)
	default:
		logger.Error("month lookup error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
