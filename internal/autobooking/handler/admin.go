package handler

import (
	"context"
	"net/http"
	"time"

	"seatrota/internal/autobooking/service"
	"seatrota/internal/bookings/validator"
	apperrors "seatrota/pkg/errors"
	httputil "seatrota/pkg/http"
	"seatrota/pkg/logger"
	"seatrota/pkg/middleware"
	"seatrota/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// AutoBooker is implemented by *service.Scheduler.
type AutoBooker interface {
	TriggerAutoBooking(ctx context.Context, date *time.Time) (*service.Report, error)
	Status() service.Status
}

type AdminHandler struct {
	autoBooker AutoBooker
	validator  *validator.BookingValidator
	log        *logger.Logger
}

func NewAdminHandler(autoBooker AutoBooker, validator *validator.BookingValidator, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		autoBooker: autoBooker,
		validator:  validator,
		log:        log,
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/admin/auto-booking", middleware.RequireAdmin(h.TriggerAutoBooking))
	router.GET("/api/v1/admin/system-status", middleware.RequireAdmin(h.SystemStatus))
}

// TriggerAutoBooking accepts an optional {"date": "YYYY-MM-DD"} body; without
// one it books today.
func (h *AdminHandler) TriggerAutoBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.OptionalDateRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validator.ValidateDateRequest(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	var date *time.Time
	if req.Date != "" {
		d, err := httputil.ParseDateParam("date", req.Date)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		date = &d
	}

	admin, _ := middleware.UserFromContext(r.Context())
	h.log.Info("Manual auto-booking triggered",
		"request_id", middleware.RequestID(r.Context()),
		"admin_id", admin.ID,
		"date", req.Date,
	)

	report, err := h.autoBooker.TriggerAutoBooking(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, report)
}

func (h *AdminHandler) SystemStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, h.autoBooker.Status())
}
