package handler

import (
	"net/http"

	"seatrota/internal/bookings/service"
	"seatrota/internal/bookings/validator"
	apperrors "seatrota/pkg/errors"
	httputil "seatrota/pkg/http"
	"seatrota/pkg/logger"
	"seatrota/pkg/middleware"
	"seatrota/pkg/model"
	"seatrota/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, validator *validator.BookingValidator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/spare", middleware.RequireUser(h.BookSpare))
	router.POST("/api/v1/bookings/release", middleware.RequireUser(h.Release))
	router.GET("/api/v1/bookings/mine", middleware.RequireUser(h.MyBookings))
	router.GET("/api/v1/bookings/date/:date", middleware.RequireUser(h.BookingsForDate))
	router.GET("/api/v1/bookings/seat-status/:date", middleware.RequireUser(h.SeatStatus))
	router.GET("/api/v1/schedule/next", middleware.RequireUser(h.NextScheduledDate))
	router.GET("/api/v1/schedule/date/:date", h.ScheduleInfo)
}

// decodeDate reads a {"date": "YYYY-MM-DD"} body.
func (h *BookingHandler) decodeDate(r *http.Request) (model.DateRequest, error) {
	var req model.DateRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		return req, err
	}
	if err := h.validator.ValidateDateRequest(&req); err != nil {
		return req, apperrors.InvalidInput(err.Error())
	}
	return req, nil
}

func (h *BookingHandler) BookSpare(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, _ := middleware.UserFromContext(r.Context())

	req, err := h.decodeDate(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	date, err := httputil.ParseDateParam("date", req.Date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.BookSpareSeat(r.Context(), user.ID, date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) Release(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, _ := middleware.UserFromContext(r.Context())

	req, err := h.decodeDate(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	date, err := httputil.ParseDateParam("date", req.Date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.ReleaseSeat(r.Context(), user.ID, date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, _ := middleware.UserFromContext(r.Context())

	from, err := httputil.ParseOptionalDateQuery(r, "from_date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := httputil.ParseOptionalDateQuery(r, "to_date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter := model.BookingFilter{
		From:   from,
		To:     to,
		Status: model.BookingStatus(sanitizer.Label(r.URL.Query().Get("status"))),
	}

	bookings, err := h.service.GetMyBookings(r.Context(), user.ID, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) BookingsForDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.ParseDateParam("date", ps.ByName("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.GetBookingsForDate(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

type seatStatusResponse struct {
	Date  string             `json:"date"`
	Seats []model.SeatStatus `json:"seats"`
}

func (h *BookingHandler) SeatStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.ParseDateParam("date", ps.ByName("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	seats, err := h.service.GetSeatStatus(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, seatStatusResponse{
		Date:  date.Format(model.DateLayout),
		Seats: seats,
	})
}
