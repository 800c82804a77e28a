package handler

import (
	"net/http"

	httputil "seatrota/pkg/http"
	"seatrota/pkg/middleware"
	"seatrota/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// ScheduleInfo describes which batch owns a date. "today" is accepted in
// place of a date.
func (h *BookingHandler) ScheduleInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("date")
	date := h.service.Today()
	if raw != "today" {
		var err error
		if date, err = httputil.ParseDateParam("date", raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	httputil.WriteSuccess(w, h.service.GetBatchScheduleInfo(date))
}

type nextScheduledResponse struct {
	UserID      string  `json:"user_id"`
	BatchNumber int     `json:"batch_number"`
	NextDate    *string `json:"next_date"`
}

func (h *BookingHandler) NextScheduledDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, _ := middleware.UserFromContext(r.Context())

	next, err := h.service.GetNextScheduledDate(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := nextScheduledResponse{UserID: user.ID, BatchNumber: user.BatchNumber}
	if next != nil {
		s := next.Format(model.DateLayout)
		resp.NextDate = &s
	}
	httputil.WriteSuccess(w, resp)
}
