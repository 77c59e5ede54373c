package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"seatwise/internal/reservations/service"
	apperrors "seatwise/pkg/errors"
	httputil "seatwise/pkg/http"
	"seatwise/pkg/logger"
	"seatwise/pkg/middleware"
	"seatwise/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	staffAuth func(httprouter.Handle) httprouter.Handle
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, staffAPIKey string, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		staffAuth: middleware.StaffAuth(staffAPIKey, log),
		log:       log,
	}
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Availability serves the public month view.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	unitID := ps.ByName("unit_id")
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	availability, err := h.service.MonthlyAvailability(r.Context(), unitID, month)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

// Submit is the public guest submission endpoint.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.submit(w, r, ps, model.SourceGuest)
}

// SubmitManual records a phone or walk-in booking on behalf of a guest.
func (h *BookingHandler) SubmitManual(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.submit(w, r, ps, model.SourceManual)
}

func (h *BookingHandler) submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params, source string) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// Server-owned fields never come from the request body.
	booking.ID = ""
	booking.Status = ""
	booking.ReferenceCode = ""
	booking.CreatedAt = time.Time{}
	booking.CancelledAt = nil
	booking.CancelReason = ""
	booking.UnitID = ps.ByName("unit_id")
	booking.Source = source

	if err := h.service.Submit(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetByReference lets a guest inspect their booking with only the opaque code.
func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("ref")

	booking, err := h.service.GetByReference(r.Context(), code)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByReference", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	unitID := ps.ByName("unit_id")
	query := r.URL.Query()

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var from, to *time.Time
	if s := query.Get("from"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid from parameter, must be RFC3339")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		from = &parsed
	}
	if s := query.Get("to"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid to parameter, must be RFC3339")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		to = &parsed
	}

	var statuses []string
	if s := query.Get("status"); s != "" {
		for _, status := range strings.Split(s, ",") {
			status = strings.TrimSpace(status)
			if status != model.StatusPending && status != model.StatusConfirmed && status != model.StatusCancelled {
				if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid status parameter: "+status)); writeErr != nil {
					h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
				}
				return
			}
			statuses = append(statuses, status)
		}
	}

	bookings, total, err := h.service.ListByUnit(r.Context(), unitID, from, to, statuses, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.Confirm(r.Context(), id, model.ActorStaff)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	reason := h.decodeCancelReason(r)

	booking, err := h.service.Cancel(r.Context(), id, model.ActorStaff, reason)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

// CancelByReference is the guest-facing cancel; the code is the credential.
func (h *BookingHandler) CancelByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("ref")
	reason := h.decodeCancelReason(r)

	booking, err := h.service.CancelByReference(r.Context(), code, reason)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelByReference", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelByReference", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Update(r.Context(), id, &updates, model.ActorStaff)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

// decodeCancelReason tolerates an empty or absent body.
func (h *BookingHandler) decodeCancelReason(r *http.Request) string {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.Reason
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	// Public guest surface.
	router.GET("/api/v1/units/:unit_id/availability", h.Availability)
	router.POST("/api/v1/units/:unit_id/reservations", h.Submit)
	router.GET("/api/v1/reservations/code/:ref", h.GetByReference)
	router.POST("/api/v1/reservations/code/:ref/cancel", h.CancelByReference)

	// Staff surface.
	router.POST("/api/v1/units/:unit_id/reservations/manual", h.staffAuth(h.SubmitManual))
	router.GET("/api/v1/units/:unit_id/reservations", h.staffAuth(h.List))
	router.GET("/api/v1/reservations/id/:id", h.staffAuth(h.GetByID))
	router.PATCH("/api/v1/reservations/id/:id", h.staffAuth(h.Update))
	router.POST("/api/v1/reservations/id/:id/confirm", h.staffAuth(h.Confirm))
	router.POST("/api/v1/reservations/id/:id/cancel", h.staffAuth(h.Cancel))
}
