package handler

import (
	"encoding/json"
	"net/http"

	"seatwise/internal/settings/service"
	httputil "seatwise/pkg/http"
	"seatwise/pkg/logger"
	"seatwise/pkg/middleware"
	"seatwise/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SettingHandler struct {
	service   service.SettingService
	staffAuth func(httprouter.Handle) httprouter.Handle
	log       *logger.Logger
}

func NewSettingHandler(service service.SettingService, staffAPIKey string, log *logger.Logger) *SettingHandler {
	return &SettingHandler{
		service:   service,
		staffAuth: middleware.StaffAuth(staffAPIKey, log),
		log:       log,
	}
}

func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	unitID := ps.ByName("unit_id")

	setting, err := h.service.Resolve(r.Context(), unitID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, setting); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	unitID := ps.ByName("unit_id")

	var update model.ReservationSettingUpdate
	decoder := json.NewDecoder(r.Body)
	// Unknown fields are rejected so a typo in a patch cannot silently leave a
	// rule unchanged.
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	setting, err := h.service.Update(r.Context(), unitID, &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, setting); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/units/:unit_id/settings", h.staffAuth(h.Get))
	router.PATCH("/api/v1/units/:unit_id/settings", h.staffAuth(h.Update))
}
