package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	service usecase.InventoryService
	log     *zap.Logger
}

func NewInventoryHandler(service usecase.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "inventory")),
	}
}

// CheckAvailability handles GET /api/rooms/{roomID}/availability (public)
func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.AvailabilityRequest{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
		Units:    1,
	}
	if units := query.Get("units"); units != "" {
		// a malformed value becomes 0 and fails validation
		req.Units, _ = strconv.Atoi(units)
	}

	availability, err := h.service.CheckAvailability(r.Context(), chi.URLParam(r, "roomID"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ==================== ADMIN METHODS ====================

// OpenInventory handles POST /api/admin/rooms/{roomID}/inventory
func (h *InventoryHandler) OpenInventory(w http.ResponseWriter, r *http.Request) {
	var req request.InventoryRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	nights, err := h.service.OpenInventory(r.Context(), chi.URLParam(r, "roomID"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "open inventory")
		return
	}

	utils.ResponseCreated(w, "success", nights)
}

// UpdateInventory handles PATCH /api/admin/rooms/{roomID}/inventory
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	nights, err := h.service.UpdateInventory(r.Context(), chi.URLParam(r, "roomID"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update inventory")
		return
	}

	utils.ResponseSuccess(w, "success", nights)
}

// Calendar handles GET /api/admin/rooms/{roomID}/inventory?from=&to=
func (h *InventoryHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.InventoryRangeRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	nights, err := h.service.Calendar(r.Context(), chi.URLParam(r, "roomID"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get inventory calendar")
		return
	}

	utils.ResponseSuccess(w, "success", nights)
}
