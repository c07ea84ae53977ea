package cart

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/common"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Svc *Service
}

type addRequest struct {
	ServiceID   string `json:"serviceId" validate:"required,uuid"`
	ServiceDate string `json:"serviceDate" validate:"required,datetime=2006-01-02"`
	People      int    `json:"people" validate:"min=1"`
}

type updateRequest struct {
	People int `json:"people" validate:"min=1"`
}

type itemResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"serviceId"`
	ServiceDate string `json:"serviceDate"`
	People      int    `json:"people"`
}

// Get returns cart contents and pricing preview.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.View(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// AddItem handles POST /cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}
	serviceID, err := common.ParseUUID(req.ServiceID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid service id", nil)
		return
	}
	date, err := time.Parse(booking.DateLayout, req.ServiceDate)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid service date", nil)
		return
	}
	item, err := h.Svc.Add(r.Context(), userID, serviceID, date, req.People)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, toItemResponse(item))
}

// UpdateItem handles PATCH /cart/items/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	itemID, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}
	item, err := h.Svc.UpdatePeople(r.Context(), userID, itemID, req.People)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, toItemResponse(item))
}

// RemoveItem handles DELETE /cart/items/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	itemID, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	if err := h.Svc.Remove(r.Context(), userID, itemID); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Clear(r.Context(), userID); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return pgtype.UUID{}, false
	}
	raw, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return pgtype.UUID{}, false
	}
	id, err := common.ParseUUID(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject", nil)
		return pgtype.UUID{}, false
	}
	return id, true
}

func toItemResponse(item dbgen.CartItem) itemResponse {
	return itemResponse{
		ID:          common.UUIDString(item.ID),
		ServiceID:   common.UUIDString(item.ServiceID),
		ServiceDate: booking.FormatDate(item.ServiceDate),
		People:      int(item.People),
	}
}
