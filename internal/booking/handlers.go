package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/common"
)

// Handler exposes booking endpoints for tourists and providers.
type Handler struct {
	Svc *Service
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// List handles GET /bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}
	items, err := h.Svc.ListForUser(r.Context(), userID, common.ParsePage(r, 20))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, items)
}

// Get handles GET /bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingParam(w, r)
	if !ok {
		return
	}
	b, err := h.Svc.Get(r.Context(), userID, bookingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, b)
}

// Cancel handles POST /bookings/{id}/cancel. The body is optional.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := subject(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingParam(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}
	b, err := h.Svc.Cancel(r.Context(), userID, bookingID, req.Reason)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, b)
}

// ProviderList handles GET /provider/bookings.
func (h *Handler) ProviderList(w http.ResponseWriter, r *http.Request) {
	providerID, ok := subject(w, r)
	if !ok {
		return
	}
	items, err := h.Svc.ListForProvider(r.Context(), providerID, r.URL.Query().Get("status"), common.ParsePage(r, 20))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, items)
}

// ProviderConfirm handles POST /provider/bookings/{id}/confirm.
func (h *Handler) ProviderConfirm(w http.ResponseWriter, r *http.Request) {
	providerID, ok := subject(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingParam(w, r)
	if !ok {
		return
	}
	b, err := h.Svc.ConfirmByProvider(r.Context(), providerID, bookingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, b)
}

// ProviderComplete handles POST /provider/bookings/{id}/complete.
func (h *Handler) ProviderComplete(w http.ResponseWriter, r *http.Request) {
	providerID, ok := subject(w, r)
	if !ok {
		return
	}
	bookingID, ok := bookingParam(w, r)
	if !ok {
		return
	}
	b, err := h.Svc.CompleteByProvider(r.Context(), providerID, bookingID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, b)
}

func subject(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
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

func bookingParam(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid booking id", nil)
		return pgtype.UUID{}, false
	}
	return id, true
}
