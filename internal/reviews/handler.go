package reviews

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/common"
)

// Handler exposes review endpoints.
type Handler struct {
	Svc *Service
}

type reviewRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type responseRequest struct {
	Body string `json:"body"`
}

// Create handles POST /services/{id}/reviews.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	serviceID, ok := pathUUID(w, r, "invalid service id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	review, err := h.Svc.Create(r.Context(), CreateInput{
		UserID:    userID,
		ServiceID: serviceID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, review)
}

// Update handles PATCH /reviews/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "invalid review id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	review, err := h.Svc.Update(r.Context(), UpdateInput{
		ReviewID: reviewID,
		UserID:   userID,
		Score:    req.Score,
		Comment:  req.Comment,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, review)
}

// Delete handles DELETE /reviews/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "invalid review id")
	if !ok {
		return
	}
	if _, err := h.Svc.Deactivate(r.Context(), reviewID, Actor{UserID: userID, Role: common.RoleTourist}); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByService handles GET /services/{id}/reviews.
func (h *Handler) ListByService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := pathUUID(w, r, "invalid service id")
	if !ok {
		return
	}
	result, err := h.Svc.ListByService(r.Context(), serviceID, common.ParsePage(r, 10))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, common.DataPage{Data: result.Items, Pagination: result.Pagination})
}

// Histogram handles GET /services/{id}/reviews/histogram.
func (h *Handler) Histogram(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := pathUUID(w, r, "invalid service id")
	if !ok {
		return
	}
	result, err := h.Svc.Histogram(r.Context(), serviceID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, result)
}

// Mine handles GET /me/reviews.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.Svc.ListByUser(r.Context(), userID, common.ParsePage(r, 10))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, items)
}

// Respond handles POST /reviews/{id}/response.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "invalid review id")
	if !ok {
		return
	}
	var req responseRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.Svc.Respond(r.Context(), reviewID, providerID, req.Body)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, resp)
}

// EditResponse handles PATCH /review-responses/{id}.
func (h *Handler) EditResponse(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	responseID, ok := pathUUID(w, r, "invalid response id")
	if !ok {
		return
	}
	var req responseRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.Svc.EditResponse(r.Context(), responseID, providerID, req.Body)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, resp)
}

// Moderation handles GET /admin/reviews/moderation.
func (h *Handler) Moderation(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListModeration(r.Context(), r.URL.Query().Get("status"), common.ParsePage(r, 20))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, items)
}

// Approve handles POST /admin/reviews/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathUUID(w, r, "invalid review id")
	if !ok {
		return
	}
	review, err := h.Svc.Reactivate(r.Context(), reviewID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, review)
}

// Reject handles POST /admin/reviews/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(w, r, "invalid review id")
	if !ok {
		return
	}
	review, err := h.Svc.Deactivate(r.Context(), reviewID, Actor{UserID: adminID, Role: common.RoleAdmin})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, review)
}

func currentUser(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
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

func pathUUID(w http.ResponseWriter, r *http.Request, message string) (pgtype.UUID, bool) {
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
		return pgtype.UUID{}, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return false
	}
	return true
}
