package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// Response is a provider's public reply to a review.
type Response struct {
	ID         string    `json:"id"`
	ReviewID   string    `json:"reviewId"`
	ProviderID string    `json:"providerId"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type responseBody struct {
	Body string `json:"body" validate:"required,max=500"`
}

// Respond attaches the provider's reply to an active review of one of their services.
// A review holds at most one reply.
func (s *Service) Respond(ctx context.Context, reviewID, providerID pgtype.UUID, text string) (Response, error) {
	body := strings.TrimSpace(text)
	if err := common.ValidateStruct(responseBody{Body: body}); err != nil {
		return Response{}, err
	}
	review, err := s.reader.GetReview(ctx, reviewID)
	if err != nil {
		if db.IsNotFound(err) {
			return Response{}, reviewNotFound()
		}
		return Response{}, fmt.Errorf("get review: %w", err)
	}
	if !review.IsActive {
		return Response{}, reviewNotFound()
	}
	svc, err := s.reader.GetService(ctx, review.ServiceID)
	if err != nil {
		if db.IsNotFound(err) {
			return Response{}, serviceNotFound()
		}
		return Response{}, fmt.Errorf("get service: %w", err)
	}
	if !common.UUIDEqual(svc.ProviderID, providerID) {
		return Response{}, notServiceProvider()
	}
	if _, err := s.reader.GetReviewResponseByReview(ctx, reviewID); err == nil {
		return Response{}, responseExists()
	} else if !db.IsNotFound(err) {
		return Response{}, fmt.Errorf("get review response: %w", err)
	}

	row, err := s.reader.CreateReviewResponse(ctx, dbgen.CreateReviewResponseParams{
		ReviewID:   reviewID,
		ProviderID: providerID,
		Body:       body,
	})
	if err != nil {
		if db.IsUniqueViolation(err, responseReviewConstraint) {
			return Response{}, responseExists()
		}
		return Response{}, fmt.Errorf("create review response: %w", err)
	}
	return toResponse(row), nil
}

// EditResponse replaces the text of the provider's own reply.
func (s *Service) EditResponse(ctx context.Context, responseID, providerID pgtype.UUID, text string) (Response, error) {
	body := strings.TrimSpace(text)
	if err := common.ValidateStruct(responseBody{Body: body}); err != nil {
		return Response{}, err
	}
	current, err := s.reader.GetReviewResponse(ctx, responseID)
	if err != nil {
		if db.IsNotFound(err) {
			return Response{}, responseNotFound()
		}
		return Response{}, fmt.Errorf("get review response: %w", err)
	}
	if !common.UUIDEqual(current.ProviderID, providerID) {
		return Response{}, responseNotFound()
	}
	row, err := s.reader.UpdateReviewResponse(ctx, dbgen.UpdateReviewResponseParams{ID: responseID, Body: body})
	if err != nil {
		return Response{}, fmt.Errorf("update review response: %w", err)
	}
	return toResponse(row), nil
}

func toResponse(r dbgen.ReviewResponse) Response {
	return Response{
		ID:         common.UUIDString(r.ID),
		ReviewID:   common.UUIDString(r.ReviewID),
		ProviderID: common.UUIDString(r.ProviderID),
		Body:       r.Body,
		CreatedAt:  r.CreatedAt.Time,
		UpdatedAt:  r.UpdatedAt.Time,
	}
}
