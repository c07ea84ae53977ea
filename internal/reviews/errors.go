package reviews

import (
	"errors"

	"github.com/noah-isme/backend-turismo/internal/common"
)

var (
	ErrReviewNotFound     = errors.New("reviews: review not found")
	ErrServiceNotFound    = errors.New("reviews: service not found")
	ErrDuplicateReview    = errors.New("reviews: user already has an active review for this service")
	ErrNotEligible        = errors.New("reviews: user has no completed booking for this service")
	ErrNotOwner           = errors.New("reviews: review belongs to another user")
	ErrReviewInactive     = errors.New("reviews: review is not active")
	ErrNotServiceProvider = errors.New("reviews: provider does not own the service")
	ErrResponseExists     = errors.New("reviews: review already has a response")
	ErrResponseNotFound   = errors.New("reviews: response not found")

	// ErrAggregateTargetMissing reports a review whose service or destination row
	// no longer exists. It indicates a consistency violation and aborts the transaction.
	ErrAggregateTargetMissing = errors.New("reviews: aggregate target missing")
)

const activeReviewConstraint = "reviews_active_user_service_key"
const responseReviewConstraint = "review_responses_review_id_key"

func reviewNotFound() error {
	return common.NotFound("review not found", ErrReviewNotFound)
}

func serviceNotFound() error {
	return common.NotFound("service not found", ErrServiceNotFound)
}

func duplicateReview() error {
	return common.Conflict("REVIEW_EXISTS", "you already reviewed this service", ErrDuplicateReview)
}

func notEligible() error {
	return common.Forbidden("REVIEW_NOT_ELIGIBLE", "a completed booking is required to review this service", ErrNotEligible)
}

func notOwner() error {
	return common.Forbidden("FORBIDDEN", "review belongs to another user", ErrNotOwner)
}

func reviewInactive() error {
	return common.Conflict("REVIEW_INACTIVE", "review is not active", ErrReviewInactive)
}

func notServiceProvider() error {
	return common.Forbidden("FORBIDDEN", "you do not provide this service", ErrNotServiceProvider)
}

func responseExists() error {
	return common.Conflict("RESPONSE_EXISTS", "review already has a response", ErrResponseExists)
}

func responseNotFound() error {
	return common.NotFound("response not found", ErrResponseNotFound)
}
