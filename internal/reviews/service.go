package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
	"github.com/noah-isme/backend-turismo/internal/obs"
)

// Review is the public representation of a review.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ServiceID string    `json:"serviceId"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment,omitempty"`
	Active    bool      `json:"active"`
	Moderated bool      `json:"moderated"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries a new review.
type CreateInput struct {
	UserID    pgtype.UUID `json:"-" validate:"-"`
	ServiceID pgtype.UUID `json:"-" validate:"-"`
	Score     int         `json:"score" validate:"min=1,max=5"`
	Comment   string      `json:"comment" validate:"max=1000"`
}

// UpdateInput carries an edit of an existing review.
type UpdateInput struct {
	ReviewID pgtype.UUID `json:"-" validate:"-"`
	UserID   pgtype.UUID `json:"-" validate:"-"`
	Score    int         `json:"score" validate:"min=1,max=5"`
	Comment  string      `json:"comment" validate:"max=1000"`
}

// Actor identifies who performs a state change.
type Actor struct {
	UserID pgtype.UUID
	Role   string
}

// Service owns review writes and keeps the service and destination aggregates
// consistent with them.
type Service struct {
	store     Store
	reader    Reader
	events    events.Emitter
	blocklist Blocklist
	logger    zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store     Store
	Reader    Reader
	Events    events.Emitter
	Blocklist Blocklist
	Logger    zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("reviews: store is required")
	}
	if cfg.Reader == nil {
		return nil, errors.New("reviews: reader is required")
	}
	return &Service{
		store:     cfg.Store,
		reader:    cfg.Reader,
		events:    cfg.Events,
		blocklist: cfg.Blocklist,
		logger:    cfg.Logger,
	}, nil
}

// Create stores a review for a service the user has completed a booking for,
// then refreshes the service and destination aggregates in the same transaction.
// Comments hitting the blocklist are stored inactive and pending moderation.
func (s *Service) Create(ctx context.Context, in CreateInput) (Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := common.ValidateStruct(in); err != nil {
		obs.ObserveReviewMutation("create", "invalid")
		return Review{}, err
	}
	flagged := s.blocklist.Flagged(in.Comment)

	var (
		created dbgen.Review
		result  Cascade
	)
	err := s.store.InTx(ctx, func(q Querier) error {
		svc, err := q.LockServiceForReview(ctx, in.ServiceID)
		if err != nil {
			if db.IsNotFound(err) {
				return serviceNotFound()
			}
			return fmt.Errorf("lock service: %w", err)
		}
		if !svc.IsActive {
			return serviceNotFound()
		}

		eligible, err := q.HasCompletedBooking(ctx, dbgen.HasCompletedBookingParams{UserID: in.UserID, ServiceID: in.ServiceID})
		if err != nil {
			return fmt.Errorf("check booking eligibility: %w", err)
		}
		if !eligible {
			return notEligible()
		}
		if err := ensureNoActiveReview(ctx, q, in.UserID, in.ServiceID, pgtype.UUID{}); err != nil {
			return err
		}

		review, err := q.CreateReview(ctx, dbgen.CreateReviewParams{
			UserID:      in.UserID,
			ServiceID:   in.ServiceID,
			Score:       int32(in.Score),
			Comment:     textOrNull(in.Comment),
			IsActive:    !flagged,
			IsModerated: flagged,
		})
		if err != nil {
			if db.IsUniqueViolation(err, activeReviewConstraint) {
				return duplicateReview()
			}
			return fmt.Errorf("insert review: %w", err)
		}

		result, err = OnReviewChanged(ctx, q, review)
		if err != nil {
			return err
		}
		created = review
		return nil
	})
	if err != nil {
		s.fail("create", err)
		return Review{}, err
	}
	s.committed(ctx, "create", created, result)
	return toReview(created), nil
}

// Update edits score and comment of an active review owned by the user.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := common.ValidateStruct(in); err != nil {
		obs.ObserveReviewMutation("update", "invalid")
		return Review{}, err
	}
	flagged := s.blocklist.Flagged(in.Comment)

	var (
		updated dbgen.Review
		result  Cascade
	)
	err := s.store.InTx(ctx, func(q Querier) error {
		current, err := lockReview(ctx, q, in.ReviewID)
		if err != nil {
			return err
		}
		if !common.UUIDEqual(current.UserID, in.UserID) {
			return notOwner()
		}
		if !current.IsActive {
			return reviewInactive()
		}

		review, err := q.UpdateReviewContent(ctx, dbgen.UpdateReviewContentParams{
			ID:          current.ID,
			Score:       int32(in.Score),
			Comment:     textOrNull(in.Comment),
			IsActive:    !flagged,
			IsModerated: current.IsModerated || flagged,
		})
		if err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		result, err = OnReviewChanged(ctx, q, review)
		if err != nil {
			return err
		}
		updated = review
		return nil
	})
	if err != nil {
		s.fail("update", err)
		return Review{}, err
	}
	s.committed(ctx, "update", updated, result)
	return toReview(updated), nil
}

// Deactivate soft-deletes a review. Owners withdraw their own review; admins
// reject it, which also marks it moderated.
func (s *Service) Deactivate(ctx context.Context, reviewID pgtype.UUID, actor Actor) (Review, error) {
	op := "deactivate"
	if actor.Role == common.RoleAdmin {
		op = "reject"
	}
	var (
		changed dbgen.Review
		result  Cascade
	)
	err := s.store.InTx(ctx, func(q Querier) error {
		current, err := lockReview(ctx, q, reviewID)
		if err != nil {
			return err
		}
		moderated := current.IsModerated
		if actor.Role == common.RoleAdmin {
			moderated = true
		} else if !common.UUIDEqual(current.UserID, actor.UserID) {
			return notOwner()
		}

		review, err := q.SetReviewState(ctx, dbgen.SetReviewStateParams{ID: current.ID, IsActive: false, IsModerated: moderated})
		if err != nil {
			return fmt.Errorf("deactivate review: %w", err)
		}
		result, err = OnReviewChanged(ctx, q, review)
		if err != nil {
			return err
		}
		changed = review
		return nil
	})
	if err != nil {
		s.fail(op, err)
		return Review{}, err
	}
	s.committed(ctx, op, changed, result)
	return toReview(changed), nil
}

// Reactivate approves a review after moderation. It fails when the author has
// meanwhile published another active review for the same service.
func (s *Service) Reactivate(ctx context.Context, reviewID pgtype.UUID) (Review, error) {
	var (
		changed dbgen.Review
		result  Cascade
	)
	err := s.store.InTx(ctx, func(q Querier) error {
		current, err := lockReview(ctx, q, reviewID)
		if err != nil {
			return err
		}
		if _, err := q.LockServiceForReview(ctx, current.ServiceID); err != nil {
			if db.IsNotFound(err) {
				return fmt.Errorf("service %s: %w", common.UUIDString(current.ServiceID), ErrAggregateTargetMissing)
			}
			return fmt.Errorf("lock service: %w", err)
		}
		if err := ensureNoActiveReview(ctx, q, current.UserID, current.ServiceID, current.ID); err != nil {
			return err
		}

		review, err := q.SetReviewState(ctx, dbgen.SetReviewStateParams{ID: current.ID, IsActive: true, IsModerated: true})
		if err != nil {
			if db.IsUniqueViolation(err, activeReviewConstraint) {
				return duplicateReview()
			}
			return fmt.Errorf("reactivate review: %w", err)
		}
		result, err = OnReviewChanged(ctx, q, review)
		if err != nil {
			return err
		}
		changed = review
		return nil
	})
	if err != nil {
		s.fail("approve", err)
		return Review{}, err
	}
	s.committed(ctx, "approve", changed, result)
	return toReview(changed), nil
}

func lockReview(ctx context.Context, q Querier, id pgtype.UUID) (dbgen.Review, error) {
	review, err := q.GetReviewForUpdate(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return dbgen.Review{}, reviewNotFound()
		}
		return dbgen.Review{}, fmt.Errorf("lock review: %w", err)
	}
	return review, nil
}

// ensureNoActiveReview fails when the user has an active review on the service
// other than except.
func ensureNoActiveReview(ctx context.Context, q Querier, userID, serviceID, except pgtype.UUID) error {
	existing, err := q.GetActiveReviewID(ctx, dbgen.GetActiveReviewIDParams{UserID: userID, ServiceID: serviceID})
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check active review: %w", err)
	}
	if except.Valid && common.UUIDEqual(existing, except) {
		return nil
	}
	return duplicateReview()
}

func (s *Service) fail(op string, err error) {
	if common.IsAppError(err) {
		obs.ObserveReviewMutation(op, "rejected")
		return
	}
	obs.ObserveReviewMutation(op, "error")
	s.logger.Error().Err(err).Str("op", op).Msg("review transaction rolled back")
}

func (s *Service) committed(ctx context.Context, op string, review dbgen.Review, result Cascade) {
	obs.ObserveReviewMutation(op, "ok")
	s.logger.Info().
		Str("op", op).
		Str("review_id", common.UUIDString(review.ID)).
		Str("service_id", common.UUIDString(result.ServiceID)).
		Str("service_average", result.Service.Average.StringFixed(2)).
		Int("service_reviews", result.Service.Count).
		Msg("review committed")

	if s.events == nil {
		return
	}
	payload := events.ReviewChanged{
		ReviewID:  common.UUIDString(review.ID),
		ServiceID: common.UUIDString(review.ServiceID),
		Op:        op,
		Active:    review.IsActive,
	}
	if result.DestinationID.Valid {
		payload.DestinationID = common.UUIDString(result.DestinationID)
	}
	if _, err := s.events.Emit(ctx, events.TopicReviewChanged, review.ID, payload); err != nil {
		s.logger.Warn().Err(err).Str("review_id", payload.ReviewID).Msg("emit review event failed")
	}
}

func textOrNull(v string) pgtype.Text {
	return pgtype.Text{String: v, Valid: v != ""}
}

func toReview(r dbgen.Review) Review {
	return Review{
		ID:        common.UUIDString(r.ID),
		UserID:    common.UUIDString(r.UserID),
		ServiceID: common.UUIDString(r.ServiceID),
		Score:     int(r.Score),
		Comment:   common.NullableText(r.Comment),
		Active:    r.IsActive,
		Moderated: r.IsModerated,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}
