package reviews

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// Querier is the set of statements a rating transaction runs.
type Querier interface {
	LockServiceForReview(ctx context.Context, id pgtype.UUID) (dbgen.LockServiceForReviewRow, error)
	LockDestination(ctx context.Context, id pgtype.UUID) (pgtype.UUID, error)
	HasCompletedBooking(ctx context.Context, arg dbgen.HasCompletedBookingParams) (bool, error)
	GetActiveReviewID(ctx context.Context, arg dbgen.GetActiveReviewIDParams) (pgtype.UUID, error)
	CreateReview(ctx context.Context, arg dbgen.CreateReviewParams) (dbgen.Review, error)
	GetReviewForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Review, error)
	UpdateReviewContent(ctx context.Context, arg dbgen.UpdateReviewContentParams) (dbgen.Review, error)
	SetReviewState(ctx context.Context, arg dbgen.SetReviewStateParams) (dbgen.Review, error)
	ServiceReviewStats(ctx context.Context, serviceID pgtype.UUID) (dbgen.ServiceReviewStatsRow, error)
	DestinationReviewStats(ctx context.Context, destinationID pgtype.UUID) (dbgen.DestinationReviewStatsRow, error)
	UpdateServiceAggregate(ctx context.Context, arg dbgen.UpdateServiceAggregateParams) (int64, error)
	UpdateDestinationAggregate(ctx context.Context, arg dbgen.UpdateDestinationAggregateParams) (int64, error)
}

// Reader serves the non-transactional reads and provider responses.
type Reader interface {
	GetReview(ctx context.Context, id pgtype.UUID) (dbgen.Review, error)
	GetService(ctx context.Context, id pgtype.UUID) (dbgen.Service, error)
	ListServiceReviews(ctx context.Context, arg dbgen.ListServiceReviewsParams) ([]dbgen.Review, error)
	CountServiceReviews(ctx context.Context, serviceID pgtype.UUID) (int64, error)
	ListUserReviews(ctx context.Context, arg dbgen.ListUserReviewsParams) ([]dbgen.Review, error)
	ListModerationQueue(ctx context.Context, arg dbgen.ListModerationQueueParams) ([]dbgen.Review, error)
	ScoreHistogram(ctx context.Context, serviceID pgtype.UUID) ([]dbgen.ScoreHistogramRow, error)
	CreateReviewResponse(ctx context.Context, arg dbgen.CreateReviewResponseParams) (dbgen.ReviewResponse, error)
	GetReviewResponse(ctx context.Context, id pgtype.UUID) (dbgen.ReviewResponse, error)
	GetReviewResponseByReview(ctx context.Context, reviewID pgtype.UUID) (dbgen.ReviewResponse, error)
	UpdateReviewResponse(ctx context.Context, arg dbgen.UpdateReviewResponseParams) (dbgen.ReviewResponse, error)
}

// Store runs fn inside one transaction. A non-nil error from fn rolls back every
// write fn performed.
type Store interface {
	InTx(ctx context.Context, fn func(q Querier) error) error
}

// PGStore adapts a db.Transactor to Store.
type PGStore struct {
	Tx *db.Transactor
}

// InTx implements Store.
func (s PGStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	return s.Tx.InTx(ctx, func(q *dbgen.Queries) error {
		return fn(q)
	})
}

var (
	_ Querier = (*dbgen.Queries)(nil)
	_ Reader  = (*dbgen.Queries)(nil)
)
