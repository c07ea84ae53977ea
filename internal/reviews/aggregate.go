package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-turismo/internal/common"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/obs"
)

var tracer = otel.Tracer("github.com/noah-isme/backend-turismo/internal/reviews")

// Aggregate is a stored rating summary.
type Aggregate struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// Cascade reports the aggregates written by OnReviewChanged.
type Cascade struct {
	ServiceID     pgtype.UUID
	Service       Aggregate
	DestinationID pgtype.UUID
	Destination   *Aggregate
}

// Mean returns sum/count rounded half-up to two places, or zero when count is zero.
func Mean(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}

// OnReviewChanged recomputes the aggregates affected by a review write: the
// review's service and, when the service belongs to one, its destination. It
// locks the service row before the destination row and must run in the same
// transaction as the review write.
func OnReviewChanged(ctx context.Context, q Querier, review dbgen.Review) (Cascade, error) {
	ctx, span := tracer.Start(ctx, "reviews.cascade")
	defer span.End()
	span.SetAttributes(
		attribute.String("review.id", common.UUIDString(review.ID)),
		attribute.String("service.id", common.UUIDString(review.ServiceID)),
	)

	result, err := cascade(ctx, q, review.ServiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	return result, nil
}

func cascade(ctx context.Context, q Querier, serviceID pgtype.UUID) (Cascade, error) {
	result := Cascade{ServiceID: serviceID}
	svc, err := q.LockServiceForReview(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return result, fmt.Errorf("service %s: %w", common.UUIDString(serviceID), ErrAggregateTargetMissing)
		}
		return result, fmt.Errorf("lock service: %w", err)
	}

	agg, err := RecomputeServiceAggregate(ctx, q, serviceID)
	if err != nil {
		return result, err
	}
	result.Service = agg

	if !svc.DestinationID.Valid {
		return result, nil
	}
	result.DestinationID = svc.DestinationID
	if _, err := q.LockDestination(ctx, svc.DestinationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return result, fmt.Errorf("destination %s: %w", common.UUIDString(svc.DestinationID), ErrAggregateTargetMissing)
		}
		return result, fmt.Errorf("lock destination: %w", err)
	}
	destAgg, err := RecomputeDestinationAggregate(ctx, q, svc.DestinationID)
	if err != nil {
		return result, err
	}
	result.Destination = &destAgg
	return result, nil
}

// RecomputeServiceAggregate rebuilds a service's mean score and count from its
// active reviews and stores them.
func RecomputeServiceAggregate(ctx context.Context, q Querier, serviceID pgtype.UUID) (Aggregate, error) {
	stats, err := q.ServiceReviewStats(ctx, serviceID)
	if err != nil {
		obs.ObserveAggregateRecompute("service", "error")
		return Aggregate{}, fmt.Errorf("service review stats: %w", err)
	}
	agg := Aggregate{Average: Mean(stats.ScoreSum, stats.ReviewCount), Count: int(stats.ReviewCount)}
	rows, err := q.UpdateServiceAggregate(ctx, dbgen.UpdateServiceAggregateParams{
		ID:           serviceID,
		AverageScore: agg.Average,
		ReviewCount:  int32(stats.ReviewCount),
	})
	if err != nil {
		obs.ObserveAggregateRecompute("service", "error")
		return Aggregate{}, fmt.Errorf("update service aggregate: %w", err)
	}
	if rows == 0 {
		obs.ObserveAggregateRecompute("service", "missing")
		return Aggregate{}, fmt.Errorf("service %s: %w", common.UUIDString(serviceID), ErrAggregateTargetMissing)
	}
	obs.ObserveAggregateRecompute("service", "ok")
	return agg, nil
}

// RecomputeDestinationAggregate rebuilds a destination's mean score and count
// from the active reviews of all its services.
func RecomputeDestinationAggregate(ctx context.Context, q Querier, destinationID pgtype.UUID) (Aggregate, error) {
	stats, err := q.DestinationReviewStats(ctx, destinationID)
	if err != nil {
		obs.ObserveAggregateRecompute("destination", "error")
		return Aggregate{}, fmt.Errorf("destination review stats: %w", err)
	}
	agg := Aggregate{Average: Mean(stats.ScoreSum, stats.ReviewCount), Count: int(stats.ReviewCount)}
	rows, err := q.UpdateDestinationAggregate(ctx, dbgen.UpdateDestinationAggregateParams{
		ID:           destinationID,
		AverageScore: agg.Average,
		ReviewCount:  int32(stats.ReviewCount),
	})
	if err != nil {
		obs.ObserveAggregateRecompute("destination", "error")
		return Aggregate{}, fmt.Errorf("update destination aggregate: %w", err)
	}
	if rows == 0 {
		obs.ObserveAggregateRecompute("destination", "missing")
		return Aggregate{}, fmt.Errorf("destination %s: %w", common.UUIDString(destinationID), ErrAggregateTargetMissing)
	}
	obs.ObserveAggregateRecompute("destination", "ok")
	return agg, nil
}
