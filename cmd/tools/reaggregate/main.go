package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/obs"
	"github.com/noah-isme/backend-turismo/internal/reviews"
)

func main() {
	_ = godotenv.Load()
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
		dryRun      = flag.Bool("dry-run", false, "print aggregates that drifted without writing them")
		logLevel    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := obs.NewLogger("console", *logLevel)
	if strings.TrimSpace(*databaseURL) == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.NewPool(connectCtx, *databaseURL, "turismo-reaggregate")
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	r := reaggregator{
		Reads:  dbgen.New(pool),
		Store:  reviews.PGStore{Tx: &db.Transactor{Pool: pool, MaxRetries: 3, Logger: logger}},
		Out:    os.Stdout,
		DryRun: *dryRun,
		Logger: logger,
	}
	result, err := r.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("reaggregate")
	}
	logger.Info().
		Int("services", result.Services).
		Int("destinations", result.Destinations).
		Int("drifted", result.Drifted).
		Int("failed", result.Failed).
		Bool("dry_run", *dryRun).
		Msg("reaggregate finished")
	if result.Failed > 0 {
		os.Exit(1)
	}
}

type aggregateReads interface {
	ListServiceAggregates(ctx context.Context) ([]dbgen.ListServiceAggregatesRow, error)
	ListDestinationAggregates(ctx context.Context) ([]dbgen.ListDestinationAggregatesRow, error)
	ServiceReviewStats(ctx context.Context, serviceID pgtype.UUID) (dbgen.ServiceReviewStatsRow, error)
	DestinationReviewStats(ctx context.Context, destinationID pgtype.UUID) (dbgen.DestinationReviewStatsRow, error)
}

type summary struct {
	Services     int
	Destinations int
	Drifted      int
	Failed       int
}

// reaggregator rebuilds every stored aggregate from the active reviews. Each
// target is recomputed in its own transaction so one failure does not hold
// back the rest.
type reaggregator struct {
	Reads  aggregateReads
	Store  reviews.Store
	Out    io.Writer
	DryRun bool
	Logger zerolog.Logger
}

func (r reaggregator) Run(ctx context.Context) (summary, error) {
	var sum summary

	services, err := r.Reads.ListServiceAggregates(ctx)
	if err != nil {
		return sum, fmt.Errorf("list services: %w", err)
	}
	for _, svc := range services {
		sum.Services++
		stored := reviews.Aggregate{Average: svc.AverageScore, Count: int(svc.ReviewCount)}
		drifted, err := r.service(ctx, svc.ID, stored)
		r.tally(&sum, "service", svc.ID, drifted, err)
	}

	destinations, err := r.Reads.ListDestinationAggregates(ctx)
	if err != nil {
		return sum, fmt.Errorf("list destinations: %w", err)
	}
	for _, dest := range destinations {
		sum.Destinations++
		stored := reviews.Aggregate{Average: dest.AverageScore, Count: int(dest.ReviewCount)}
		drifted, err := r.destination(ctx, dest.ID, stored)
		r.tally(&sum, "destination", dest.ID, drifted, err)
	}
	return sum, nil
}

func (r reaggregator) tally(sum *summary, level string, id pgtype.UUID, drifted bool, err error) {
	if err != nil {
		sum.Failed++
		r.Logger.Error().Err(err).Str("level", level).Str("id", common.UUIDString(id)).Msg("recompute failed")
		return
	}
	if drifted {
		sum.Drifted++
	}
}

func (r reaggregator) service(ctx context.Context, id pgtype.UUID, stored reviews.Aggregate) (bool, error) {
	if r.DryRun {
		stats, err := r.Reads.ServiceReviewStats(ctx, id)
		if err != nil {
			return false, err
		}
		return r.report("service", id, stored, aggregateOf(stats.ScoreSum, stats.ReviewCount)), nil
	}
	var fresh reviews.Aggregate
	err := r.Store.InTx(ctx, func(q reviews.Querier) error {
		// Review writes hold this row until commit; stats must be read after them.
		if _, err := q.LockServiceForReview(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return errors.New("service disappeared")
			}
			return fmt.Errorf("lock service: %w", err)
		}
		var err error
		fresh, err = reviews.RecomputeServiceAggregate(ctx, q, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return r.report("service", id, stored, fresh), nil
}

func (r reaggregator) destination(ctx context.Context, id pgtype.UUID, stored reviews.Aggregate) (bool, error) {
	if r.DryRun {
		stats, err := r.Reads.DestinationReviewStats(ctx, id)
		if err != nil {
			return false, err
		}
		return r.report("destination", id, stored, aggregateOf(stats.ScoreSum, stats.ReviewCount)), nil
	}
	var fresh reviews.Aggregate
	err := r.Store.InTx(ctx, func(q reviews.Querier) error {
		if _, err := q.LockDestination(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return errors.New("destination disappeared")
			}
			return fmt.Errorf("lock destination: %w", err)
		}
		var err error
		fresh, err = reviews.RecomputeDestinationAggregate(ctx, q, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return r.report("destination", id, stored, fresh), nil
}

// report prints one line per drifted aggregate and says whether it drifted.
func (r reaggregator) report(level string, id pgtype.UUID, stored, fresh reviews.Aggregate) bool {
	if stored.Count == fresh.Count && stored.Average.Equal(fresh.Average) {
		return false
	}
	if r.Out != nil {
		fmt.Fprintf(r.Out, "%s %s average %s -> %s count %d -> %d\n",
			level, common.UUIDString(id),
			stored.Average.StringFixed(2), fresh.Average.StringFixed(2),
			stored.Count, fresh.Count)
	}
	return true
}

func aggregateOf(sum, count int64) reviews.Aggregate {
	return reviews.Aggregate{Average: reviews.Mean(sum, count), Count: int(count)}
}
