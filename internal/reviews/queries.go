package reviews

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// Moderation queue filters.
const (
	FilterPending  = "pending"
	FilterApproved = "approved"
	FilterAll      = "all"
)

// Page is a page of reviews.
type Page struct {
	Items      []Review          `json:"items"`
	Pagination common.Pagination `json:"pagination"`
}

// ScoreBucket is the number of active reviews with a given score.
type ScoreBucket struct {
	Score int   `json:"score"`
	Count int64 `json:"count"`
}

// Histogram is the score distribution of a service.
type Histogram struct {
	ServiceID string        `json:"serviceId"`
	Total     int64         `json:"total"`
	Buckets   []ScoreBucket `json:"buckets"`
}

// ListByService returns the active reviews of a service, newest first.
func (s *Service) ListByService(ctx context.Context, serviceID pgtype.UUID, page common.PageParams) (Page, error) {
	page = page.Normalize(10)
	rows, err := s.reader.ListServiceReviews(ctx, dbgen.ListServiceReviewsParams{
		ServiceID: serviceID,
		Limit:     page.SQLLimit(),
		Offset:    page.SQLOffset(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("list service reviews: %w", err)
	}
	total, err := s.reader.CountServiceReviews(ctx, serviceID)
	if err != nil {
		return Page{}, fmt.Errorf("count service reviews: %w", err)
	}
	return Page{
		Items:      toReviews(rows),
		Pagination: common.NewPagination(page, total),
	}, nil
}

// ListByUser returns every review written by the user, including inactive ones.
func (s *Service) ListByUser(ctx context.Context, userID pgtype.UUID, page common.PageParams) ([]Review, error) {
	page = page.Normalize(10)
	rows, err := s.reader.ListUserReviews(ctx, dbgen.ListUserReviewsParams{
		UserID: userID,
		Limit:  page.SQLLimit(),
		Offset: page.SQLOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return toReviews(rows), nil
}

// ListModeration returns reviews awaiting or past moderation. Unknown filters
// list every moderated or inactive review.
func (s *Service) ListModeration(ctx context.Context, filter string, page common.PageParams) ([]Review, error) {
	page = page.Normalize(20)
	switch filter {
	case FilterPending, FilterApproved:
	default:
		filter = FilterAll
	}
	rows, err := s.reader.ListModerationQueue(ctx, dbgen.ListModerationQueueParams{
		Filter:     filter,
		PageLimit:  page.SQLLimit(),
		PageOffset: page.SQLOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list moderation queue: %w", err)
	}
	return toReviews(rows), nil
}

// Histogram counts the active reviews of a service per score.
func (s *Service) Histogram(ctx context.Context, serviceID pgtype.UUID) (Histogram, error) {
	if _, err := s.reader.GetService(ctx, serviceID); err != nil {
		if db.IsNotFound(err) {
			return Histogram{}, serviceNotFound()
		}
		return Histogram{}, fmt.Errorf("get service: %w", err)
	}
	rows, err := s.reader.ScoreHistogram(ctx, serviceID)
	if err != nil {
		return Histogram{}, fmt.Errorf("score histogram: %w", err)
	}
	out := Histogram{ServiceID: common.UUIDString(serviceID), Buckets: make([]ScoreBucket, 5)}
	for i := range out.Buckets {
		out.Buckets[i].Score = i + 1
	}
	for _, row := range rows {
		if row.Score < 1 || row.Score > 5 {
			continue
		}
		out.Buckets[row.Score-1].Count = row.Total
		out.Total += row.Total
	}
	return out, nil
}

func toReviews(rows []dbgen.Review) []Review {
	out := make([]Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReview(r))
	}
	return out
}
