package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-turismo/internal/common"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// ErrNotFound is returned when the requested service or destination does not exist or is inactive.
var ErrNotFound = errors.New("catalog: not found")

type queryProvider interface {
	GetService(ctx context.Context, id pgtype.UUID) (dbgen.Service, error)
	GetDestination(ctx context.Context, id pgtype.UUID) (dbgen.Destination, error)
}

// Service serves the read side of services and destinations, including their rating aggregates.
type Service struct {
	queries queryProvider
	cache   *Cache
	logger  zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *Cache
	Logger  zerolog.Logger
}

// ServiceDetail is the public representation of a tourism service.
type ServiceDetail struct {
	ID            string          `json:"id"`
	DestinationID *string         `json:"destinationId,omitempty"`
	ProviderID    string          `json:"providerId"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	MaxCapacity   int             `json:"maxCapacity"`
	Available     bool            `json:"available"`
	AverageScore  decimal.Decimal `json:"averageScore"`
	ReviewCount   int             `json:"reviewCount"`
}

// DestinationDetail is the public representation of a destination.
type DestinationDetail struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Region       string          `json:"region"`
	Province     string          `json:"province"`
	City         string          `json:"city"`
	Description  string          `json:"description"`
	AverageScore decimal.Decimal `json:"averageScore"`
	ReviewCount  int             `json:"reviewCount"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache, logger: cfg.Logger}, nil
}

// ServiceKey is the cache key of a service detail.
func ServiceKey(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return "catalog:service:" + common.UUIDString(id)
}

// DestinationKey is the cache key of a destination detail.
func DestinationKey(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return "catalog:destination:" + common.UUIDString(id)
}

// GetService returns an active service with its current aggregate.
func (s *Service) GetService(ctx context.Context, id pgtype.UUID) (ServiceDetail, error) {
	key := ServiceKey(id)
	var cached ServiceDetail
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}

	row, err := s.queries.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceDetail{}, common.NotFound("service not found", ErrNotFound)
		}
		return ServiceDetail{}, fmt.Errorf("get service: %w", err)
	}
	if !row.IsActive {
		return ServiceDetail{}, common.NotFound("service not found", ErrNotFound)
	}
	detail := toServiceDetail(row)
	if err := s.cache.SetJSON(ctx, key, detail); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return detail, nil
}

// GetDestination returns an active destination with its current aggregate.
func (s *Service) GetDestination(ctx context.Context, id pgtype.UUID) (DestinationDetail, error) {
	key := DestinationKey(id)
	var cached DestinationDetail
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}

	row, err := s.queries.GetDestination(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DestinationDetail{}, common.NotFound("destination not found", ErrNotFound)
		}
		return DestinationDetail{}, fmt.Errorf("get destination: %w", err)
	}
	if !row.IsActive {
		return DestinationDetail{}, common.NotFound("destination not found", ErrNotFound)
	}
	detail := DestinationDetail{
		ID:           common.UUIDString(row.ID),
		Name:         row.Name,
		Slug:         row.Slug,
		Region:       row.Region,
		Province:     row.Province,
		City:         row.City,
		Description:  row.Description,
		AverageScore: row.AverageScore,
		ReviewCount:  int(row.ReviewCount),
	}
	if err := s.cache.SetJSON(ctx, key, detail); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return detail, nil
}

// Invalidate drops cached entries for a service and its destination.
func (s *Service) Invalidate(ctx context.Context, serviceID, destinationID pgtype.UUID) error {
	if s == nil {
		return nil
	}
	return s.cache.Delete(ctx, ServiceKey(serviceID), DestinationKey(destinationID))
}

func toServiceDetail(row dbgen.Service) ServiceDetail {
	return ServiceDetail{
		ID:            common.UUIDString(row.ID),
		DestinationID: common.NullableUUID(row.DestinationID),
		ProviderID:    common.UUIDString(row.ProviderID),
		Name:          row.Name,
		Kind:          row.Kind,
		Description:   row.Description,
		Price:         row.Price,
		MaxCapacity:   int(row.MaxCapacity),
		Available:     row.IsAvailable,
		AverageScore:  row.AverageScore,
		ReviewCount:   int(row.ReviewCount),
	}
}
