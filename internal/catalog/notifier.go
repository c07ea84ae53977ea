package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-turismo/internal/common"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
)

// InvalidationNotifier drops cached aggregates when a review changes.
type InvalidationNotifier struct {
	Service *Service
}

// Notify implements events.Notifier.
func (n InvalidationNotifier) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if n.Service == nil || event.Topic != events.TopicReviewChanged {
		return nil
	}
	var payload events.ReviewChanged
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode review event: %w", err)
	}
	serviceID, err := common.ParseUUID(payload.ServiceID)
	if err != nil {
		return fmt.Errorf("review event service id: %w", err)
	}
	var destinationID pgtype.UUID
	if payload.DestinationID != "" {
		if destinationID, err = common.ParseUUID(payload.DestinationID); err != nil {
			return fmt.Errorf("review event destination id: %w", err)
		}
	}
	return n.Service.Invalidate(ctx, serviceID, destinationID)
}
