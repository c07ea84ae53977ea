package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/obs"
)

var (
	// ErrUnknownTopic is returned by Emit for topics outside the published set.
	ErrUnknownTopic = errors.New("events: unknown topic")

	errNoStore = errors.New("events: store not configured")
)

// EventStore appends domain events to the outbox table.
type EventStore interface {
	InsertDomainEvent(ctx context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error)
}

// Notifier reacts to a stored event, typically by dropping cached reads.
type Notifier interface {
	Notify(ctx context.Context, event dbgen.DomainEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event dbgen.DomainEvent) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	return f(ctx, event)
}

// Emitter publishes an event once the write that produced it has committed.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

var _ Emitter = (*Bus)(nil)

// Bus stores review and booking events and hands each one to every notifier.
// A failing notifier does not stop the others; their errors are joined.
type Bus struct {
	Store     EventStore
	Notifiers []Notifier
}

// Emit stores the event and then runs the notifiers in order.
func (b *Bus) Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	ev, err := b.store(ctx, topic, aggregateID, payload)
	if err != nil {
		obs.ObserveEventEmitted(topic, "rejected")
		return dbgen.DomainEvent{}, err
	}

	var errs []error
	for _, n := range b.Notifiers {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("events: notify %s: %w", ev.Topic, err))
		}
	}
	if len(errs) > 0 {
		obs.ObserveEventEmitted(topic, "notify_failed")
		return ev, errors.Join(errs...)
	}
	obs.ObserveEventEmitted(topic, "ok")
	return ev, nil
}

func (b *Bus) store(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	if b == nil || b.Store == nil {
		return dbgen.DomainEvent{}, errNoStore
	}
	if !Known(topic) {
		return dbgen.DomainEvent{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	if !aggregateID.Valid {
		return dbgen.DomainEvent{}, errors.New("events: aggregate id is required")
	}
	body, err := encodePayload(payload)
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: encode %s payload: %w", topic, err)
	}
	ev, err := b.Store.InsertDomainEvent(ctx, dbgen.InsertDomainEventParams{
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     body,
	})
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: store %s: %w", topic, err)
	}
	return ev, nil
}

// encodePayload marshals typed payloads. Pre-encoded json.RawMessage is
// checked and copied; nil becomes an empty object.
func encodePayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		if len(v) == 0 {
			return []byte("{}"), nil
		}
		if !json.Valid(v) {
			return nil, errors.New("raw payload is not valid json")
		}
		return append([]byte(nil), v...), nil
	default:
		return json.Marshal(v)
	}
}
