package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-turismo/internal/common"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
)

type fakeQueries struct {
	bookings   map[pgtype.UUID]dbgen.Booking
	providers  map[pgtype.UUID]pgtype.UUID
	staleWrite bool
}

func (f *fakeQueries) GetBooking(_ context.Context, id pgtype.UUID) (dbgen.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return dbgen.Booking{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeQueries) GetBookingWithProvider(ctx context.Context, id pgtype.UUID) (dbgen.GetBookingWithProviderRow, error) {
	b, err := f.GetBooking(ctx, id)
	if err != nil {
		return dbgen.GetBookingWithProviderRow{}, err
	}
	return dbgen.GetBookingWithProviderRow{Booking: b, ProviderID: f.providers[b.ServiceID]}, nil
}

func (f *fakeQueries) ListUserBookings(_ context.Context, arg dbgen.ListUserBookingsParams) ([]dbgen.Booking, error) {
	var out []dbgen.Booking
	for _, b := range f.bookings {
		if b.UserID == arg.UserID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeQueries) ListProviderBookings(_ context.Context, arg dbgen.ListProviderBookingsParams) ([]dbgen.Booking, error) {
	var out []dbgen.Booking
	for _, b := range f.bookings {
		if f.providers[b.ServiceID] != arg.ProviderID {
			continue
		}
		if arg.Status.Valid && b.Status != arg.Status.String {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeQueries) TransitionBooking(_ context.Context, arg dbgen.TransitionBookingParams) (int64, error) {
	b, ok := f.bookings[arg.ID]
	if !ok || b.Status != arg.FromStatus || f.staleWrite {
		return 0, nil
	}
	b.Status = arg.ToStatus
	f.bookings[arg.ID] = b
	return 1, nil
}

func (f *fakeQueries) CancelBooking(_ context.Context, arg dbgen.CancelBookingParams) (int64, error) {
	b, ok := f.bookings[arg.ID]
	if !ok || (b.Status != StatusPending && b.Status != StatusConfirmed) || f.staleWrite {
		return 0, nil
	}
	b.Status = StatusCancelled
	b.CancelReason = arg.CancelReason
	b.CancelledAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	f.bookings[arg.ID] = b
	return 1, nil
}

func (f *fakeQueries) HasCompletedBooking(_ context.Context, arg dbgen.HasCompletedBookingParams) (bool, error) {
	for _, b := range f.bookings {
		if b.UserID == arg.UserID && b.ServiceID == arg.ServiceID && b.Status == StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

type topicRecorder struct{ topics []string }

func (r *topicRecorder) Emit(_ context.Context, topic string, _ pgtype.UUID, _ any) (dbgen.DomainEvent, error) {
	r.topics = append(r.topics, topic)
	return dbgen.DomainEvent{}, nil
}

var today = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func id() pgtype.UUID { return pgtype.UUID{Bytes: uuid.New(), Valid: true} }

type fixture struct {
	q        *fakeQueries
	svc      *Service
	rec      *topicRecorder
	user     pgtype.UUID
	provider pgtype.UUID
	service  pgtype.UUID
}

func newFixture() *fixture {
	fx := &fixture{
		q:        &fakeQueries{bookings: map[pgtype.UUID]dbgen.Booking{}, providers: map[pgtype.UUID]pgtype.UUID{}},
		rec:      &topicRecorder{},
		user:     id(),
		provider: id(),
		service:  id(),
	}
	fx.q.providers[fx.service] = fx.provider
	fx.svc = &Service{Q: fx.q, Events: fx.rec, Logger: zerolog.Nop(), Now: func() time.Time { return today }}
	return fx
}

func (fx *fixture) add(status string, date time.Time) pgtype.UUID {
	bid := id()
	fx.q.bookings[bid] = dbgen.Booking{
		ID:          bid,
		Code:        "ABCDEF1234",
		UserID:      fx.user,
		ServiceID:   fx.service,
		ServiceDate: pgtype.Date{Time: date, Valid: true},
		People:      2,
		Status:      status,
		UnitPrice:   decimal.RequireFromString("33.34"),
		Subtotal:    decimal.RequireFromString("66.68"),
		Tax:         decimal.RequireFromString("8.00"),
		Total:       decimal.RequireFromString("74.68"),
	}
	return bid
}

func TestCancelRecordsDefaultReason(t *testing.T) {
	fx := newFixture()
	bid := fx.add(StatusConfirmed, today.AddDate(0, 0, 3))

	b, err := fx.svc.Cancel(context.Background(), fx.user, bid, "  ")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, b.Status)
	require.NotNil(t, b.CancelReason)
	require.Equal(t, DefaultCancelReason, *b.CancelReason)
	require.NotNil(t, b.CancelledAt)
	require.Equal(t, []string{events.TopicBookingCancelled}, fx.rec.topics)

	// The price snapshot is untouched by lifecycle writes.
	require.Equal(t, "74.68", b.Total.StringFixed(2))
}

func TestCancelGuards(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	past := fx.add(StatusPending, today)
	_, err := fx.svc.Cancel(ctx, fx.user, past, "")
	require.ErrorIs(t, err, ErrTooLate)

	done := fx.add(StatusCompleted, today.AddDate(0, 0, 5))
	_, err = fx.svc.Cancel(ctx, fx.user, done, "")
	require.ErrorIs(t, err, ErrInvalidTransition)

	other := fx.add(StatusPending, today.AddDate(0, 0, 5))
	_, err = fx.svc.Cancel(ctx, id(), other, "")
	require.ErrorIs(t, err, ErrNotFound)

	fx.q.staleWrite = true
	_, err = fx.svc.Cancel(ctx, fx.user, other, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, fx.rec.topics)
}

func TestProviderLifecycle(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	bid := fx.add(StatusPending, today.AddDate(0, 0, 1))

	_, err := fx.svc.CompleteByProvider(ctx, fx.provider, bid)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = fx.svc.ConfirmByProvider(ctx, id(), bid)
	require.ErrorIs(t, err, ErrNotProvider)

	b, err := fx.svc.ConfirmByProvider(ctx, fx.provider, bid)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, b.Status)

	ok, err := fx.svc.HasCompleted(ctx, fx.user, fx.service)
	require.NoError(t, err)
	require.False(t, ok)

	b, err = fx.svc.CompleteByProvider(ctx, fx.provider, bid)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, b.Status)

	ok, err = fx.svc.HasCompleted(ctx, fx.user, fx.service)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{events.TopicBookingConfirmed, events.TopicBookingCompleted}, fx.rec.topics)
}

func TestConcurrentTransitionLosesRace(t *testing.T) {
	fx := newFixture()
	bid := fx.add(StatusPending, today.AddDate(0, 0, 1))
	fx.q.staleWrite = true

	_, err := fx.svc.ConfirmByProvider(context.Background(), fx.provider, bid)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListForProviderFiltersStatus(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	fx.add(StatusPending, today.AddDate(0, 0, 1))
	fx.add(StatusConfirmed, today.AddDate(0, 0, 2))

	all, err := fx.svc.ListForProvider(ctx, fx.provider, "", common.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending, err := fx.svc.ListForProvider(ctx, fx.provider, StatusPending, common.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = fx.svc.ListForProvider(ctx, fx.provider, "archived", common.PageParams{Page: 1, Limit: 20})
	require.Error(t, err)
}

func TestAfterToday(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	require.False(t, AfterToday(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), now))
	require.True(t, AfterToday(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), now))
	require.False(t, AfterToday(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), now))
}
