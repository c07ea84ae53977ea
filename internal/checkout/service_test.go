package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
)

func newID() pgtype.UUID { return pgtype.UUID{Bytes: uuid.New(), Valid: true} }

type memStore struct {
	cart     []dbgen.ListCartItemsForUpdateRow
	bookings []dbgen.Booking
	failOn   int
}

func (m *memStore) InTx(_ context.Context, fn func(q Querier) error) error {
	tx := &memTx{store: m, cart: append([]dbgen.ListCartItemsForUpdateRow(nil), m.cart...)}
	if err := fn(tx); err != nil {
		return err
	}
	m.cart = tx.cart
	m.bookings = append(m.bookings, tx.created...)
	return nil
}

type memTx struct {
	store   *memStore
	cart    []dbgen.ListCartItemsForUpdateRow
	created []dbgen.Booking
}

func (t *memTx) ListCartItemsForUpdate(_ context.Context, userID pgtype.UUID) ([]dbgen.ListCartItemsForUpdateRow, error) {
	var out []dbgen.ListCartItemsForUpdateRow
	for _, it := range t.cart {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (t *memTx) CreateBooking(_ context.Context, arg dbgen.CreateBookingParams) (dbgen.Booking, error) {
	if t.store.failOn > 0 && len(t.created)+1 == t.store.failOn {
		return dbgen.Booking{}, errors.New("insert failed")
	}
	b := dbgen.Booking{
		ID: newID(), Code: arg.Code, UserID: arg.UserID, ServiceID: arg.ServiceID, ServiceDate: arg.ServiceDate,
		People: arg.People, Status: arg.Status, UnitPrice: arg.UnitPrice, Subtotal: arg.Subtotal, Tax: arg.Tax,
		Total: arg.Total, Notes: arg.Notes,
	}
	t.created = append(t.created, b)
	return b, nil
}

func (t *memTx) ClearCart(_ context.Context, userID pgtype.UUID) error {
	kept := t.cart[:0]
	for _, it := range t.cart {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	t.cart = kept
	return nil
}

type topicRecorder struct{ topics []string }

func (r *topicRecorder) Emit(_ context.Context, topic string, _ pgtype.UUID, _ any) (dbgen.DomainEvent, error) {
	r.topics = append(r.topics, topic)
	return dbgen.DomainEvent{}, nil
}

func cartRow(user pgtype.UUID, price string, people int32) dbgen.ListCartItemsForUpdateRow {
	return dbgen.ListCartItemsForUpdateRow{
		ID:          newID(),
		UserID:      user,
		ServiceID:   newID(),
		ServiceDate: pgtype.Date{Time: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		People:      people,
		ServiceName: "Tour Cuyabeno",
		Price:       decimal.RequireFromString(price),
		MaxCapacity: 10,
		IsAvailable: true,
		IsActive:    true,
	}
}

func sequentialCodes() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("CODE%06d", n), nil
	}
}

func TestConfirmSnapshotsPricesAndClearsCart(t *testing.T) {
	user := newID()
	other := newID()
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{
		cartRow(user, "33.335", 3),
		cartRow(user, "0.125", 1),
		cartRow(other, "50", 1),
	}}
	rec := &topicRecorder{}
	svc := &Service{Store: store, TaxRate: decimal.RequireFromString("0.12"), Events: rec, Logger: zerolog.Nop(), NewCode: sequentialCodes()}

	out, err := svc.Confirm(context.Background(), user, Input{Notes: "  llegamos tarde  "})
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	require.Equal(t, booking.StatusPending, first.Status)
	require.Equal(t, "CODE000001", first.Code)
	require.Equal(t, "100.01", first.Subtotal.StringFixed(2))
	require.Equal(t, "12.00", first.Tax.StringFixed(2))
	require.Equal(t, "112.01", first.Total.StringFixed(2))
	require.Equal(t, "llegamos tarde", first.Notes)
	require.Equal(t, "2025-07-01", first.ServiceDate)

	second := out[1]
	require.Equal(t, "0.13", second.Subtotal.StringFixed(2))
	require.Equal(t, "0.02", second.Tax.StringFixed(2))
	require.Equal(t, "0.15", second.Total.StringFixed(2))

	require.Len(t, store.cart, 1)
	require.Equal(t, other, store.cart[0].UserID)
	require.Equal(t, []string{events.TopicBookingCreated, events.TopicBookingCreated}, rec.topics)
}

func TestSnapshotIgnoresLaterPriceChanges(t *testing.T) {
	user := newID()
	item := cartRow(user, "45.00", 2)
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{item}}
	svc := &Service{Store: store, TaxRate: decimal.RequireFromString("0.12"), Logger: zerolog.Nop(), NewCode: sequentialCodes()}

	_, err := svc.Confirm(context.Background(), user, Input{})
	require.NoError(t, err)
	require.Len(t, store.bookings, 1)
	stored := store.bookings[0]

	repriced := item
	repriced.ID = newID()
	repriced.Price = decimal.RequireFromString("99.99")
	store.cart = append(store.cart, repriced)
	_, err = svc.Confirm(context.Background(), user, Input{})
	require.NoError(t, err)
	require.Len(t, store.bookings, 2)

	require.Equal(t, "45.00", stored.UnitPrice.StringFixed(2))
	require.Equal(t, "90.00", stored.Subtotal.StringFixed(2))
	require.Equal(t, "10.80", stored.Tax.StringFixed(2))
	require.Equal(t, "100.80", stored.Total.StringFixed(2))
	require.Equal(t, stored, store.bookings[0])
	require.Equal(t, "99.99", store.bookings[1].UnitPrice.StringFixed(2))
}

func TestConfirmWithZeroTaxRate(t *testing.T) {
	user := newID()
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{cartRow(user, "100.00", 1)}}
	svc := &Service{Store: store, TaxRate: decimal.Zero, Logger: zerolog.Nop(), NewCode: sequentialCodes()}

	out, err := svc.Confirm(context.Background(), user, Input{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Tax.IsZero())
	require.Equal(t, "100.00", out[0].Total.StringFixed(2))
	require.True(t, store.bookings[0].Tax.IsZero())
}

func TestConfirmEmptyCart(t *testing.T) {
	svc := &Service{Store: &memStore{}, Logger: zerolog.Nop()}
	_, err := svc.Confirm(context.Background(), newID(), Input{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmFailureLeavesCartUnchanged(t *testing.T) {
	user := newID()
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{cartRow(user, "10", 1), cartRow(user, "20", 1)}, failOn: 2}
	svc := &Service{Store: store, Logger: zerolog.Nop(), NewCode: sequentialCodes()}

	_, err := svc.Confirm(context.Background(), user, Input{})
	require.Error(t, err)
	require.Len(t, store.cart, 2)
	require.Empty(t, store.bookings)
}

func TestConfirmRejectsUnavailableService(t *testing.T) {
	user := newID()
	row := cartRow(user, "10", 1)
	row.IsAvailable = false
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{cartRow(user, "10", 1), row}}
	svc := &Service{Store: store, Logger: zerolog.Nop(), NewCode: sequentialCodes()}

	_, err := svc.Confirm(context.Background(), user, Input{})
	require.ErrorIs(t, err, ErrServiceUnavailable)
	require.Len(t, store.cart, 2)
	require.Empty(t, store.bookings)
}

var cartColumns = []string{"id", "user_id", "service_id", "service_date", "people", "added_at",
	"service_name", "price", "max_capacity", "is_available", "is_active", "destination_id"}

var bookingColumns = []string{"id", "code", "user_id", "service_id", "service_date", "people", "status", "unit_price",
	"subtotal", "tax", "total", "notes", "cancelled_at", "cancel_reason", "created_at", "updated_at"}

func TestConfirmRetriesBookingCodeCollision(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newID()
	item := cartRow(user, "25.00", 2)
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	expectCart := func() {
		mock.ExpectQuery(`FROM cart_items ci\s+JOIN services s`).
			WithArgs(user).
			WillReturnRows(pgxmock.NewRows(cartColumns).AddRow(
				item.ID, item.UserID, item.ServiceID, item.ServiceDate, item.People, now,
				item.ServiceName, item.Price, item.MaxCapacity, item.IsAvailable, item.IsActive, item.DestinationID))
	}

	mock.ExpectBegin()
	expectCart()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs("CODE000001", user, item.ServiceID, item.ServiceDate, int32(2), booking.StatusPending,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "").
		WillReturnError(&pgconn.PgError{Code: db.CodeUniqueViolation, ConstraintName: bookingCodeConstraint})
	mock.ExpectRollback()

	mock.ExpectBegin()
	expectCart()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs("CODE000002", user, item.ServiceID, item.ServiceDate, int32(2), booking.StatusPending,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "").
		WillReturnRows(pgxmock.NewRows(bookingColumns).AddRow(
			newID(), "CODE000002", user, item.ServiceID, item.ServiceDate, int32(2), booking.StatusPending,
			decimal.RequireFromString("25.00"), decimal.RequireFromString("50.00"), decimal.RequireFromString("6.00"),
			decimal.RequireFromString("56.00"), "", pgtype.Timestamptz{}, pgtype.Text{}, now, now))
	mock.ExpectExec(`DELETE FROM cart_items\s+WHERE user_id = \$1`).
		WithArgs(user).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	svc := &Service{Store: PGStore{Tx: &db.Transactor{Pool: mock}}, Logger: zerolog.Nop(), NewCode: sequentialCodes()}
	out, err := svc.Confirm(context.Background(), user, Input{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "CODE000002", out[0].Code)
	require.Equal(t, "56.00", out[0].Total.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRollsBackWhenClearFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := newID()
	item := cartRow(user, "25.00", 1)
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM cart_items ci`).
		WithArgs(user).
		WillReturnRows(pgxmock.NewRows(cartColumns).AddRow(
			item.ID, item.UserID, item.ServiceID, item.ServiceDate, item.People, now,
			item.ServiceName, item.Price, item.MaxCapacity, item.IsAvailable, item.IsActive, item.DestinationID))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(pgxmock.NewRows(bookingColumns).AddRow(
			newID(), "CODE000001", user, item.ServiceID, item.ServiceDate, int32(1), booking.StatusPending,
			decimal.RequireFromString("25.00"), decimal.RequireFromString("25.00"), decimal.RequireFromString("3.00"),
			decimal.RequireFromString("28.00"), "", pgtype.Timestamptz{}, pgtype.Text{}, now, now))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WithArgs(user).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	svc := &Service{Store: PGStore{Tx: &db.Transactor{Pool: mock}}, Logger: zerolog.Nop(), NewCode: sequentialCodes()}
	_, err = svc.Confirm(context.Background(), user, Input{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerConfirm(t *testing.T) {
	user := newID()
	store := &memStore{cart: []dbgen.ListCartItemsForUpdateRow{cartRow(user, "10", 2)}}
	h := &Handler{Svc: &Service{Store: store, Logger: zerolog.Nop(), NewCode: sequentialCodes()}}
	withUser := func(req *http.Request) *http.Request {
		return req.WithContext(common.WithUserID(req.Context(), common.UUIDString(user)))
	}

	rec := httptest.NewRecorder()
	h.Confirm(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"CODE000001"`)

	rec = httptest.NewRecorder()
	h.Confirm(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil)))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "CART_EMPTY")

	rec = httptest.NewRecorder()
	h.Confirm(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", strings.NewReader(`{"notes":`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Confirm(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
