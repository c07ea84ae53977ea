package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
	"github.com/noah-isme/backend-turismo/internal/obs"
)

// Booking states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// DefaultCancelReason is recorded when a tourist cancels without giving a reason.
const DefaultCancelReason = "Sin motivo especificado"

// DateLayout is the wire format of service dates.
const DateLayout = "2006-01-02"

// Querier is the persistence surface of the booking lifecycle.
type Querier interface {
	GetBooking(ctx context.Context, id pgtype.UUID) (dbgen.Booking, error)
	GetBookingWithProvider(ctx context.Context, id pgtype.UUID) (dbgen.GetBookingWithProviderRow, error)
	ListUserBookings(ctx context.Context, arg dbgen.ListUserBookingsParams) ([]dbgen.Booking, error)
	ListProviderBookings(ctx context.Context, arg dbgen.ListProviderBookingsParams) ([]dbgen.Booking, error)
	TransitionBooking(ctx context.Context, arg dbgen.TransitionBookingParams) (int64, error)
	CancelBooking(ctx context.Context, arg dbgen.CancelBookingParams) (int64, error)
	HasCompletedBooking(ctx context.Context, arg dbgen.HasCompletedBookingParams) (bool, error)
}

// Booking is the public representation of a reservation and its price snapshot.
type Booking struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	UserID       string          `json:"userId"`
	ServiceID    string          `json:"serviceId"`
	ServiceDate  string          `json:"serviceDate"`
	People       int             `json:"people"`
	Status       string          `json:"status"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason *string         `json:"cancelReason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Service implements the booking state machine.
type Service struct {
	Q      Querier
	Events events.Emitter
	Logger zerolog.Logger
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns a booking owned by the user.
func (s *Service) Get(ctx context.Context, userID, bookingID pgtype.UUID) (Booking, error) {
	row, err := s.Q.GetBooking(ctx, bookingID)
	if err != nil {
		if db.IsNotFound(err) {
			return Booking{}, notFound()
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	if !common.UUIDEqual(row.UserID, userID) {
		return Booking{}, notFound()
	}
	return ToBooking(row), nil
}

// ListForUser returns the user's bookings, newest first.
func (s *Service) ListForUser(ctx context.Context, userID pgtype.UUID, page common.PageParams) ([]Booking, error) {
	page = page.Normalize(20)
	rows, err := s.Q.ListUserBookings(ctx, dbgen.ListUserBookingsParams{
		UserID: userID,
		Limit:  page.SQLLimit(),
		Offset: page.SQLOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return toBookings(rows), nil
}

// ListForProvider returns bookings of the provider's services, optionally filtered by status.
func (s *Service) ListForProvider(ctx context.Context, providerID pgtype.UUID, status string, page common.PageParams) ([]Booking, error) {
	page = page.Normalize(20)
	status = strings.TrimSpace(status)
	if status != "" && !validStatus(status) {
		return nil, common.Validation("unknown booking status", nil, map[string]string{"status": "must be one of: pending confirmed cancelled completed"})
	}
	rows, err := s.Q.ListProviderBookings(ctx, dbgen.ListProviderBookingsParams{
		ProviderID: providerID,
		Status:     pgtype.Text{String: status, Valid: status != ""},
		PageLimit:  page.SQLLimit(),
		PageOffset: page.SQLOffset(),
	})
	if err != nil {
		return nil, fmt.Errorf("list provider bookings: %w", err)
	}
	return toBookings(rows), nil
}

// HasCompleted reports whether the user has a completed booking for the service.
func (s *Service) HasCompleted(ctx context.Context, userID, serviceID pgtype.UUID) (bool, error) {
	ok, err := s.Q.HasCompletedBooking(ctx, dbgen.HasCompletedBookingParams{UserID: userID, ServiceID: serviceID})
	if err != nil {
		return false, fmt.Errorf("has completed booking: %w", err)
	}
	return ok, nil
}

// Cancel cancels a pending or confirmed booking of the user before its service date.
func (s *Service) Cancel(ctx context.Context, userID, bookingID pgtype.UUID, reason string) (Booking, error) {
	current, err := s.Get(ctx, userID, bookingID)
	if err != nil {
		return Booking{}, err
	}
	if current.Status != StatusPending && current.Status != StatusConfirmed {
		return Booking{}, invalidTransition(current.Status, StatusCancelled)
	}
	if !afterToday(current.ServiceDate, s.now()) {
		return Booking{}, tooLate()
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}
	rows, err := s.Q.CancelBooking(ctx, dbgen.CancelBookingParams{
		ID:           bookingID,
		CancelReason: pgtype.Text{String: reason, Valid: true},
	})
	if err != nil {
		return Booking{}, fmt.Errorf("cancel booking: %w", err)
	}
	if rows == 0 {
		return Booking{}, invalidTransition(current.Status, StatusCancelled)
	}
	return s.finish(ctx, bookingID, StatusCancelled, events.TopicBookingCancelled)
}

// ConfirmByProvider moves a pending booking of one of the provider's services to confirmed.
func (s *Service) ConfirmByProvider(ctx context.Context, providerID, bookingID pgtype.UUID) (Booking, error) {
	return s.transition(ctx, providerID, bookingID, StatusPending, StatusConfirmed, events.TopicBookingConfirmed)
}

// CompleteByProvider moves a confirmed booking to completed, which makes the
// tourist eligible to review the service.
func (s *Service) CompleteByProvider(ctx context.Context, providerID, bookingID pgtype.UUID) (Booking, error) {
	return s.transition(ctx, providerID, bookingID, StatusConfirmed, StatusCompleted, events.TopicBookingCompleted)
}

func (s *Service) transition(ctx context.Context, providerID, bookingID pgtype.UUID, from, to, topic string) (Booking, error) {
	row, err := s.Q.GetBookingWithProvider(ctx, bookingID)
	if err != nil {
		if db.IsNotFound(err) {
			return Booking{}, notFound()
		}
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	if !common.UUIDEqual(row.ProviderID, providerID) {
		return Booking{}, notProvider()
	}
	if row.Booking.Status != from {
		return Booking{}, invalidTransition(row.Booking.Status, to)
	}
	n, err := s.Q.TransitionBooking(ctx, dbgen.TransitionBookingParams{ToStatus: to, ID: bookingID, FromStatus: from})
	if err != nil {
		return Booking{}, fmt.Errorf("transition booking: %w", err)
	}
	if n == 0 {
		return Booking{}, invalidTransition(from, to)
	}
	return s.finish(ctx, bookingID, to, topic)
}

func (s *Service) finish(ctx context.Context, bookingID pgtype.UUID, to, topic string) (Booking, error) {
	obs.ObserveBookingTransition(to)
	row, err := s.Q.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, fmt.Errorf("reload booking: %w", err)
	}
	out := ToBooking(row)
	s.Logger.Info().Str("booking_id", out.ID).Str("code", out.Code).Str("status", to).Msg("booking transitioned")
	Publish(ctx, s.Events, s.Logger, topic, row)
	return out, nil
}

// Publish emits a booking event, logging instead of failing when the bus is unavailable.
func Publish(ctx context.Context, emitter events.Emitter, logger zerolog.Logger, topic string, row dbgen.Booking) {
	if emitter == nil {
		return
	}
	payload := events.BookingChanged{
		BookingID: common.UUIDString(row.ID),
		Code:      row.Code,
		ServiceID: common.UUIDString(row.ServiceID),
		UserID:    common.UUIDString(row.UserID),
		Status:    row.Status,
	}
	if _, err := emitter.Emit(ctx, topic, row.ID, payload); err != nil {
		logger.Warn().Err(err).Str("booking_id", payload.BookingID).Str("topic", topic).Msg("emit booking event failed")
	}
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// afterToday reports whether the service date lies strictly after now's UTC day.
func afterToday(serviceDate string, now time.Time) bool {
	d, err := time.Parse(DateLayout, serviceDate)
	if err != nil {
		return false
	}
	return AfterToday(d, now)
}

// AfterToday reports whether date's calendar day is strictly after now's UTC day.
func AfterToday(date, now time.Time) bool {
	today := now.UTC().Truncate(24 * time.Hour)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(today)
}

// FormatDate renders a DATE column.
func FormatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// ToBooking converts a stored booking row.
func ToBooking(row dbgen.Booking) Booking {
	out := Booking{
		ID:           common.UUIDString(row.ID),
		Code:         row.Code,
		UserID:       common.UUIDString(row.UserID),
		ServiceID:    common.UUIDString(row.ServiceID),
		ServiceDate:  FormatDate(row.ServiceDate),
		People:       int(row.People),
		Status:       row.Status,
		UnitPrice:    row.UnitPrice,
		Subtotal:     row.Subtotal,
		Tax:          row.Tax,
		Total:        row.Total,
		Notes:        row.Notes,
		CancelReason: common.NullableText(row.CancelReason),
		CreatedAt:    row.CreatedAt.Time,
	}
	if row.CancelledAt.Valid {
		t := row.CancelledAt.Time
		out.CancelledAt = &t
	}
	return out
}

func toBookings(rows []dbgen.Booking) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToBooking(row))
	}
	return out
}
