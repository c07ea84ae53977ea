package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/events"
	"github.com/noah-isme/backend-turismo/internal/obs"
	"github.com/noah-isme/backend-turismo/internal/pricing"
)

var (
	// ErrEmptyCart is returned when there is nothing to confirm.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrServiceUnavailable is returned when a cart service was deactivated after being added.
	ErrServiceUnavailable = errors.New("checkout: service no longer available")
	// ErrCodeExhausted is returned when no unique booking code could be generated.
	ErrCodeExhausted = errors.New("checkout: could not allocate a booking code")
)

const (
	bookingCodeConstraint = "bookings_code_key"
	codeAttempts          = 3
)

// Querier lists the statements a checkout transaction runs.
type Querier interface {
	ListCartItemsForUpdate(ctx context.Context, userID pgtype.UUID) ([]dbgen.ListCartItemsForUpdateRow, error)
	CreateBooking(ctx context.Context, arg dbgen.CreateBookingParams) (dbgen.Booking, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) error
}

// Store runs fn in one transaction.
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

// Service turns a cart into bookings.
type Service struct {
	Store   Store
	// TaxRate is applied as given, so zero means untaxed.
	TaxRate decimal.Decimal
	Events  events.Emitter
	Logger  zerolog.Logger
	// NewCode allocates booking codes. Defaults to booking.GenerateCode.
	NewCode func() (string, error)
}

// Input carries optional checkout details.
type Input struct {
	Notes string `json:"notes" validate:"max=1000"`
}

func (s *Service) newCode() (string, error) {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return booking.GenerateCode()
}

// Confirm creates one pending booking per cart item and empties the cart, all
// in one transaction. Each booking stores the price snapshot computed from the
// service price read under lock. Any failure leaves the cart untouched.
func (s *Service) Confirm(ctx context.Context, userID pgtype.UUID, in Input) ([]booking.Booking, error) {
	if err := common.ValidateStruct(in); err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(in.Notes)
	rate := s.TaxRate

	var created []dbgen.Booking
	var err error
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		created, err = s.confirmOnce(ctx, userID, notes, rate)
		if err == nil || !db.IsUniqueViolation(err, bookingCodeConstraint) {
			break
		}
		s.Logger.Warn().Int("attempt", attempt).Msg("booking code collision, retrying checkout")
		err = fmt.Errorf("%w: %v", ErrCodeExhausted, err)
	}
	if err != nil {
		return nil, err
	}

	obs.ObserveBookingsCreated(len(created))
	out := make([]booking.Booking, 0, len(created))
	for _, row := range created {
		booking.Publish(ctx, s.Events, s.Logger, events.TopicBookingCreated, row)
		out = append(out, booking.ToBooking(row))
	}
	s.Logger.Info().Str("user_id", common.UUIDString(userID)).Int("bookings", len(out)).Msg("cart confirmed")
	return out, nil
}

func (s *Service) confirmOnce(ctx context.Context, userID pgtype.UUID, notes string, rate decimal.Decimal) ([]dbgen.Booking, error) {
	var created []dbgen.Booking
	err := s.Store.InTx(ctx, func(q Querier) error {
		created = created[:0]
		items, err := q.ListCartItemsForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		if len(items) == 0 {
			return common.Conflict("CART_EMPTY", "cart is empty", ErrEmptyCart)
		}
		for _, item := range items {
			if !item.IsActive || !item.IsAvailable {
				return common.Conflict("SERVICE_UNAVAILABLE", item.ServiceName+" is no longer available", ErrServiceUnavailable)
			}
			code, err := s.newCode()
			if err != nil {
				return err
			}
			line := pricing.ComputeLine(item.Price, int(item.People), rate)
			row, err := q.CreateBooking(ctx, dbgen.CreateBookingParams{
				Code:        code,
				UserID:      userID,
				ServiceID:   item.ServiceID,
				ServiceDate: item.ServiceDate,
				People:      item.People,
				Status:      booking.StatusPending,
				UnitPrice:   line.UnitPrice,
				Subtotal:    line.Subtotal,
				Tax:         line.Tax,
				Total:       line.Total,
				Notes:       notes,
			})
			if err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
			created = append(created, row)
		}
		if err := q.ClearCart(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
