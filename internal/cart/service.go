package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-turismo/internal/booking"
	"github.com/noah-isme/backend-turismo/internal/common"
	"github.com/noah-isme/backend-turismo/internal/db"
	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
	"github.com/noah-isme/backend-turismo/internal/pricing"
)

var (
	// ErrItemNotFound indicates the cart item does not exist or belongs to another user.
	ErrItemNotFound = errors.New("cart: item not found")
	// ErrServiceUnavailable is returned for inactive or unavailable services.
	ErrServiceUnavailable = errors.New("cart: service unavailable")
	// ErrCapacityExceeded is returned when people exceeds the service capacity.
	ErrCapacityExceeded = errors.New("cart: capacity exceeded")
	// ErrInvalidDate is returned for service dates that are not in the future.
	ErrInvalidDate = errors.New("cart: service date must be after today")
	// ErrInvalidPeople is returned when people is below one.
	ErrInvalidPeople = errors.New("cart: people must be at least 1")
)

const cartItemConstraint = "cart_items_user_id_service_id_service_date_key"

// ExpiringAfter marks items older than this as about to expire in the cart view.
const ExpiringAfter = 24 * time.Hour

// Querier lists the statements used by the cart.
type Querier interface {
	GetService(ctx context.Context, id pgtype.UUID) (dbgen.Service, error)
	FindCartItem(ctx context.Context, arg dbgen.FindCartItemParams) (dbgen.CartItem, error)
	GetCartItem(ctx context.Context, arg dbgen.GetCartItemParams) (dbgen.CartItem, error)
	CreateCartItem(ctx context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error)
	UpdateCartItemPeople(ctx context.Context, arg dbgen.UpdateCartItemPeopleParams) (dbgen.CartItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) (int64, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) error
	ListCartItems(ctx context.Context, userID pgtype.UUID) ([]dbgen.ListCartItemsRow, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Q        Querier
	// TaxRate is applied as given, so zero means untaxed.
	TaxRate  decimal.Decimal
	// Currency is echoed on the price preview. Defaults to USD.
	Currency string
	Now      func() time.Time
}

// Item is a priced cart line.
type Item struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	ServiceDate string          `json:"serviceDate"`
	People      int             `json:"people"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Available   bool            `json:"available"`
	Expiring    bool            `json:"expiring"`
	AddedAt     time.Time       `json:"addedAt"`
}

// View is the cart with its price preview.
type View struct {
	Items    []Item          `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	TaxRate  decimal.Decimal `json:"taxRate"`
	Currency string          `json:"currency"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "USD"
	}
	return s.Currency
}

// Add puts a service on the cart for a date. Adding a service already in the
// cart for the same date increments its people count.
func (s *Service) Add(ctx context.Context, userID, serviceID pgtype.UUID, date time.Time, people int) (dbgen.CartItem, error) {
	if people < 1 {
		return dbgen.CartItem{}, invalidPeople()
	}
	if !booking.AfterToday(date, s.now()) {
		return dbgen.CartItem{}, common.Validation("service date must be after today", ErrInvalidDate, map[string]string{"serviceDate": "must be after today"})
	}
	svc, err := s.bookable(ctx, serviceID)
	if err != nil {
		return dbgen.CartItem{}, err
	}
	serviceDate := pgtype.Date{Time: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), Valid: true}

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.Q.FindCartItem(ctx, dbgen.FindCartItemParams{UserID: userID, ServiceID: serviceID, ServiceDate: serviceDate})
		switch {
		case err == nil:
			total := int(existing.People) + people
			if total > int(svc.MaxCapacity) {
				return dbgen.CartItem{}, capacityExceeded(int(svc.MaxCapacity))
			}
			return s.Q.UpdateCartItemPeople(ctx, dbgen.UpdateCartItemPeopleParams{ID: existing.ID, UserID: userID, People: int32(total)})
		case !db.IsNotFound(err):
			return dbgen.CartItem{}, fmt.Errorf("find cart item: %w", err)
		}

		if people > int(svc.MaxCapacity) {
			return dbgen.CartItem{}, capacityExceeded(int(svc.MaxCapacity))
		}
		item, err := s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
			UserID:      userID,
			ServiceID:   serviceID,
			ServiceDate: serviceDate,
			People:      int32(people),
		})
		if err == nil {
			return item, nil
		}
		if !db.IsUniqueViolation(err, cartItemConstraint) {
			return dbgen.CartItem{}, fmt.Errorf("create cart item: %w", err)
		}
		// A concurrent add created the row first; merge into it.
	}
	return dbgen.CartItem{}, common.Conflict("CART_CONFLICT", "cart changed concurrently, retry", nil)
}

// UpdatePeople sets the people count of a cart item.
func (s *Service) UpdatePeople(ctx context.Context, userID, itemID pgtype.UUID, people int) (dbgen.CartItem, error) {
	if people < 1 {
		return dbgen.CartItem{}, invalidPeople()
	}
	item, err := s.Q.GetCartItem(ctx, dbgen.GetCartItemParams{ID: itemID, UserID: userID})
	if err != nil {
		if db.IsNotFound(err) {
			return dbgen.CartItem{}, itemNotFound()
		}
		return dbgen.CartItem{}, fmt.Errorf("get cart item: %w", err)
	}
	svc, err := s.bookable(ctx, item.ServiceID)
	if err != nil {
		return dbgen.CartItem{}, err
	}
	if people > int(svc.MaxCapacity) {
		return dbgen.CartItem{}, capacityExceeded(int(svc.MaxCapacity))
	}
	updated, err := s.Q.UpdateCartItemPeople(ctx, dbgen.UpdateCartItemPeopleParams{ID: itemID, UserID: userID, People: int32(people)})
	if err != nil {
		if db.IsNotFound(err) {
			return dbgen.CartItem{}, itemNotFound()
		}
		return dbgen.CartItem{}, fmt.Errorf("update cart item: %w", err)
	}
	return updated, nil
}

// Remove deletes one item from the user's cart.
func (s *Service) Remove(ctx context.Context, userID, itemID pgtype.UUID) error {
	n, err := s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: itemID, UserID: userID})
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n == 0 {
		return itemNotFound()
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID pgtype.UUID) error {
	if err := s.Q.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// View prices every item at the service's current price with the same
// function checkout uses for the booking snapshot.
func (s *Service) View(ctx context.Context, userID pgtype.UUID) (View, error) {
	rows, err := s.Q.ListCartItems(ctx, userID)
	if err != nil {
		return View{}, fmt.Errorf("list cart items: %w", err)
	}
	rate := s.TaxRate
	now := s.now()
	view := View{Items: make([]Item, 0, len(rows)), TaxRate: rate, Currency: s.currency()}
	lines := make([]pricing.Line, 0, len(rows))
	for _, row := range rows {
		line := pricing.ComputeLine(row.Price, int(row.People), rate)
		lines = append(lines, line)
		view.Items = append(view.Items, Item{
			ID:          common.UUIDString(row.ID),
			ServiceID:   common.UUIDString(row.ServiceID),
			ServiceName: row.ServiceName,
			ServiceDate: booking.FormatDate(row.ServiceDate),
			People:      int(row.People),
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
			Tax:         line.Tax,
			Total:       line.Total,
			Available:   row.IsActive && row.IsAvailable,
			Expiring:    row.AddedAt.Valid && now.Sub(row.AddedAt.Time) > ExpiringAfter,
			AddedAt:     row.AddedAt.Time,
		})
	}
	sum := pricing.Summarize(lines)
	view.Subtotal, view.Tax, view.Total = sum.Subtotal, sum.Tax, sum.Total
	return view, nil
}

func (s *Service) bookable(ctx context.Context, serviceID pgtype.UUID) (dbgen.Service, error) {
	svc, err := s.Q.GetService(ctx, serviceID)
	if err != nil {
		if db.IsNotFound(err) {
			return dbgen.Service{}, common.NotFound("service not found", ErrServiceUnavailable)
		}
		return dbgen.Service{}, fmt.Errorf("get service: %w", err)
	}
	if !svc.IsActive || !svc.IsAvailable {
		return dbgen.Service{}, common.Conflict("SERVICE_UNAVAILABLE", "service is not available", ErrServiceUnavailable)
	}
	return svc, nil
}

func invalidPeople() error {
	return common.Validation("people must be at least 1", ErrInvalidPeople, map[string]string{"people": "must be at least 1"})
}

func capacityExceeded(max int) error {
	msg := fmt.Sprintf("must be at most %d", max)
	return common.Validation("people exceeds service capacity", ErrCapacityExceeded, map[string]string{"people": msg})
}

func itemNotFound() error {
	return common.NotFound("cart item not found", ErrItemNotFound)
}
