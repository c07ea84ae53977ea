package booking

import (
	"errors"

	"github.com/noah-isme/backend-turismo/internal/common"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrInvalidTransition = errors.New("booking: transition not allowed from current status")
	ErrNotProvider       = errors.New("booking: provider does not own the service")
	ErrTooLate           = errors.New("booking: service date has already passed")
)

func notFound() error {
	return common.NotFound("booking not found", ErrNotFound)
}

func invalidTransition(from, to string) error {
	return common.Conflict("INVALID_TRANSITION", "booking cannot move from "+from+" to "+to, ErrInvalidTransition)
}

func notProvider() error {
	return common.Forbidden("FORBIDDEN", "you do not provide this service", ErrNotProvider)
}

func tooLate() error {
	return common.Conflict("BOOKING_TOO_LATE", "bookings can only be cancelled before the service date", ErrTooLate)
}
