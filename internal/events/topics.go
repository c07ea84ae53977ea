package events

// Topic constants for domain events emitted by the platform.
const (
	TopicReviewChanged    = "review.changed"
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
	TopicBookingConfirmed = "booking.confirmed"
	TopicBookingCompleted = "booking.completed"
)

var knownTopics = map[string]struct{}{
	TopicReviewChanged:    {},
	TopicBookingCreated:   {},
	TopicBookingCancelled: {},
	TopicBookingConfirmed: {},
	TopicBookingCompleted: {},
}

// Known reports whether topic is one the platform emits.
func Known(topic string) bool {
	_, ok := knownTopics[topic]
	return ok
}

// ReviewChanged is the payload of TopicReviewChanged.
type ReviewChanged struct {
	ReviewID      string `json:"reviewId"`
	ServiceID     string `json:"serviceId"`
	DestinationID string `json:"destinationId,omitempty"`
	Op            string `json:"op"`
	Active        bool   `json:"active"`
}

// BookingChanged is the payload of the booking topics.
type BookingChanged struct {
	BookingID string `json:"bookingId"`
	Code      string `json:"code"`
	ServiceID string `json:"serviceId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
}
