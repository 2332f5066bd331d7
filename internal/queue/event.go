// Package queue carries booking events over RabbitMQ.
package queue

import (
    "time"

    "github.com/iliyamo/club-table-booking/internal/model"
)

// BookingEvent is published whenever a booking is created or cancelled.
// It carries enough for a consumer to log or notify without reading the
// booking store.
type BookingEvent struct {
    Kind       string `json:"kind"`
    BookingID  string `json:"booking_id"`
    Date       string `json:"date"`
    ResourceID string `json:"resource_id"`
    UserID     string `json:"user_id"`
    Status     string `json:"status"`
    OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent builds the event for b.  at is formatted as RFC 3339 UTC.
func NewBookingEvent(kind string, b model.Booking, at time.Time) BookingEvent {
    return BookingEvent{
        Kind:       kind,
        BookingID:  b.ID,
        Date:       b.Date,
        ResourceID: b.ResourceID,
        UserID:     b.UserID,
        Status:     string(b.Status),
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}
