package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The only allowed
// transition is active -> cancelled.
type BookingStatus string

const (
    BookingActive    BookingStatus = "active"
    BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a member's claim on a single table or terrain box
// for a single session date.  Bookings are soft-cancelled so that the
// history of a date stays visible.
//
// Fields:
//  ID          – uuid assigned on creation.
//  Date        – session date formatted as YYYY-MM-DD.
//  ResourceID  – id of the booked Table or TerrainBox.
//  UserID      – id of the member that owns the booking.
//  Status      – active or cancelled.
//  CreatedAt   – creation timestamp (UTC).
//  CancelledAt – cancellation timestamp, nil while active.
type Booking struct {
    ID          string        `json:"id"`                    // bookings[].id
    Date        string        `json:"date"`                  // bookings[].date
    ResourceID  string        `json:"resourceId"`            // bookings[].resourceId
    UserID      string        `json:"userId"`                // bookings[].userId
    Status      BookingStatus `json:"status"`                // bookings[].status
    CreatedAt   time.Time     `json:"createdAt"`             // bookings[].createdAt
    CancelledAt *time.Time    `json:"cancelledAt,omitempty"` // bookings[].cancelledAt
}

// IsActive reports whether the booking still holds its resource.  Records
// written before the status field existed count as active.
func (b Booking) IsActive() bool { return b.Status != BookingCancelled }

// ResourceAvailability describes whether one resource is free on a date.
type ResourceAvailability struct {
    ResourceID string `json:"resource_id"`
    Name       string `json:"name"`
    Kind       string `json:"kind"` // table | terrain
    Booked     bool   `json:"booked"`
    BookingID  string `json:"booking_id,omitempty"`
    UserID     string `json:"user_id,omitempty"`
}

const (
    ResourceKindTable   = "table"
    ResourceKindTerrain = "terrain"
)
