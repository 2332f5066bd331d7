// Package storage is the persistence port used by the booking core.  Data
// is kept as whole JSON documents addressed by a logical collection key,
// which mirrors how the club's data was originally persisted and keeps
// the backends (MySQL, Redis, memory) interchangeable.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys.
const (
	KeyBookings          = "bookings"
	KeyTables            = "tables"
	KeyTerrain           = "terrain"
	KeyCancelledDates    = "cancelledDates"
	KeySpecialEventDates = "specialEventDates"
)

// Keys lists every collection the service persists.
var Keys = []string{KeyBookings, KeyTables, KeyTerrain, KeyCancelledDates, KeySpecialEventDates}

// Store reads and writes collection documents.  Read reports ok=false when
// the collection has never been written.
type Store interface {
	Read(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Write(ctx context.Context, key string, payload []byte) error
}

// ReadJSON decodes the collection stored under key into a value of type T.
// An absent collection yields the zero value and ok=false.
func ReadJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	payload, ok, err := s.Read(ctx, key)
	if err != nil || !ok {
		return out, ok, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, true, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, true, nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON[T any](ctx context.Context, s Store, key string, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Write(ctx, key, payload)
}
