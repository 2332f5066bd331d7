package service

import (
	"context"
	"time"

	"github.com/iliyamo/club-table-booking/internal/model"
)

// Clock returns the current time.  Services take one so tests can pin "today".
type Clock func() time.Time

// BookingEventPublisher is notified after a booking is created or cancelled.
// Failures are logged by the caller and never roll back the mutation.
type BookingEventPublisher interface {
	PublishBookingEvent(ctx context.Context, kind string, b model.Booking) error
}

// UserRepository is the directory's account storage.
type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id, name string, isMember, isAdmin bool) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// TokenRepository persists hashed refresh tokens.
type TokenRepository interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type noopPublisher struct{}

func (noopPublisher) PublishBookingEvent(context.Context, string, model.Booking) error { return nil }
