package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

// wednesday is 2025-06-04; the next Tuesday is 2025-06-10.
var wednesday = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingEvent(ctx context.Context, kind string, b model.Booking) error {
	return m.Called(ctx, kind, b).Error(0)
}

type fixture struct {
	store     *storage.MemoryStore
	schedule  *ScheduleService
	inventory *InventoryService
	bookings  *BookingService
}

// newFixture seeds a memory store and wires the services with a clock
// pinned to wednesday.
func newFixture(t *testing.T, pub BookingEventPublisher) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	_, err := storage.Seed(context.Background(), store)
	require.NoError(t, err)

	clock := fixedClock(wednesday)
	schedule := NewScheduleService(store, DefaultRecurrence(), clock, nil)
	inventory := NewInventoryService(store, nil)
	return &fixture{
		store:     store,
		schedule:  schedule,
		inventory: inventory,
		bookings:  NewBookingService(store, schedule, inventory, pub, clock, nil),
	}
}

func member(id string) model.User { return model.User{ID: id, IsMember: true} }

func (f *fixture) putBookings(t *testing.T, bookings ...model.Booking) {
	t.Helper()
	require.NoError(t, storage.WriteJSON(context.Background(), f.store, storage.KeyBookings, bookings))
}
