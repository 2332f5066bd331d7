package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

func TestCreateBooking_Succeeds(t *testing.T) {
	ctx := context.Background()
	pub := new(mockPublisher)
	pub.On("PublishBookingEvent", mock.Anything, EventBookingCreated, mock.AnythingOfType("model.Booking")).Return(nil).Once()
	f := newFixture(t, pub)

	b, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.BookingActive, b.Status)
	assert.Equal(t, wednesday, b.CreatedAt)

	all, err := f.bookings.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
	pub.AssertExpectations(t)
}

func TestCreateBooking_AlreadyBooked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u1")
	require.NoError(t, err)

	_, err = f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u2")
	assert.ErrorIs(t, err, ErrResourceAlreadyBooked)

	// other resource, same date; same resource, other date
	_, err = f.bookings.CreateBooking(ctx, "2025-06-10", "L2", "u2")
	assert.NoError(t, err)
	_, err = f.bookings.CreateBooking(ctx, "2025-06-17", "L1", "u2")
	assert.NoError(t, err)
}

func TestCreateBooking_CheckOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.schedule.CancelDate(ctx, "2025-06-17")
	require.NoError(t, err)

	// an unavailable date wins over an unknown resource
	_, err = f.bookings.CreateBooking(ctx, "2025-06-11", "NOPE", "u1")
	assert.ErrorIs(t, err, ErrDateUnavailable)
	_, err = f.bookings.CreateBooking(ctx, "2025-06-17", "L1", "u1")
	assert.ErrorIs(t, err, ErrDateUnavailable, "cancelled date")
	_, err = f.bookings.CreateBooking(ctx, "2025-06-10", "NOPE", "u1")
	assert.ErrorIs(t, err, ErrUnknownResource)
	_, err = f.bookings.CreateBooking(ctx, "", "L1", "u1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	all, _ := f.bookings.Bookings(ctx)
	assert.Empty(t, all, "failed attempts write nothing")
}

func TestCreateBooking_SpecialAndTerrain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.schedule.AddSpecialDate(ctx, "2025-06-14")
	require.NoError(t, err)

	b, err := f.bookings.CreateBooking(ctx, "2025-06-14", "SCIFI-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "SCIFI-1", b.ResourceID)
}

func TestCreateBooking_CancelledBookingFreesResource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.putBookings(t, model.Booking{ID: "old", Date: "2025-06-10", ResourceID: "L1", UserID: "u1", Status: model.BookingCancelled})

	_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u2")
	assert.NoError(t, err)
}

func TestCreateBooking_LegacyStatusCountsAsActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.putBookings(t, model.Booking{ID: "legacy", Date: "2025-06-10", ResourceID: "L1", UserID: "u1"})

	_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u2")
	assert.ErrorIs(t, err, ErrResourceAlreadyBooked)
}

func TestCreateBooking_PublishFailureDoesNotFail(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishBookingEvent", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f := newFixture(t, pub)

	_, err := f.bookings.CreateBooking(context.Background(), "2025-06-10", "L1", "u1")
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "PublishBookingEvent", 1)
}

func TestBook_LapsedMemberForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.bookings.Book(ctx, model.User{ID: "u1"}, "2025-06-10", "L1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.bookings.Book(ctx, model.User{ID: "admin", IsAdmin: true}, "2025-06-10", "L1")
	assert.NoError(t, err)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	pub := new(mockPublisher)
	pub.On("PublishBookingEvent", mock.Anything, EventBookingCreated, mock.Anything).Return(nil)
	pub.On("PublishBookingEvent", mock.Anything, EventBookingCancelled, mock.Anything).Return(nil).Once()
	f := newFixture(t, pub)

	b, err := f.bookings.Book(ctx, member("u1"), "2025-06-10", "L1")
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, b.ID, member("u2"))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.bookings.CancelBooking(ctx, "missing", member("u1"))
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, err := f.bookings.CancelBooking(ctx, b.ID, member("u1"))
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	again, err := f.bookings.CancelBooking(ctx, b.ID, member("u1"))
	require.NoError(t, err)
	assert.Equal(t, cancelled.Status, again.Status, "idempotent")
	assert.True(t, cancelled.CancelledAt.Equal(*again.CancelledAt))
	pub.AssertExpectations(t)

	// the slot is free again
	_, err = f.bookings.Book(ctx, member("u2"), "2025-06-10", "L1")
	assert.NoError(t, err)
}

func TestCancelBooking_AdminMayCancelAny(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	b, err := f.bookings.Book(ctx, member("u1"), "2025-06-10", "L1")
	require.NoError(t, err)

	got, err := f.bookings.CancelBooking(ctx, b.ID, model.User{ID: "boss", IsAdmin: true})
	require.NoError(t, err)
	assert.False(t, got.IsActive())
}

func TestRemoveBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	b, err := f.bookings.Book(ctx, member("u1"), "2025-06-10", "L1")
	require.NoError(t, err)

	require.NoError(t, f.bookings.RemoveBooking(ctx, b.ID))
	assert.ErrorIs(t, f.bookings.RemoveBooking(ctx, b.ID), ErrNotFound)
	all, _ := f.bookings.Bookings(ctx)
	assert.Empty(t, all)
}

func TestBookingFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.putBookings(t,
		model.Booking{ID: "1", Date: "2025-06-10", ResourceID: "L1", UserID: "u1", Status: model.BookingActive},
		model.Booking{ID: "2", Date: "2025-06-10", ResourceID: "L2", UserID: "u2", Status: model.BookingActive},
		model.Booking{ID: "3", Date: "2025-06-17", ResourceID: "L1", UserID: "u1", Status: model.BookingActive},
	)

	onDate, err := f.bookings.BookingsForDate(ctx, "2025-06-10")
	require.NoError(t, err)
	assert.Len(t, onDate, 2)

	mine, err := f.bookings.BookingsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := f.bookings.BookingsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.putBookings(t,
		model.Booking{ID: "b1", Date: "2025-06-10", ResourceID: "L2", UserID: "u1", Status: model.BookingActive},
		model.Booking{ID: "b2", Date: "2025-06-10", ResourceID: "L3", UserID: "u2", Status: model.BookingCancelled},
		model.Booking{ID: "b3", Date: "2025-06-10", ResourceID: "FANT-1", UserID: "u3"},
	)

	got, err := f.bookings.Availability(ctx, "2025-06-10")
	require.NoError(t, err)
	require.Len(t, got, 22+21)

	assert.False(t, got[0].Booked)
	assert.Equal(t, model.ResourceAvailability{
		ResourceID: "L2", Name: "Large Table 2", Kind: model.ResourceKindTable,
		Booked: true, BookingID: "b1", UserID: "u1",
	}, got[1])
	assert.False(t, got[2].Booked, "cancelled booking does not hold L3")

	var fant model.ResourceAvailability
	for _, a := range got {
		if a.ResourceID == "FANT-1" {
			fant = a
		}
	}
	assert.True(t, fant.Booked)
	assert.Equal(t, model.ResourceKindTerrain, fant.Kind)

	_, err = f.bookings.Availability(ctx, "soon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBackfillStatuses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.putBookings(t,
		model.Booking{ID: "1", Date: "2025-06-10", ResourceID: "L1", UserID: "u1"},
		model.Booking{ID: "2", Date: "2025-06-10", ResourceID: "L2", UserID: "u1", Status: model.BookingCancelled},
		model.Booking{ID: "3", Date: "2025-06-10", ResourceID: "L3", UserID: "u1"},
	)

	updated, skipped, err := f.bookings.BackfillStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, skipped)

	stored, _, err := storage.ReadJSON[[]model.Booking](ctx, f.store, storage.KeyBookings)
	require.NoError(t, err)
	assert.Equal(t, model.BookingActive, stored[0].Status)
	assert.Equal(t, model.BookingCancelled, stored[1].Status)

	updated, skipped, err = f.bookings.BackfillStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, 3, skipped)
}
