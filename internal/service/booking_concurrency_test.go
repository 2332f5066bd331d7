package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

// assertSingleHolder fails when any (date, resource) has more than one
// active booking.
func assertSingleHolder(t *testing.T, f *fixture) {
	t.Helper()
	all, err := f.bookings.Bookings(context.Background())
	require.NoError(t, err)
	held := make(map[string]int)
	for _, b := range all {
		if b.IsActive() {
			held[b.Date+"/"+b.ResourceID]++
		}
	}
	for slot, n := range held {
		assert.Equal(t, 1, n, "slot %s held %d times", slot, n)
	}
}

func TestCreateBooking_MixedSequenceKeepsSingleHolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	days := []string{"2025-06-10", "2025-06-17"}
	resources := []string{"L1", "L2", "S1"}

	var live []model.Booking
	for i := 0; i < 60; i++ {
		day := days[i%len(days)]
		res := resources[i%len(resources)]
		user := fmt.Sprintf("u%d", i%4)

		switch {
		case i%5 == 4 && len(live) > 0:
			b := live[0]
			_, err := f.bookings.CancelBooking(ctx, b.ID, model.User{ID: b.UserID})
			require.NoError(t, err)
			live = live[1:]
		default:
			b, err := f.bookings.CreateBooking(ctx, day, res, user)
			if err != nil {
				require.ErrorIs(t, err, ErrResourceAlreadyBooked)
				continue
			}
			live = append(live, b)
		}
		assertSingleHolder(t, f)
	}
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		refused int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", fmt.Sprintf("u%d", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrResourceAlreadyBooked):
				refused++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, workers-1, refused)
	assertSingleHolder(t, f)
}

// stallingPublisher blocks publishes for L1 until release is closed.
type stallingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *stallingPublisher) PublishBookingEvent(_ context.Context, _ string, b model.Booking) error {
	if b.ResourceID == "L1" {
		close(p.entered)
		<-p.release
	}
	return nil
}

func TestCreateBooking_SlowPublishDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	pub := &stallingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, pub)

	first := make(chan error, 1)
	go func() {
		_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u1")
		first <- err
	}()
	<-pub.entered

	second := make(chan error, 1)
	go func() {
		_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L2", "u2")
		second <- err
	}()
	select {
	case err := <-second:
		require.NoError(t, err)
	case <-time.After(time.Second):
		close(pub.release)
		t.Fatal("second booking waited on the first booking's publish")
	}

	close(pub.release)
	require.NoError(t, <-first)
}

func TestCreateBooking_SeesDateCancelledWhileWaiting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.schedule.mu.Lock()
	done := make(chan error, 1)
	go func() {
		_, err := f.bookings.CreateBooking(ctx, "2025-06-10", "L1", "u1")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, storage.WriteJSON(ctx, f.store, storage.KeyCancelledDates, []string{"2025-06-10"}))
	f.schedule.mu.Unlock()

	assert.ErrorIs(t, <-done, ErrDateUnavailable)
	all, err := f.bookings.Bookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
