package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/club-table-booking/internal/model"
)

func dates(sd []model.SelectableDate) []string {
	out := make([]string, len(sd))
	for i, d := range sd {
		out[i] = d.Date
	}
	return out
}

func TestRecurrence_Upcoming(t *testing.T) {
	r := DefaultRecurrence()
	assert.Equal(t, []string{
		"2025-06-10", "2025-06-17", "2025-06-24", "2025-07-01",
		"2025-07-08", "2025-07-15", "2025-07-22", "2025-07-29",
	}, r.Upcoming("2025-06-04"))

	// today is a Tuesday: it is the first occurrence
	assert.Equal(t, "2025-06-10", r.Upcoming("2025-06-10")[0])
	assert.Nil(t, r.Upcoming("garbage"))
}

func TestRecurrence_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	r := Recurrence{Weekday: time.Tuesday, Weeks: 8, Location: loc}
	late := time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-10", r.Today(late))
	assert.Equal(t, "2025-06-09", DefaultRecurrence().Today(late))
}

func TestResolveSelectableDates_Baseline(t *testing.T) {
	got := ResolveSelectableDates(DefaultRecurrence(), "2025-06-04", nil, nil, nil)
	require.Len(t, got, 8)
	assert.Equal(t, "2025-06-10", got[0].Date)
	for _, d := range got {
		assert.False(t, d.IsCancelled)
	}
}

func TestResolveSelectableDates_MergesAndFilters(t *testing.T) {
	bookings := []model.Booking{
		{Date: "2025-05-27"}, // past but booked: kept
		{Date: "2025-06-12"}, // future off-cycle booking: kept
		{Date: "2025-06-10"}, // duplicate of a recurring date
	}
	special := []string{"2025-06-14", "2025-05-31", "2025-06-14"} // past special dropped, duplicate collapsed
	cancelled := []string{"2025-06-17", "2025-05-27"}

	got := ResolveSelectableDates(DefaultRecurrence(), "2025-06-04", special, bookings, cancelled)

	assert.Equal(t, []string{
		"2025-05-27", "2025-06-10", "2025-06-12", "2025-06-14", "2025-06-17",
		"2025-06-24", "2025-07-01", "2025-07-08", "2025-07-15", "2025-07-22", "2025-07-29",
	}, dates(got))
	assert.True(t, got[0].IsCancelled)
	assert.True(t, got[4].IsCancelled)
	assert.False(t, got[1].IsCancelled)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-06-10"))
	assert.False(t, ValidDate("2025-6-10"))
	assert.False(t, ValidDate("2025-02-30"))
	assert.False(t, ValidDate(""))
}

func TestScheduleService_Overrides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	got, err := f.schedule.CancelDate(ctx, "2025-06-17")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-17"}, got)

	got, err = f.schedule.CancelDate(ctx, "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-10", "2025-06-17"}, got, "sorted")

	got, err = f.schedule.CancelDate(ctx, "2025-06-10")
	require.NoError(t, err)
	assert.Len(t, got, 2, "idempotent")

	got, err = f.schedule.RestoreDate(ctx, "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-17"}, got)

	_, err = f.schedule.AddSpecialDate(ctx, "2025-06-14")
	require.NoError(t, err)

	sel, err := f.schedule.SelectableDates(ctx)
	require.NoError(t, err)
	assert.Contains(t, dates(sel), "2025-06-14")
	assert.Equal(t, model.SelectableDate{Date: "2025-06-17", IsCancelled: true}, sel[2])

	_, err = f.schedule.RemoveSpecialDate(ctx, "2025-06-14")
	require.NoError(t, err)
	o, err := f.schedule.Overrides(ctx)
	require.NoError(t, err)
	assert.Empty(t, o.SpecialEventDates)
	assert.Equal(t, []string{"2025-06-17"}, o.CancelledDates)
}

func TestScheduleService_RejectsBadDate(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.schedule.CancelDate(context.Background(), "next tuesday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveSelectableDates_OrderedAcrossRunDates(t *testing.T) {
	start := time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC) // crosses into 2025
	r := DefaultRecurrence()

	for i := 0; i < 14; i++ {
		run := start.AddDate(0, 0, i)
		today := run.Format(DateLayout)
		t.Run(today, func(t *testing.T) {
			upcoming := r.Upcoming(today)
			require.Len(t, upcoming, 8)
			for _, d := range upcoming {
				day, err := time.Parse(DateLayout, d)
				require.NoError(t, err)
				assert.Equal(t, time.Tuesday, day.Weekday(), d)
				assert.GreaterOrEqual(t, d, today)
			}

			past := run.AddDate(0, 0, -5).Format(DateLayout)
			special := []string{run.AddDate(0, 0, 3).Format(DateLayout), upcoming[2], run.AddDate(0, 0, -1).Format(DateLayout)}
			bookings := []model.Booking{{Date: past}, {Date: upcoming[0]}, {Date: past}}

			got := dates(ResolveSelectableDates(r, today, special, bookings, nil))
			for j := 1; j < len(got); j++ {
				assert.Less(t, got[j-1], got[j], "dates must be strictly ascending")
			}
			assert.Contains(t, got, past)
			assert.NotContains(t, got, run.AddDate(0, 0, -1).Format(DateLayout))
			for _, d := range upcoming {
				assert.Contains(t, got, d)
			}
		})
	}
}
