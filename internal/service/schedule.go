package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

// DateLayout is the ISO calendar date format used for every session date.
const DateLayout = "2006-01-02"

// Recurrence describes the club's regular session night.
type Recurrence struct {
	Weekday  time.Weekday
	Weeks    int
	Location *time.Location
}

// DefaultRecurrence is eight Tuesdays in UTC.
func DefaultRecurrence() Recurrence {
	return Recurrence{Weekday: time.Tuesday, Weeks: 8, Location: time.UTC}
}

// Today returns now as a calendar date in the recurrence's timezone.
func (r Recurrence) Today(now time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// Upcoming returns the next r.Weeks occurrences of r.Weekday, starting with
// today when today already falls on that weekday.
func (r Recurrence) Upcoming(today string) []string {
	d, err := time.Parse(DateLayout, today)
	if err != nil || r.Weeks <= 0 {
		return nil
	}
	d = d.AddDate(0, 0, (int(r.Weekday)-int(d.Weekday())+7)%7)
	out := make([]string, 0, r.Weeks)
	for i := 0; i < r.Weeks; i++ {
		out = append(out, d.Format(DateLayout))
		d = d.AddDate(0, 0, 7)
	}
	return out
}

// ResolveSelectableDates computes the dates members may book against.  The
// recurrence window is merged with special event dates and every date that
// already carries a booking.  Past dates survive only when booked, and
// cancelled dates are flagged instead of dropped.
func ResolveSelectableDates(r Recurrence, today string, specialEventDates []string, bookings []model.Booking, cancelledDates []string) []model.SelectableDate {
	booked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		booked[b.Date] = true
	}
	cancelled := make(map[string]bool, len(cancelledDates))
	for _, d := range cancelledDates {
		cancelled[d] = true
	}

	seen := make(map[string]bool)
	var all []string
	add := func(d string) {
		if d == "" || seen[d] {
			return
		}
		seen[d] = true
		all = append(all, d)
	}
	for _, d := range r.Upcoming(today) {
		add(d)
	}
	for _, d := range specialEventDates {
		add(d)
	}
	for _, b := range bookings {
		add(b.Date)
	}
	slices.Sort(all)

	out := make([]model.SelectableDate, 0, len(all))
	for _, d := range all {
		if d < today && !booked[d] {
			continue
		}
		out = append(out, model.SelectableDate{Date: d, IsCancelled: cancelled[d]})
	}
	return out
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}

// ScheduleService owns the cancelled and special event date sets.
type ScheduleService struct {
	store      storage.Store
	recurrence Recurrence
	now        Clock
	log        *zap.Logger

	mu sync.Mutex
}

func NewScheduleService(store storage.Store, recurrence Recurrence, now Clock, log *zap.Logger) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ScheduleService{store: store, recurrence: recurrence, now: now, log: log}
}

// Today is the current calendar date in the club timezone.
func (s *ScheduleService) Today() string { return s.recurrence.Today(s.now()) }

func (s *ScheduleService) Overrides(ctx context.Context) (model.ScheduleOverrides, error) {
	cancelled, err := s.readDates(ctx, storage.KeyCancelledDates)
	if err != nil {
		return model.ScheduleOverrides{}, err
	}
	special, err := s.readDates(ctx, storage.KeySpecialEventDates)
	if err != nil {
		return model.ScheduleOverrides{}, err
	}
	return model.ScheduleOverrides{CancelledDates: cancelled, SpecialEventDates: special}, nil
}

// SelectableDates resolves the current booking calendar from storage.
func (s *ScheduleService) SelectableDates(ctx context.Context) ([]model.SelectableDate, error) {
	o, err := s.Overrides(ctx)
	if err != nil {
		return nil, err
	}
	bookings, _, err := storage.ReadJSON[[]model.Booking](ctx, s.store, storage.KeyBookings)
	if err != nil {
		return nil, remote("read bookings", err)
	}
	return ResolveSelectableDates(s.recurrence, s.Today(), o.SpecialEventDates, bookings, o.CancelledDates), nil
}

func (s *ScheduleService) CancelDate(ctx context.Context, date string) ([]string, error) {
	return s.mutate(ctx, storage.KeyCancelledDates, date, true)
}

func (s *ScheduleService) RestoreDate(ctx context.Context, date string) ([]string, error) {
	return s.mutate(ctx, storage.KeyCancelledDates, date, false)
}

func (s *ScheduleService) AddSpecialDate(ctx context.Context, date string) ([]string, error) {
	return s.mutate(ctx, storage.KeySpecialEventDates, date, true)
}

func (s *ScheduleService) RemoveSpecialDate(ctx context.Context, date string) ([]string, error) {
	return s.mutate(ctx, storage.KeySpecialEventDates, date, false)
}

func (s *ScheduleService) readDates(ctx context.Context, key string) ([]string, error) {
	dates, _, err := storage.ReadJSON[[]string](ctx, s.store, key)
	if err != nil {
		return nil, remote("read "+key, err)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// mutate adds or removes date from the set stored under key and returns the
// resulting sorted set.  Unchanged sets are not rewritten.
func (s *ScheduleService) mutate(ctx context.Context, key, date string, add bool) ([]string, error) {
	if !ValidDate(date) {
		return nil, invalid("date %q must be YYYY-MM-DD", date)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dates, err := s.readDates(ctx, key)
	if err != nil {
		return nil, err
	}
	has := slices.Contains(dates, date)
	switch {
	case add && has, !add && !has:
		return dates, nil
	case add:
		dates = append(dates, date)
	default:
		dates = slices.DeleteFunc(dates, func(d string) bool { return d == date })
	}
	slices.Sort(dates)
	dates = slices.Compact(dates)

	if err := storage.WriteJSON(ctx, s.store, key, dates); err != nil {
		return nil, remote("write "+key, err)
	}
	s.log.Info("schedule updated", zap.String("collection", key), zap.String("date", date), zap.Bool("added", add))
	return dates, nil
}
