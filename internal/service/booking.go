package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/model"
	"github.com/iliyamo/club-table-booking/internal/storage"
)

// Booking event kinds.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingService validates and persists bookings.  All mutations are
// serialized so the read-check-write of CreateBooking cannot interleave
// with another mutation in this process.
type BookingService struct {
	store     storage.Store
	schedule  *ScheduleService
	inventory *InventoryService
	publisher BookingEventPublisher
	now       Clock
	log       *zap.Logger
	newID     func() string

	mu sync.Mutex
}

func NewBookingService(store storage.Store, schedule *ScheduleService, inventory *InventoryService, publisher BookingEventPublisher, now Clock, log *zap.Logger) *BookingService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		store:     store,
		schedule:  schedule,
		inventory: inventory,
		publisher: publisher,
		now:       now,
		log:       log,
		newID:     uuid.NewString,
	}
}

func (s *BookingService) Bookings(ctx context.Context) ([]model.Booking, error) {
	bookings, _, err := storage.ReadJSON[[]model.Booking](ctx, s.store, storage.KeyBookings)
	if err != nil {
		return nil, remote("read bookings", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

func (s *BookingService) BookingsForDate(ctx context.Context, date string) ([]model.Booking, error) {
	return s.filter(ctx, func(b model.Booking) bool { return b.Date == date })
}

func (s *BookingService) BookingsForUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.filter(ctx, func(b model.Booking) bool { return b.UserID == userID })
}

func (s *BookingService) filter(ctx context.Context, keep func(model.Booking) bool) ([]model.Booking, error) {
	all, err := s.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0)
	for _, b := range all {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Book is the member-facing entry point.  Lapsed members are refused
// before any booking rule is evaluated.
func (s *BookingService) Book(ctx context.Context, actor model.User, date, resourceID string) (model.Booking, error) {
	if !actor.IsMember && !actor.IsAdmin {
		return model.Booking{}, ErrForbidden
	}
	return s.CreateBooking(ctx, date, resourceID, actor.ID)
}

// CreateBooking checks, in order, that the date is open, that the resource
// exists and that nobody holds it on that date, then stores an active
// booking.  The event is published after the booking lock is released.
func (s *BookingService) CreateBooking(ctx context.Context, date, resourceID, userID string) (model.Booking, error) {
	date = strings.TrimSpace(date)
	resourceID = strings.TrimSpace(resourceID)
	if date == "" || resourceID == "" || userID == "" {
		return model.Booking{}, invalid("date, resource and user are required")
	}

	b, err := s.insert(ctx, date, resourceID, userID)
	if err != nil {
		return model.Booking{}, err
	}
	s.log.Info("booking created",
		zap.String("booking_id", b.ID), zap.String("date", date),
		zap.String("resource_id", resourceID), zap.String("user_id", userID))
	s.publish(ctx, EventBookingCreated, b)
	return b, nil
}

// insert runs the read-check-write of CreateBooking.  The schedule lock is
// held as well so a concurrent CancelDate cannot land between the date
// check and the write.
func (s *BookingService) insert(ctx context.Context, date, resourceID, userID string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule.mu.Lock()
	defer s.schedule.mu.Unlock()

	dates, err := s.schedule.SelectableDates(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	i := slices.IndexFunc(dates, func(d model.SelectableDate) bool { return d.Date == date })
	if i < 0 || dates[i].IsCancelled {
		return model.Booking{}, ErrDateUnavailable
	}

	_, _, ok, err := s.inventory.Resource(ctx, resourceID)
	if err != nil {
		return model.Booking{}, err
	}
	if !ok {
		return model.Booking{}, ErrUnknownResource
	}

	bookings, err := s.Bookings(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	for _, b := range bookings {
		if b.IsActive() && b.Date == date && b.ResourceID == resourceID {
			return model.Booking{}, ErrResourceAlreadyBooked
		}
	}

	b := model.Booking{
		ID:         s.newID(),
		Date:       date,
		ResourceID: resourceID,
		UserID:     userID,
		Status:     model.BookingActive,
		CreatedAt:  s.now().UTC(),
	}
	if err := storage.WriteJSON(ctx, s.store, storage.KeyBookings, append(bookings, b)); err != nil {
		return model.Booking{}, remote("write bookings", err)
	}
	return b, nil
}

// CancelBooking soft-cancels a booking on behalf of its owner or an admin.
// Cancelling an already cancelled booking returns it unchanged.
func (s *BookingService) CancelBooking(ctx context.Context, id string, actor model.User) (model.Booking, error) {
	b, changed, err := s.markCancelled(ctx, id, actor)
	if err != nil || !changed {
		return b, err
	}
	s.log.Info("booking cancelled", zap.String("booking_id", b.ID), zap.String("by", actor.ID))
	s.publish(ctx, EventBookingCancelled, b)
	return b, nil
}

func (s *BookingService) markCancelled(ctx context.Context, id string, actor model.User) (model.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.Bookings(ctx)
	if err != nil {
		return model.Booking{}, false, err
	}
	i := slices.IndexFunc(bookings, func(b model.Booking) bool { return b.ID == id })
	if i < 0 {
		return model.Booking{}, false, ErrNotFound
	}
	b := bookings[i]
	if b.UserID != actor.ID && !actor.IsAdmin {
		return model.Booking{}, false, ErrForbidden
	}
	if !b.IsActive() {
		return b, false, nil
	}

	at := s.now().UTC()
	b.Status = model.BookingCancelled
	b.CancelledAt = &at
	bookings[i] = b
	if err := storage.WriteJSON(ctx, s.store, storage.KeyBookings, bookings); err != nil {
		return model.Booking{}, false, remote("write bookings", err)
	}
	return b, true, nil
}

// RemoveBooking permanently deletes a booking.  Reserved for admins.
func (s *BookingService) RemoveBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.Bookings(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(bookings, func(b model.Booking) bool { return b.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	bookings = slices.Delete(bookings, i, i+1)
	if err := storage.WriteJSON(ctx, s.store, storage.KeyBookings, bookings); err != nil {
		return remote("write bookings", err)
	}
	s.log.Info("booking removed", zap.String("booking_id", id))
	return nil
}

// Availability lists every table and terrain box in inventory order with
// the active booking that holds it on date, if any.
func (s *BookingService) Availability(ctx context.Context, date string) ([]model.ResourceAvailability, error) {
	if !ValidDate(date) {
		return nil, invalid("date %q must be YYYY-MM-DD", date)
	}
	onDate, err := s.BookingsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	held := make(map[string]model.Booking)
	for _, b := range onDate {
		if b.IsActive() {
			held[b.ResourceID] = b
		}
	}
	tables, err := s.inventory.Tables(ctx)
	if err != nil {
		return nil, err
	}
	terrain, err := s.inventory.TerrainBoxes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.ResourceAvailability, 0, len(tables)+len(terrain))
	entry := func(id, name, kind string) model.ResourceAvailability {
		a := model.ResourceAvailability{ResourceID: id, Name: name, Kind: kind}
		if b, ok := held[id]; ok {
			a.Booked, a.BookingID, a.UserID = true, b.ID, b.UserID
		}
		return a
	}
	for _, t := range tables {
		out = append(out, entry(t.ID, t.Name, model.ResourceKindTable))
	}
	for _, t := range terrain {
		out = append(out, entry(t.ID, t.Name, model.ResourceKindTerrain))
	}
	return out, nil
}

// BackfillStatuses marks stored bookings that predate the status field as
// active.
func (s *BookingService) BackfillStatuses(ctx context.Context) (updated, skipped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.Bookings(ctx)
	if err != nil {
		return 0, 0, err
	}
	for i := range bookings {
		if bookings[i].Status == "" {
			bookings[i].Status = model.BookingActive
			updated++
			s.log.Info("booking status backfilled", zap.String("booking_id", bookings[i].ID))
		} else {
			skipped++
		}
	}
	if updated == 0 {
		return 0, skipped, nil
	}
	if err := storage.WriteJSON(ctx, s.store, storage.KeyBookings, bookings); err != nil {
		return 0, 0, remote("write bookings", err)
	}
	return updated, skipped, nil
}

func (s *BookingService) publish(ctx context.Context, kind string, b model.Booking) {
	if err := s.publisher.PublishBookingEvent(ctx, kind, b); err != nil {
		s.log.Warn("publish booking event failed", zap.String("kind", kind), zap.String("booking_id", b.ID), zap.Error(err))
	}
}
