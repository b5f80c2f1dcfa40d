package service

import (
	"context"
	"time"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/repository"
)

// ReservationService books projection slots for completed videos. Slot
// exclusivity itself lives in the database unique index; this layer owns
// ownership checks, the 24-hour modification cutoff and the payment-hold
// sweep that precedes every availability decision.
type ReservationService struct {
	reservations ReservationStore
	videos       VideoStore
	clock        func() time.Time
}

// NewReservationService wires a reservation service.
func NewReservationService(reservations ReservationStore, videos VideoStore) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		videos:       videos,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// AvailableSlots returns the slot numbers still bookable on the given
// calendar day: all 36 minus occupied ones, minus slots whose start has
// already passed. Lapsed payment holds are swept first so their slots
// reappear here immediately.
func (s *ReservationService) AvailableSlots(ctx context.Context, date time.Time) ([]int, error) {
	now := s.clock()
	if _, err := s.reservations.ExpireLapsed(ctx, now); err != nil {
		return nil, err
	}
	booked, err := s.reservations.BookedSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[int]bool, len(booked))
	for _, n := range booked {
		taken[n] = true
	}
	free := make([]int, 0, model.SlotsPerDay)
	for n := 1; n <= model.SlotsPerDay; n++ {
		if taken[n] || !model.SlotStart(date, n).After(now) {
			continue
		}
		free = append(free, n)
	}
	return free, nil
}

// Create books a slot for one of the user's completed videos. The booking
// starts as a pending payment hold; it confirms when the payment webhook
// arrives and expires if the hold lapses first. A live booking already
// occupying the slot surfaces as ErrSlotTaken.
func (s *ReservationService) Create(ctx context.Context, userID, videoID uint64, date time.Time, slot int) (*model.Reservation, error) {
	now := s.clock()
	if !model.ValidSlot(slot) || !model.SlotStart(date, slot).After(now) {
		return nil, ErrInvalidSlot
	}

	v, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, repository.ErrVideoNotFound
	}
	if v.Status != model.VideoCompleted {
		return nil, ErrVideoNotReady
	}

	// Vacate lapsed holds before trying the slot so an abandoned checkout
	// does not block a paying customer.
	if _, err := s.reservations.ExpireLapsed(ctx, now); err != nil {
		return nil, err
	}

	holdUntil := now.Add(model.HoldDuration)
	res := &model.Reservation{
		UserID:         userID,
		VideoID:        videoID,
		ProjectionDate: date,
		SlotNumber:     slot,
		Status:         model.ReservationPending,
		HoldExpiresAt:  &holdUntil,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns a reservation owned by the given user; anyone else's reads
// as not found.
func (s *ReservationService) Get(ctx context.Context, userID, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}
	return res, nil
}

// List returns the user's reservations, newest first.
func (s *ReservationService) List(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// Update moves a reservation to a new date and slot. The move is allowed
// only while the current slot is more than 24 hours away, and the
// destination must itself be a bookable future slot; the database index
// re-validates destination exclusivity (ErrSlotTaken on collision).
func (s *ReservationService) Update(ctx context.Context, userID, id uint64, date time.Time, slot int) (*model.Reservation, error) {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.Occupies() {
		return nil, repository.ErrConflict
	}
	now := s.clock()
	if !res.Mutable(now) {
		return nil, ErrNotMutable
	}
	if !model.ValidSlot(slot) || !model.SlotStart(date, slot).After(now) {
		return nil, ErrInvalidSlot
	}
	if _, err := s.reservations.ExpireLapsed(ctx, now); err != nil {
		return nil, err
	}
	if err := s.reservations.UpdateSlot(ctx, id, date, slot); err != nil {
		return nil, err
	}
	return s.reservations.GetByID(ctx, id)
}

// Cancel cancels a reservation, subject to the same 24-hour cutoff as
// Update. Already terminal reservations surface as ErrConflict.
func (s *ReservationService) Cancel(ctx context.Context, userID, id uint64, reason *string) error {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	now := s.clock()
	if !res.Mutable(now) {
		return ErrNotMutable
	}
	return s.reservations.Cancel(ctx, id, reason, now)
}
