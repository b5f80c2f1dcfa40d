package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/repository"
)

func newReservationServiceForTest(reservations *reservationStoreMock, videos *videoStoreMock, now time.Time) *ReservationService {
	s := NewReservationService(reservations, videos)
	s.clock = func() time.Time { return now }
	return s
}

func completedVideo(id, userID uint64) *model.Video {
	return &model.Video{ID: id, UserID: userID, Status: model.VideoCompleted}
}

func TestAvailableSlots_ComplementOfBooked(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	reservations := new(reservationStoreMock)
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("BookedSlots", mock.Anything, date).Return([]int{1, 5, 36}, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	free, err := s.AvailableSlots(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, free, model.SlotsPerDay-3)
	require.NotContains(t, free, 1)
	require.NotContains(t, free, 5)
	require.NotContains(t, free, 36)
	require.Contains(t, free, 2)
}

func TestAvailableSlots_PastSlotsExcluded(t *testing.T) {
	// 12:05 on the projection day itself: slots 1..13 (09:00 through
	// 12:00) have already started and are gone.
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	reservations := new(reservationStoreMock)
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("BookedSlots", mock.Anything, date).Return([]int{}, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	free, err := s.AvailableSlots(context.Background(), date)
	require.NoError(t, err)
	require.Equal(t, 14, free[0])
	require.Len(t, free, model.SlotsPerDay-13)
}

func TestReservationCreate_SetsPendingHold(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(3)).Return(completedVideo(3, 7), nil)
	reservations := new(reservationStoreMock)
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("Create", mock.Anything, mock.AnythingOfType("*model.Reservation")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Reservation).ID = 20
	}).Return(nil)

	s := newReservationServiceForTest(reservations, videos, now)
	res, err := s.Create(context.Background(), 7, 3, date, 12)
	require.NoError(t, err)
	require.Equal(t, uint64(20), res.ID)
	require.Equal(t, model.ReservationPending, res.Status)
	require.NotNil(t, res.HoldExpiresAt)
	require.Equal(t, now.Add(model.HoldDuration), *res.HoldExpiresAt)
}

func TestReservationCreate_VideoNotCompleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(3)).Return(&model.Video{ID: 3, UserID: 7, Status: model.VideoProcessing}, nil)

	s := newReservationServiceForTest(new(reservationStoreMock), videos, now)
	_, err := s.Create(context.Background(), 7, 3, date, 12)
	require.ErrorIs(t, err, ErrVideoNotReady)
}

func TestReservationCreate_OtherUsersVideo(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(3)).Return(completedVideo(3, 99), nil)

	s := newReservationServiceForTest(new(reservationStoreMock), videos, now)
	_, err := s.Create(context.Background(), 7, 3, date, 12)
	require.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestReservationCreate_InvalidSlot(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s := newReservationServiceForTest(new(reservationStoreMock), new(videoStoreMock), now)
	for _, slot := range []int{0, 37, -1} {
		_, err := s.Create(context.Background(), 7, 3, date, slot)
		require.ErrorIs(t, err, ErrInvalidSlot)
	}
}

func TestReservationCreate_PastSlot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	s := newReservationServiceForTest(new(reservationStoreMock), new(videoStoreMock), now)
	// Slot 13 starts exactly at 12:00; booking the current instant is too late.
	_, err := s.Create(context.Background(), 7, 3, date, 13)
	require.ErrorIs(t, err, ErrInvalidSlot)
}

func TestReservationCreate_SlotTaken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(3)).Return(completedVideo(3, 7), nil)
	reservations := new(reservationStoreMock)
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("Create", mock.Anything, mock.Anything).Return(repository.ErrSlotTaken)

	s := newReservationServiceForTest(reservations, videos, now)
	_, err := s.Create(context.Background(), 7, 3, date, 12)
	require.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestReservationUpdate_AllowedAtExactCutoff(t *testing.T) {
	// Slot 1 on March 10 starts at 09:00; at exactly 24h before, the
	// reservation is still mutable.
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	existing := &model.Reservation{ID: 20, UserID: 7, VideoID: 3, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationConfirmed}
	moved := &model.Reservation{ID: 20, UserID: 7, VideoID: 3, ProjectionDate: date, SlotNumber: 2, Status: model.ReservationConfirmed}

	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil).Once()
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("UpdateSlot", mock.Anything, uint64(20), date, 2).Return(nil)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(moved, nil).Once()

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	res, err := s.Update(context.Background(), 7, 20, date, 2)
	require.NoError(t, err)
	require.Equal(t, 2, res.SlotNumber)
}

func TestReservationUpdate_InsideCutoffRejected(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 9, 0, 1, 0, time.UTC) // 1s past the cutoff

	existing := &model.Reservation{ID: 20, UserID: 7, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationConfirmed}
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	_, err := s.Update(context.Background(), 7, 20, date, 2)
	require.ErrorIs(t, err, ErrNotMutable)
	reservations.AssertNotCalled(t, "UpdateSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationUpdate_DeadReservationRejected(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	existing := &model.Reservation{ID: 20, UserID: 7, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationCancelled}
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	_, err := s.Update(context.Background(), 7, 20, date, 2)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestReservationUpdate_DestinationTaken(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	existing := &model.Reservation{ID: 20, UserID: 7, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationConfirmed}
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil)
	reservations.On("ExpireLapsed", mock.Anything, now).Return(int64(0), nil)
	reservations.On("UpdateSlot", mock.Anything, uint64(20), date, 2).Return(repository.ErrSlotTaken)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	_, err := s.Update(context.Background(), 7, 20, date, 2)
	require.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestReservationCancel_OutsideCutoff(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	reason := "change of plans"

	existing := &model.Reservation{ID: 20, UserID: 7, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationConfirmed}
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil)
	reservations.On("Cancel", mock.Anything, uint64(20), &reason, now).Return(nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	require.NoError(t, s.Cancel(context.Background(), 7, 20, &reason))
	reservations.AssertExpectations(t)
}

func TestReservationCancel_InsideCutoffRejected(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	existing := &model.Reservation{ID: 20, UserID: 7, ProjectionDate: date, SlotNumber: 1, Status: model.ReservationConfirmed}
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(existing, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	err := s.Cancel(context.Background(), 7, 20, nil)
	require.ErrorIs(t, err, ErrNotMutable)
}

func TestReservationGet_OtherUsersReservationReadsNotFound(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	reservations := new(reservationStoreMock)
	reservations.On("GetByID", mock.Anything, uint64(20)).Return(&model.Reservation{ID: 20, UserID: 99}, nil)

	s := newReservationServiceForTest(reservations, new(videoStoreMock), now)
	_, err := s.Get(context.Background(), 7, 20)
	require.ErrorIs(t, err, repository.ErrReservationNotFound)
}
