package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/harukimoto/trainlight/internal/billing"
	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/queue"
	"github.com/harukimoto/trainlight/internal/render"
)

type videoStoreMock struct{ mock.Mock }

func (m *videoStoreMock) Create(ctx context.Context, v *model.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *videoStoreMock) GetByID(ctx context.Context, id uint64) (*model.Video, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *videoStoreMock) ListByUser(ctx context.Context, userID uint64) ([]model.Video, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]model.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *videoStoreMock) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *videoStoreMock) SetRenderID(ctx context.Context, id uint64, renderID string) error {
	return m.Called(ctx, id, renderID).Error(0)
}

func (m *videoStoreMock) RecordPoll(ctx context.Context, id uint64, attempts int, at time.Time) error {
	return m.Called(ctx, id, attempts, at).Error(0)
}

func (m *videoStoreMock) MarkCompleted(ctx context.Context, id uint64, url, key string) (bool, error) {
	args := m.Called(ctx, id, url, key)
	return args.Bool(0), args.Error(1)
}

func (m *videoStoreMock) MarkFailed(ctx context.Context, id uint64, msg string) (bool, error) {
	args := m.Called(ctx, id, msg)
	return args.Bool(0), args.Error(1)
}

func (m *videoStoreMock) FailStalled(ctx context.Context, deadline time.Time, msg string) (int64, error) {
	args := m.Called(ctx, deadline, msg)
	return args.Get(0).(int64), args.Error(1)
}

type templateStoreMock struct{ mock.Mock }

func (m *templateStoreMock) GetByID(ctx context.Context, id uint64) (*model.Template, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

type reservationStoreMock struct{ mock.Mock }

func (m *reservationStoreMock) Create(ctx context.Context, res *model.Reservation) error {
	return m.Called(ctx, res).Error(0)
}

func (m *reservationStoreMock) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *reservationStoreMock) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]model.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *reservationStoreMock) BookedSlots(ctx context.Context, date time.Time) ([]int, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.([]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *reservationStoreMock) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *reservationStoreMock) UpdateSlot(ctx context.Context, id uint64, date time.Time, slot int) error {
	return m.Called(ctx, id, date, slot).Error(0)
}

func (m *reservationStoreMock) Cancel(ctx context.Context, id uint64, reason *string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

func (m *reservationStoreMock) Confirm(ctx context.Context, id, paymentID uint64) error {
	return m.Called(ctx, id, paymentID).Error(0)
}

func (m *reservationStoreMock) MarkExpired(ctx context.Context, id, paymentID uint64) error {
	return m.Called(ctx, id, paymentID).Error(0)
}

type paymentStoreMock struct{ mock.Mock }

func (m *paymentStoreMock) UpsertByIntent(ctx context.Context, p *model.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *paymentStoreMock) UpdateStatusByIntent(ctx context.Context, intentID string, status model.PaymentStatus, errMsg *string) error {
	return m.Called(ctx, intentID, status, errMsg).Error(0)
}

func (m *paymentStoreMock) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *paymentStoreMock) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

type userStoreMock struct{ mock.Mock }

func (m *userStoreMock) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type renderClientMock struct{ mock.Mock }

func (m *renderClientMock) Submit(ctx context.Context, src1, src2, src3 string) (string, error) {
	args := m.Called(ctx, src1, src2, src3)
	return args.String(0), args.Error(1)
}

func (m *renderClientMock) Status(ctx context.Context, renderID string) (render.Status, error) {
	args := m.Called(ctx, renderID)
	return args.Get(0).(render.Status), args.Error(1)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type checkoutProviderMock struct{ mock.Mock }

func (m *checkoutProviderMock) CreateSession(ctx context.Context, req billing.SessionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
