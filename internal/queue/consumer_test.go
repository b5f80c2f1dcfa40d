package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartReservationConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- StartReservationConsumer(ctx) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}

func TestHandleMessage_AppendsLogLine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	ev := ReservationConfirmedEvent{
		EventID:        "ev-1",
		ReservationID:  42,
		UserID:         7,
		VideoID:        3,
		PaymentID:      9,
		ProjectionDate: "2026-03-10",
		SlotNumber:     20,
		SlotStartsAt:   "2026-03-10T13:45:00Z",
		AmountJPY:      5000,
		ConfirmedAt:    "2026-03-01T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join("logs", "reservation.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "reservation_id=42")
	require.Contains(t, string(data), "slot=20")
	require.Contains(t, string(data), "amount=5000 jpy")
}

func TestHandleMessage_RejectsMalformedPayload(t *testing.T) {
	require.Error(t, handleMessage([]byte("not json")))
}
