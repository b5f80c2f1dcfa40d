package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionVideo_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []VideoStatus{VideoCompleted, VideoFailed} {
		for _, to := range []VideoStatus{VideoPending, VideoProcessing, VideoCompleted, VideoFailed} {
			require.False(t, CanTransitionVideo(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionVideo_ForwardOnly(t *testing.T) {
	require.True(t, CanTransitionVideo(VideoPending, VideoProcessing))
	require.True(t, CanTransitionVideo(VideoProcessing, VideoCompleted))
	require.True(t, CanTransitionVideo(VideoProcessing, VideoFailed))
	require.False(t, CanTransitionVideo(VideoProcessing, VideoPending))
	require.False(t, CanTransitionVideo(VideoCompleted, VideoFailed))
}

func TestReservationStatusOccupies(t *testing.T) {
	require.True(t, ReservationPending.Occupies())
	require.True(t, ReservationConfirmed.Occupies())
	require.True(t, ReservationCompleted.Occupies())
	require.False(t, ReservationCancelled.Occupies())
	require.False(t, ReservationExpired.Occupies())
}

func TestCanTransitionReservation(t *testing.T) {
	require.True(t, CanTransitionReservation(ReservationPending, ReservationConfirmed))
	require.True(t, CanTransitionReservation(ReservationPending, ReservationExpired))
	require.True(t, CanTransitionReservation(ReservationConfirmed, ReservationCompleted))
	require.True(t, CanTransitionReservation(ReservationConfirmed, ReservationCancelled))

	require.False(t, CanTransitionReservation(ReservationConfirmed, ReservationPending))
	require.False(t, CanTransitionReservation(ReservationCancelled, ReservationConfirmed))
	require.False(t, CanTransitionReservation(ReservationExpired, ReservationConfirmed))
	require.False(t, CanTransitionReservation(ReservationCompleted, ReservationCancelled))
}

func TestValidateReservationTransition_SameStatusIsNoOp(t *testing.T) {
	// Webhook redeliveries re-apply the status they already set.
	require.NoError(t, ValidateReservationTransition(ReservationConfirmed, ReservationConfirmed))
	require.Error(t, ValidateReservationTransition(ReservationExpired, ReservationConfirmed))
}

func TestValidScheduleStatus(t *testing.T) {
	for _, s := range []ScheduleStatus{ScheduleScheduled, ScheduleInProgress, ScheduleCompleted, ScheduleFailed} {
		require.True(t, ValidScheduleStatus(s))
	}
	require.False(t, ValidScheduleStatus("paused"))
}
