package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlotStart(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	require.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), SlotStart(date, 1))
	require.Equal(t, time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC), SlotStart(date, 2))
	// Slot 36 is the last of the day: 17:45.
	require.Equal(t, time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC), SlotStart(date, SlotsPerDay))
}

func TestSlotStart_IgnoresTimeOfDay(t *testing.T) {
	// Only the calendar day matters; a mid-day timestamp maps to the same
	// slot instants as midnight.
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	noonish := time.Date(2026, 3, 10, 13, 42, 7, 0, time.UTC)
	require.Equal(t, SlotStart(midnight, 12), SlotStart(noonish, 12))
}

func TestValidSlot(t *testing.T) {
	require.True(t, ValidSlot(1))
	require.True(t, ValidSlot(36))
	require.False(t, ValidSlot(0))
	require.False(t, ValidSlot(37))
	require.False(t, ValidSlot(-3))
}

func TestReservationMutable_CutoffBoundary(t *testing.T) {
	r := &Reservation{
		ProjectionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		SlotNumber:     1, // starts 2026-03-10 09:00 UTC
	}
	cutoff := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	require.True(t, r.Mutable(cutoff.Add(-time.Hour)))
	// Exactly 24 hours before the slot start is still allowed.
	require.True(t, r.Mutable(cutoff))
	require.False(t, r.Mutable(cutoff.Add(time.Nanosecond)))
	require.False(t, r.Mutable(cutoff.Add(12*time.Hour)))
}
