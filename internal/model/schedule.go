package model

import "time"

// ProjectionSchedule records one physical projection session run against a
// confirmed reservation. Driving the projector itself is outside this
// service; admins record planned and actual session times here.
//
// Fields:
//  ID              – primary key identifier.
//  ReservationID   – reservation being projected.
//  StartTime       – planned session start.
//  EndTime         – planned session end (start + 15 minutes).
//  Status          – session state.
//  ActualStartTime – when projection actually began.
//  ActualEndTime   – when projection actually finished.
//  ErrorMessage    – failure detail, if any.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type ProjectionSchedule struct {
	ID              uint64         // projection_schedules.id
	ReservationID   uint64         // projection_schedules.reservation_id
	StartTime       time.Time      // projection_schedules.start_time
	EndTime         time.Time      // projection_schedules.end_time
	Status          ScheduleStatus // projection_schedules.status
	ActualStartTime *time.Time     // projection_schedules.actual_start_time (nullable)
	ActualEndTime   *time.Time     // projection_schedules.actual_end_time (nullable)
	ErrorMessage    *string        // projection_schedules.error_message (nullable)
	CreatedAt       time.Time      // projection_schedules.created_at
	UpdatedAt       time.Time      // projection_schedules.updated_at
}
