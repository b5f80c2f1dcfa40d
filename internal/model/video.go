package model

import "time"

// Video is a composite clip assembled from three templates by the external
// render service. VideoURL is set exactly when Status is completed; the
// render fields persist poll progress so a restart can re-declare a timeout
// instead of losing track of an in-flight job.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owning user.
//  Template1ID  – category-1 template reference.
//  Template2ID  – category-2 template reference.
//  Template3ID  – category-3 template reference.
//  VideoURL     – composite artifact location (nil until completed).
//  VideoKey     – storage key of the artifact (nil until completed).
//  Duration     – computed clip length in seconds.
//  Status       – render lifecycle state.
//  ErrorMessage – failure detail when Status is failed.
//  RenderID     – external render job identifier.
//  PollAttempts – number of status polls performed so far.
//  LastPolledAt – time of the most recent poll.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Video struct {
	ID           uint64      // videos.id
	UserID       uint64      // videos.user_id
	Template1ID  uint64      // videos.template1_id
	Template2ID  uint64      // videos.template2_id
	Template3ID  uint64      // videos.template3_id
	VideoURL     *string     // videos.video_url (nullable)
	VideoKey     *string     // videos.video_key (nullable)
	Duration     int         // videos.duration
	Status       VideoStatus // videos.status
	ErrorMessage *string     // videos.error_message (nullable)
	RenderID     *string     // videos.render_id (nullable)
	PollAttempts int         // videos.poll_attempts
	LastPolledAt *time.Time  // videos.last_polled_at (nullable)
	CreatedAt    time.Time   // videos.created_at
	UpdatedAt    time.Time   // videos.updated_at
}
