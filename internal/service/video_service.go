package service

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync"
	"time"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/render"
	"github.com/harukimoto/trainlight/internal/repository"
)

// VideoService assembles composite videos from three catalog templates and
// drives the external render job to completion in the background. One
// watcher goroutine runs per in-flight video; its lifetime is bounded by
// the root context handed to the constructor, so server shutdown stops
// all polling.
type VideoService struct {
	videos    VideoStore
	templates TemplateStore
	renderer  RenderClient

	pollInterval    time.Duration
	pollMaxAttempts int

	rootCtx context.Context
	clock   func() time.Time

	mu       sync.Mutex
	inflight map[uint64]struct{}
	wg       sync.WaitGroup
}

// NewVideoService wires a video service. rootCtx bounds the background
// poll goroutines; cancel it to stop them.
func NewVideoService(rootCtx context.Context, videos VideoStore, templates TemplateStore, renderer RenderClient, pollInterval time.Duration, pollMaxAttempts int) *VideoService {
	return &VideoService{
		videos:          videos,
		templates:       templates,
		renderer:        renderer,
		pollInterval:    pollInterval,
		pollMaxAttempts: pollMaxAttempts,
		rootCtx:         rootCtx,
		clock:           func() time.Time { return time.Now().UTC() },
		inflight:        make(map[uint64]struct{}),
	}
}

// Create validates the template selection, records a processing video and
// submits the render job. The returned video is in processing state; the
// final state arrives asynchronously via the poll loop.
func (s *VideoService) Create(ctx context.Context, userID uint64, template1ID, template2ID, template3ID uint64) (*model.Video, error) {
	ids := []uint64{template1ID, template2ID, template3ID}
	srcs := make([]string, 0, 3)
	duration := 0
	for i, id := range ids {
		t, err := s.templates.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// Each slot of the composition takes its template from the
		// matching catalog category, in order.
		if !t.IsActive || t.Category != i+1 {
			return nil, ErrInvalidTemplate
		}
		srcs = append(srcs, t.VideoURL)
		duration += t.Duration
	}

	v := &model.Video{
		UserID:      userID,
		Template1ID: template1ID,
		Template2ID: template2ID,
		Template3ID: template3ID,
		Duration:    duration,
		Status:      model.VideoProcessing,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, err
	}

	renderID, err := s.renderer.Submit(ctx, srcs[0], srcs[1], srcs[2])
	if err != nil {
		if _, ferr := s.videos.MarkFailed(ctx, v.ID, "render submit failed: "+err.Error()); ferr != nil {
			log.Printf("video %d: mark failed after submit error: %v", v.ID, ferr)
		}
		return nil, fmt.Errorf("submitting render job: %w", err)
	}
	if err := s.videos.SetRenderID(ctx, v.ID, renderID); err != nil {
		return nil, err
	}
	v.RenderID = &renderID

	s.watch(v.ID, renderID)
	return v, nil
}

// watch starts the poll goroutine for a render job unless one is already
// running for the same video.
func (s *VideoService) watch(videoID uint64, renderID string) {
	s.mu.Lock()
	if _, ok := s.inflight[videoID]; ok {
		s.mu.Unlock()
		return
	}
	s.inflight[videoID] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, videoID)
			s.mu.Unlock()
		}()
		s.poll(videoID, renderID)
	}()
}

// poll observes one render job until it reaches a terminal state, the
// attempt budget runs out, or the root context is cancelled. Terminal
// writes are no-ops when the video row was deleted mid-render.
func (s *VideoService) poll(videoID uint64, renderID string) {
	ctx := s.rootCtx
	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= s.pollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		timer.Reset(s.pollInterval)

		st, err := s.renderer.Status(ctx, renderID)
		if rerr := s.videos.RecordPoll(ctx, videoID, attempt, s.clock()); rerr != nil {
			log.Printf("video %d: record poll: %v", videoID, rerr)
		}
		if err != nil {
			log.Printf("video %d: render status poll %d: %v", videoID, attempt, err)
			continue
		}

		switch st.State {
		case render.StateDone:
			landed, err := s.videos.MarkCompleted(ctx, videoID, st.URL, path.Base(st.URL))
			if err != nil {
				log.Printf("video %d: mark completed: %v", videoID, err)
			} else if !landed {
				log.Printf("video %d: render finished but row no longer processing; dropping result", videoID)
			}
			return
		case render.StateFailed:
			msg := st.Error
			if msg == "" {
				msg = "render failed"
			}
			if _, err := s.videos.MarkFailed(ctx, videoID, msg); err != nil {
				log.Printf("video %d: mark failed: %v", videoID, err)
			}
			return
		}
	}

	if _, err := s.videos.MarkFailed(ctx, videoID, "render timed out"); err != nil {
		log.Printf("video %d: mark timed out: %v", videoID, err)
	}
}

// Get returns a video owned by the given user. Videos owned by someone
// else read as not found so the API does not leak their existence.
func (s *VideoService) Get(ctx context.Context, userID, videoID uint64) (*model.Video, error) {
	v, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, repository.ErrVideoNotFound
	}
	return v, nil
}

// List returns the user's videos, newest first.
func (s *VideoService) List(ctx context.Context, userID uint64) ([]model.Video, error) {
	return s.videos.ListByUser(ctx, userID)
}

// Delete removes a video owned by the given user. A video whose render is
// still in flight cannot be deleted out from under its poll loop, and a
// video referenced by a reservation cannot be deleted either (ErrConflict
// from the store's FK mapping).
func (s *VideoService) Delete(ctx context.Context, userID, videoID uint64) error {
	v, err := s.Get(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if v.Status == model.VideoProcessing {
		return repository.ErrConflict
	}
	return s.videos.Delete(ctx, videoID)
}

// RecoverStalled force-fails videos left processing by a previous process
// that died mid-poll. Call once at startup before serving traffic.
func (s *VideoService) RecoverStalled(ctx context.Context) error {
	budget := s.pollInterval*time.Duration(s.pollMaxAttempts) + time.Minute
	n, err := s.videos.FailStalled(ctx, s.clock().Add(-budget), "render abandoned by restart")
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("recovered %d stalled video(s)", n)
	}
	return nil
}

// Wait blocks until all poll goroutines have finished. Intended for
// shutdown after cancelling the root context.
func (s *VideoService) Wait() { s.wg.Wait() }
