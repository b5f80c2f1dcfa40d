package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harukimoto/trainlight/internal/model"
	"github.com/harukimoto/trainlight/internal/render"
	"github.com/harukimoto/trainlight/internal/repository"
)

func catalogTemplate(id uint64, category int, src string) *model.Template {
	return &model.Template{ID: id, Category: category, VideoURL: src, Duration: 10, IsActive: true}
}

func newVideoServiceForTest(videos *videoStoreMock, templates *templateStoreMock, renderer *renderClientMock, maxAttempts int) *VideoService {
	s := NewVideoService(context.Background(), videos, templates, renderer, time.Millisecond, maxAttempts)
	s.clock = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestVideoCreate_RendersToCompletion(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	templates.On("GetByID", mock.Anything, uint64(1)).Return(catalogTemplate(1, 1, "https://cdn/a.mp4"), nil)
	templates.On("GetByID", mock.Anything, uint64(2)).Return(catalogTemplate(2, 2, "https://cdn/b.mp4"), nil)
	templates.On("GetByID", mock.Anything, uint64(3)).Return(catalogTemplate(3, 3, "https://cdn/c.mp4"), nil)

	videos.On("Create", mock.Anything, mock.AnythingOfType("*model.Video")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Video).ID = 10
	}).Return(nil)
	renderer.On("Submit", mock.Anything, "https://cdn/a.mp4", "https://cdn/b.mp4", "https://cdn/c.mp4").Return("job-1", nil)
	videos.On("SetRenderID", mock.Anything, uint64(10), "job-1").Return(nil)

	renderer.On("Status", mock.Anything, "job-1").Return(render.Status{State: render.StateRendering}, nil).Once()
	renderer.On("Status", mock.Anything, "job-1").Return(render.Status{State: render.StateDone, URL: "https://cdn/out/final.mp4"}, nil).Once()
	videos.On("RecordPoll", mock.Anything, uint64(10), mock.Anything, mock.Anything).Return(nil)
	videos.On("MarkCompleted", mock.Anything, uint64(10), "https://cdn/out/final.mp4", "final.mp4").Return(true, nil)

	s := newVideoServiceForTest(videos, templates, renderer, 10)
	v, err := s.Create(context.Background(), 7, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(10), v.ID)
	require.Equal(t, model.VideoProcessing, v.Status)
	require.Equal(t, 30, v.Duration)

	s.Wait()
	videos.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestVideoCreate_CategoryMismatch(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	templates.On("GetByID", mock.Anything, uint64(1)).Return(catalogTemplate(1, 1, "a"), nil)
	// A category-3 template offered for the second position.
	templates.On("GetByID", mock.Anything, uint64(9)).Return(catalogTemplate(9, 3, "b"), nil)

	s := newVideoServiceForTest(videos, templates, renderer, 10)
	_, err := s.Create(context.Background(), 7, 1, 9, 3)
	require.ErrorIs(t, err, ErrInvalidTemplate)
	videos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVideoCreate_InactiveTemplate(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	inactive := catalogTemplate(1, 1, "a")
	inactive.IsActive = false
	templates.On("GetByID", mock.Anything, uint64(1)).Return(inactive, nil)

	s := newVideoServiceForTest(videos, templates, renderer, 10)
	_, err := s.Create(context.Background(), 7, 1, 2, 3)
	require.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestVideoCreate_SubmitFailureMarksFailed(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	templates.On("GetByID", mock.Anything, uint64(1)).Return(catalogTemplate(1, 1, "a"), nil)
	templates.On("GetByID", mock.Anything, uint64(2)).Return(catalogTemplate(2, 2, "b"), nil)
	templates.On("GetByID", mock.Anything, uint64(3)).Return(catalogTemplate(3, 3, "c"), nil)
	videos.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Video).ID = 11
	}).Return(nil)
	renderer.On("Submit", mock.Anything, "a", "b", "c").Return("", errors.New("render service unreachable"))
	videos.On("MarkFailed", mock.Anything, uint64(11), mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(true, nil)

	s := newVideoServiceForTest(videos, templates, renderer, 10)
	_, err := s.Create(context.Background(), 7, 1, 2, 3)
	require.Error(t, err)
	videos.AssertExpectations(t)
}

func TestVideoPoll_TimeoutMarksFailed(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	templates.On("GetByID", mock.Anything, uint64(1)).Return(catalogTemplate(1, 1, "a"), nil)
	templates.On("GetByID", mock.Anything, uint64(2)).Return(catalogTemplate(2, 2, "b"), nil)
	templates.On("GetByID", mock.Anything, uint64(3)).Return(catalogTemplate(3, 3, "c"), nil)
	videos.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Video).ID = 12
	}).Return(nil)
	renderer.On("Submit", mock.Anything, "a", "b", "c").Return("job-2", nil)
	videos.On("SetRenderID", mock.Anything, uint64(12), "job-2").Return(nil)
	renderer.On("Status", mock.Anything, "job-2").Return(render.Status{State: render.StateRendering}, nil)
	videos.On("RecordPoll", mock.Anything, uint64(12), mock.Anything, mock.Anything).Return(nil)
	videos.On("MarkFailed", mock.Anything, uint64(12), "render timed out").Return(true, nil)

	s := newVideoServiceForTest(videos, templates, renderer, 3)
	_, err := s.Create(context.Background(), 7, 1, 2, 3)
	require.NoError(t, err)

	s.Wait()
	videos.AssertExpectations(t)
	renderer.AssertNumberOfCalls(t, "Status", 3)
}

func TestVideoPoll_FailureRecordsReason(t *testing.T) {
	videos := new(videoStoreMock)
	templates := new(templateStoreMock)
	renderer := new(renderClientMock)

	templates.On("GetByID", mock.Anything, uint64(1)).Return(catalogTemplate(1, 1, "a"), nil)
	templates.On("GetByID", mock.Anything, uint64(2)).Return(catalogTemplate(2, 2, "b"), nil)
	templates.On("GetByID", mock.Anything, uint64(3)).Return(catalogTemplate(3, 3, "c"), nil)
	videos.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Video).ID = 13
	}).Return(nil)
	renderer.On("Submit", mock.Anything, "a", "b", "c").Return("job-3", nil)
	videos.On("SetRenderID", mock.Anything, uint64(13), "job-3").Return(nil)
	renderer.On("Status", mock.Anything, "job-3").Return(render.Status{State: render.StateFailed, Error: "source fetch error"}, nil)
	videos.On("RecordPoll", mock.Anything, uint64(13), mock.Anything, mock.Anything).Return(nil)
	videos.On("MarkFailed", mock.Anything, uint64(13), "source fetch error").Return(true, nil)

	s := newVideoServiceForTest(videos, templates, renderer, 10)
	_, err := s.Create(context.Background(), 7, 1, 2, 3)
	require.NoError(t, err)

	s.Wait()
	videos.AssertExpectations(t)
}

func TestVideoGet_OtherUsersVideoReadsNotFound(t *testing.T) {
	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(5)).Return(&model.Video{ID: 5, UserID: 99}, nil)

	s := newVideoServiceForTest(videos, new(templateStoreMock), new(renderClientMock), 10)
	_, err := s.Get(context.Background(), 7, 5)
	require.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestVideoDelete_OwnershipEnforced(t *testing.T) {
	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(5)).Return(&model.Video{ID: 5, UserID: 99}, nil)

	s := newVideoServiceForTest(videos, new(templateStoreMock), new(renderClientMock), 10)
	err := s.Delete(context.Background(), 7, 5)
	require.ErrorIs(t, err, repository.ErrVideoNotFound)
	videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVideoDelete_BlockedWhileProcessing(t *testing.T) {
	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(5)).Return(&model.Video{ID: 5, UserID: 7, Status: model.VideoProcessing}, nil)

	s := newVideoServiceForTest(videos, new(templateStoreMock), new(renderClientMock), 10)
	err := s.Delete(context.Background(), 7, 5)
	require.ErrorIs(t, err, repository.ErrConflict)
	videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVideoDelete_CompletedVideo(t *testing.T) {
	videos := new(videoStoreMock)
	videos.On("GetByID", mock.Anything, uint64(5)).Return(&model.Video{ID: 5, UserID: 7, Status: model.VideoCompleted}, nil)
	videos.On("Delete", mock.Anything, uint64(5)).Return(nil)

	s := newVideoServiceForTest(videos, new(templateStoreMock), new(renderClientMock), 10)
	require.NoError(t, s.Delete(context.Background(), 7, 5))
	videos.AssertExpectations(t)
}
