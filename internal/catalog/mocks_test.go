package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamly/internal/domain"
	"streamly/internal/events"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListPublishedSongs(ctx context.Context, f domain.SongFilter, limit, offset int) ([]domain.Song, int, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Song), args.Int(1), args.Error(2)
}

func (m *MockStore) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Song), args.Error(1)
}

func (m *MockStore) PopularSongs(ctx context.Context, limit int) ([]domain.Song, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Song), args.Error(1)
}

func (m *MockStore) ListSongsByCreator(ctx context.Context, creatorID string) ([]domain.Song, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Song), args.Error(1)
}

func (m *MockStore) FindSong(ctx context.Context, id string) (domain.Song, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Song), args.Error(1)
}

func (m *MockStore) CreateSong(ctx context.Context, creatorID string, f domain.SongFields) (domain.Song, error) {
	args := m.Called(ctx, creatorID, f)
	return args.Get(0).(domain.Song), args.Error(1)
}

func (m *MockStore) UpdateOwnedSong(ctx context.Context, id, ownerID string, f domain.SongFields) (domain.Song, error) {
	args := m.Called(ctx, id, ownerID, f)
	return args.Get(0).(domain.Song), args.Error(1)
}

func (m *MockStore) DeleteOwnedSong(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockStore) IncrementSongPlays(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ToggleLike(ctx context.Context, userID, songID string) (domain.LikeResult, error) {
	args := m.Called(ctx, userID, songID)
	return args.Get(0).(domain.LikeResult), args.Error(1)
}

func (m *MockStore) Unlike(ctx context.Context, userID, songID string) (domain.LikeResult, error) {
	args := m.Called(ctx, userID, songID)
	return args.Get(0).(domain.LikeResult), args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	p.events = append(p.events, evt)
}
