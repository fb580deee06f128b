package playlist

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamly/internal/domain"
	"streamly/internal/events"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListOwnedPlaylists(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Playlist), args.Error(1)
}

func (m *MockStore) FindOwnedPlaylist(ctx context.Context, id, ownerID string) (domain.Playlist, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(domain.Playlist), args.Error(1)
}

func (m *MockStore) CreatePlaylist(ctx context.Context, ownerID, name, description string, isPublic bool) (domain.Playlist, error) {
	args := m.Called(ctx, ownerID, name, description, isPublic)
	return args.Get(0).(domain.Playlist), args.Error(1)
}

func (m *MockStore) UpdateOwnedPlaylist(ctx context.Context, id, ownerID string, f domain.PlaylistFields) (domain.Playlist, error) {
	args := m.Called(ctx, id, ownerID, f)
	return args.Get(0).(domain.Playlist), args.Error(1)
}

func (m *MockStore) DeleteOwnedPlaylist(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockStore) AddPlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error) {
	args := m.Called(ctx, id, ownerID, songID)
	return args.Get(0).(domain.Playlist), args.Error(1)
}

func (m *MockStore) RemovePlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error) {
	args := m.Called(ctx, id, ownerID, songID)
	return args.Get(0).(domain.Playlist), args.Error(1)
}

func (m *MockStore) IncrementPlaylistPlays(ctx context.Context, id, ownerID string) (int, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) FindSong(ctx context.Context, id string) (domain.Song, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Song), args.Error(1)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	p.events = append(p.events, evt)
}
