package playlist

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"streamly/internal/domain"
	"streamly/internal/events"
	"streamly/internal/logging"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	playlistID = "22222222-2222-2222-2222-222222222222"
	songID     = "33333333-3333-3333-3333-333333333333"
)

var owner = &domain.User{ID: ownerID, Username: "owner", Role: domain.RoleListener}

func ptr[T any](v T) *T { return &v }

func newTestService() (*Service, *MockStore, *recordingPublisher) {
	store := new(MockStore)
	pub := &recordingPublisher{}
	return NewService(store, pub, logging.Discard()), store, pub
}

func TestRequiresAuthentication(t *testing.T) {
	s, store, _ := newTestService()
	ctx := context.Background()

	_, err := s.ListOwned(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = s.Create(ctx, nil, CreateInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = s.AddSong(ctx, nil, playlistID, songID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = s.RecordPlay(ctx, nil, playlistID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	store.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsToPublic", func(t *testing.T) {
		s, store, pub := newTestService()
		store.On("CreatePlaylist", mock.Anything, ownerID, "Road Trip", "", true).
			Return(domain.Playlist{ID: playlistID, Name: "Road Trip", OwnerID: ownerID, IsPublic: true, Songs: []domain.Song{}}, nil)

		pl, err := s.Create(ctx, owner, CreateInput{Name: "  Road Trip "})
		require.NoError(t, err)
		assert.True(t, pl.IsPublic)
		assert.Empty(t, pl.Songs)
		require.Len(t, pub.events, 1)
		assert.Equal(t, events.PlaylistCreated, pub.events[0].Type)
	})

	t.Run("Private", func(t *testing.T) {
		s, store, _ := newTestService()
		store.On("CreatePlaylist", mock.Anything, ownerID, "Secret", "shh", false).
			Return(domain.Playlist{ID: playlistID, IsPublic: false}, nil)

		pl, err := s.Create(ctx, owner, CreateInput{Name: "Secret", Description: "shh", IsPublic: ptr(false)})
		require.NoError(t, err)
		assert.False(t, pl.IsPublic)
	})

	t.Run("Validation", func(t *testing.T) {
		s, store, _ := newTestService()
		for _, in := range []CreateInput{
			{Name: ""},
			{Name: "   "},
			{Name: strings.Repeat("n", 201)},
			{Name: "ok", Description: strings.Repeat("d", 1001)},
		} {
			_, err := s.Create(ctx, owner, in)
			assert.True(t, domain.IsKind(err, domain.KindValidation))
		}
		store.AssertNotCalled(t, "CreatePlaylist", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOwnershipMasking(t *testing.T) {
	ctx := context.Background()
	s, store, pub := newTestService()
	stranger := &domain.User{ID: "44444444-4444-4444-4444-444444444444", Role: domain.RoleArtist}

	store.On("FindOwnedPlaylist", mock.Anything, playlistID, stranger.ID).Return(domain.Playlist{}, domain.ErrPlaylistNotFound)
	store.On("UpdateOwnedPlaylist", mock.Anything, playlistID, stranger.ID, mock.Anything).Return(domain.Playlist{}, domain.ErrPlaylistNotFound)
	store.On("DeleteOwnedPlaylist", mock.Anything, playlistID, stranger.ID).Return(domain.ErrPlaylistNotFound)
	store.On("IncrementPlaylistPlays", mock.Anything, playlistID, stranger.ID).Return(0, domain.ErrPlaylistNotFound)

	_, err := s.GetOwned(ctx, stranger, playlistID)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	_, err = s.Update(ctx, stranger, playlistID, domain.PlaylistFields{Name: ptr("hijack")})
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	assert.ErrorIs(t, s.Delete(ctx, stranger, playlistID), domain.ErrPlaylistNotFound)
	_, err = s.RecordPlay(ctx, stranger, playlistID)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)

	// Absent playlists produce the exact same outcome.
	_, err = s.GetOwned(ctx, stranger, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)

	assert.Empty(t, pub.events)
	store.AssertExpectations(t)
}

func TestUpdatePartial(t *testing.T) {
	s, store, _ := newTestService()
	store.On("UpdateOwnedPlaylist", mock.Anything, playlistID, ownerID, mock.MatchedBy(func(f domain.PlaylistFields) bool {
		return f.Name == nil && f.Description == nil && f.IsPublic != nil && !*f.IsPublic
	})).Return(domain.Playlist{ID: playlistID, Name: "Keep", IsPublic: false}, nil)

	pl, err := s.Update(context.Background(), owner, playlistID, domain.PlaylistFields{IsPublic: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Keep", pl.Name)

	_, err = s.Update(context.Background(), owner, playlistID, domain.PlaylistFields{Name: ptr(" ")})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestAddSong(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, store, pub := newTestService()
		store.On("FindSong", mock.Anything, songID).Return(domain.Song{ID: songID, Status: domain.StatusDraft}, nil)
		store.On("AddPlaylistSong", mock.Anything, playlistID, ownerID, songID).
			Return(domain.Playlist{ID: playlistID, Songs: []domain.Song{{ID: songID}}}, nil)

		pl, err := s.AddSong(ctx, owner, playlistID, songID)
		require.NoError(t, err)
		assert.Len(t, pl.Songs, 1)
		require.Len(t, pub.events, 1)
		assert.Equal(t, songID, pub.events[0].Payload["addedSongId"])
	})

	t.Run("MissingSongCheckedFirst", func(t *testing.T) {
		s, store, _ := newTestService()
		store.On("FindSong", mock.Anything, songID).Return(domain.Song{}, domain.ErrSongNotFound)

		_, err := s.AddSong(ctx, owner, playlistID, songID)
		assert.ErrorIs(t, err, domain.ErrSongNotFound)
		store.AssertNotCalled(t, "AddPlaylistSong", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate", func(t *testing.T) {
		s, store, _ := newTestService()
		store.On("FindSong", mock.Anything, songID).Return(domain.Song{ID: songID}, nil)
		store.On("AddPlaylistSong", mock.Anything, playlistID, ownerID, songID).Return(domain.Playlist{}, domain.ErrDuplicateMember)

		_, err := s.AddSong(ctx, owner, playlistID, songID)
		assert.ErrorIs(t, err, domain.ErrDuplicateMember)
	})

	t.Run("MissingSongID", func(t *testing.T) {
		s, _, _ := newTestService()
		_, err := s.AddSong(ctx, owner, playlistID, "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestRemoveSong(t *testing.T) {
	s, store, _ := newTestService()
	ctx := context.Background()
	store.On("RemovePlaylistSong", mock.Anything, playlistID, ownerID, songID).
		Return(domain.Playlist{ID: playlistID, Songs: []domain.Song{}}, nil).Twice()

	for i := 0; i < 2; i++ {
		pl, err := s.RemoveSong(ctx, owner, playlistID, songID)
		require.NoError(t, err)
		assert.Empty(t, pl.Songs)
	}

	store.On("FindOwnedPlaylist", mock.Anything, playlistID, ownerID).Return(domain.Playlist{ID: playlistID}, nil)
	pl, err := s.RemoveSong(ctx, owner, playlistID, "garbage")
	require.NoError(t, err)
	assert.Equal(t, playlistID, pl.ID)
	store.AssertExpectations(t)
}

func TestRecordPlay(t *testing.T) {
	s, store, _ := newTestService()
	store.On("IncrementPlaylistPlays", mock.Anything, playlistID, ownerID).Return(3, nil)

	n, err := s.RecordPlay(context.Background(), owner, playlistID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListOwned(t *testing.T) {
	s, store, _ := newTestService()
	store.On("ListOwnedPlaylists", mock.Anything, ownerID).Return([]domain.Playlist{{ID: playlistID}}, nil)

	list, err := s.ListOwned(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
