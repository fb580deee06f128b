package playlist

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"streamly/internal/auth"
	"streamly/internal/domain"
	"streamly/internal/events"
	"streamly/internal/logging"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 1000
)

type Store interface {
	ListOwnedPlaylists(ctx context.Context, ownerID string) ([]domain.Playlist, error)
	FindOwnedPlaylist(ctx context.Context, id, ownerID string) (domain.Playlist, error)
	CreatePlaylist(ctx context.Context, ownerID, name, description string, isPublic bool) (domain.Playlist, error)
	UpdateOwnedPlaylist(ctx context.Context, id, ownerID string, f domain.PlaylistFields) (domain.Playlist, error)
	DeleteOwnedPlaylist(ctx context.Context, id, ownerID string) error
	AddPlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error)
	RemovePlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error)
	IncrementPlaylistPlays(ctx context.Context, id, ownerID string) (int, error)
	FindSong(ctx context.Context, id string) (domain.Song, error)
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic"`
}

// Service manages user playlists. Every operation is scoped to the caller:
// a playlist owned by someone else is reported as not found.
type Service struct {
	store  Store
	events events.Publisher
	logger *log.Logger
}

func NewService(store Store, pub events.Publisher, logger *log.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: store, events: pub, logger: logging.With(logger, "component", "playlist")}
}

func (s *Service) ListOwned(ctx context.Context, caller *domain.User) ([]domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return nil, err
	}
	list, err := s.store.ListOwnedPlaylists(ctx, caller.ID)
	if err != nil {
		return nil, s.fail("list playlists", err)
	}
	return list, nil
}

func (s *Service) GetOwned(ctx context.Context, caller *domain.User, id string) (domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.Playlist{}, err
	}
	if !domain.IsID(id) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	pl, err := s.store.FindOwnedPlaylist(ctx, id, caller.ID)
	if err != nil {
		return domain.Playlist{}, s.fail("get playlist", err)
	}
	return pl, nil
}

func (s *Service) Create(ctx context.Context, caller *domain.User, in CreateInput) (domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.Playlist{}, err
	}
	name, err := checkName(in.Name)
	if err != nil {
		return domain.Playlist{}, err
	}
	desc, err := checkDescription(in.Description)
	if err != nil {
		return domain.Playlist{}, err
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	pl, err := s.store.CreatePlaylist(ctx, caller.ID, name, desc, isPublic)
	if err != nil {
		return domain.Playlist{}, s.fail("create playlist", err)
	}
	s.publish(ctx, events.PlaylistCreated, pl.ID, caller.ID, nil)
	return pl, nil
}

// Update applies the provided fields only.
func (s *Service) Update(ctx context.Context, caller *domain.User, id string, f domain.PlaylistFields) (domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.Playlist{}, err
	}
	if !domain.IsID(id) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	if f.Name != nil {
		name, err := checkName(*f.Name)
		if err != nil {
			return domain.Playlist{}, err
		}
		f.Name = &name
	}
	if f.Description != nil {
		desc, err := checkDescription(*f.Description)
		if err != nil {
			return domain.Playlist{}, err
		}
		f.Description = &desc
	}

	pl, err := s.store.UpdateOwnedPlaylist(ctx, id, caller.ID, f)
	if err != nil {
		return domain.Playlist{}, s.fail("update playlist", err)
	}
	s.publish(ctx, events.PlaylistUpdated, pl.ID, caller.ID, nil)
	return pl, nil
}

// Delete removes the playlist. The songs it referenced stay in the catalog.
func (s *Service) Delete(ctx context.Context, caller *domain.User, id string) error {
	if err := auth.Authenticated(caller); err != nil {
		return err
	}
	if !domain.IsID(id) {
		return domain.ErrPlaylistNotFound
	}
	if err := s.store.DeleteOwnedPlaylist(ctx, id, caller.ID); err != nil {
		return s.fail("delete playlist", err)
	}
	s.publish(ctx, events.PlaylistDeleted, id, caller.ID, nil)
	return nil
}

// AddSong appends a catalog song, draft or published, to the end of an owned playlist.
func (s *Service) AddSong(ctx context.Context, caller *domain.User, id, songID string) (domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.Playlist{}, err
	}
	if strings.TrimSpace(songID) == "" {
		return domain.Playlist{}, domain.Validation("songId is required")
	}
	if !domain.IsID(songID) {
		return domain.Playlist{}, domain.ErrSongNotFound
	}
	if _, err := s.store.FindSong(ctx, songID); err != nil {
		return domain.Playlist{}, s.fail("find song", err)
	}
	if !domain.IsID(id) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}

	pl, err := s.store.AddPlaylistSong(ctx, id, caller.ID, songID)
	if err != nil {
		return domain.Playlist{}, s.fail("add song", err)
	}
	s.publish(ctx, events.PlaylistUpdated, pl.ID, caller.ID, map[string]any{"addedSongId": songID})
	return pl, nil
}

// RemoveSong drops a song from an owned playlist. Removing a song that is not a member succeeds.
func (s *Service) RemoveSong(ctx context.Context, caller *domain.User, id, songID string) (domain.Playlist, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.Playlist{}, err
	}
	if !domain.IsID(id) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	if !domain.IsID(songID) {
		// A malformed id can never be a member.
		return s.GetOwned(ctx, caller, id)
	}

	pl, err := s.store.RemovePlaylistSong(ctx, id, caller.ID, songID)
	if err != nil {
		return domain.Playlist{}, s.fail("remove song", err)
	}
	s.publish(ctx, events.PlaylistUpdated, pl.ID, caller.ID, map[string]any{"removedSongId": songID})
	return pl, nil
}

// RecordPlay counts a play of an owned playlist. Unlike song plays, only the
// owner may record one.
func (s *Service) RecordPlay(ctx context.Context, caller *domain.User, id string) (int, error) {
	if err := auth.Authenticated(caller); err != nil {
		return 0, err
	}
	if !domain.IsID(id) {
		return 0, domain.ErrPlaylistNotFound
	}
	n, err := s.store.IncrementPlaylistPlays(ctx, id, caller.ID)
	if err != nil {
		return 0, s.fail("record playlist play", err)
	}
	s.publish(ctx, events.PlaylistPlayed, id, caller.ID, map[string]any{"playCount": n})
	return n, nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Validation("name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return "", domain.Validation("name must be at most 200 characters")
	}
	return name, nil
}

func checkDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if len([]rune(desc)) > maxDescriptionLen {
		return "", domain.Validation("description must be at most 1000 characters")
	}
	return desc, nil
}

func (s *Service) publish(ctx context.Context, typ, playlistID, ownerID string, extra map[string]any) {
	payload := map[string]any{"playlistId": playlistID, "ownerId": ownerID}
	for k, v := range extra {
		payload[k] = v
	}
	s.events.Publish(ctx, events.Event{Type: typ, Payload: payload})
}

func (s *Service) fail(op string, err error) error {
	if domain.KindOf(err) == domain.KindUnexpected {
		s.logger.Error(op, "err", err)
	}
	return err
}
