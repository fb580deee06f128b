package engagement

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"streamly/internal/auth"
	"streamly/internal/domain"
	"streamly/internal/logging"
)

type Store interface {
	AppendRecentlyPlayed(ctx context.Context, userID, songID string, at time.Time) error
	RecentlyPlayed(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
	LikedSongs(ctx context.Context, userID string) ([]domain.Song, error)
	FindUserByID(ctx context.Context, id string) (domain.User, error)
	ListPublishedByCreator(ctx context.Context, creatorID string) ([]domain.Song, error)
	ListPublicPlaylists(ctx context.Context, ownerID string) ([]domain.Playlist, error)
}

// Tracker records listening history and serves the per-user views built on it.
type Tracker struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

func NewTracker(store Store, logger *log.Logger) *Tracker {
	return &Tracker{store: store, logger: logging.With(logger, "component", "engagement"), now: time.Now}
}

// AppendRecentlyPlayed adds one history entry. Repeats are kept.
func (t *Tracker) AppendRecentlyPlayed(ctx context.Context, caller *domain.User, songID string) error {
	if err := auth.Authenticated(caller); err != nil {
		return err
	}
	if !domain.IsID(songID) {
		return domain.ErrSongNotFound
	}
	if err := t.store.AppendRecentlyPlayed(ctx, caller.ID, songID, t.now().UTC()); err != nil {
		return t.fail("append recently played", err)
	}
	return nil
}

// RecentlyPlayed returns at most domain.RecentlyPlayedLimit entries, newest first.
func (t *Tracker) RecentlyPlayed(ctx context.Context, caller *domain.User) ([]domain.HistoryEntry, error) {
	if err := auth.Authenticated(caller); err != nil {
		return nil, err
	}
	entries, err := t.store.RecentlyPlayed(ctx, caller.ID, domain.RecentlyPlayedLimit)
	if err != nil {
		return nil, t.fail("recently played", err)
	}
	if len(entries) > domain.RecentlyPlayedLimit {
		entries = entries[:domain.RecentlyPlayedLimit]
	}
	return entries, nil
}

// LikedSongs returns the caller's liked songs in the order they were liked.
func (t *Tracker) LikedSongs(ctx context.Context, caller *domain.User) ([]domain.Song, error) {
	if err := auth.Authenticated(caller); err != nil {
		return nil, err
	}
	songs, err := t.store.LikedSongs(ctx, caller.ID)
	if err != nil {
		return nil, t.fail("liked songs", err)
	}
	return songs, nil
}

// Profile returns the caller's own record with liked songs and recent history resolved.
func (t *Tracker) Profile(ctx context.Context, caller *domain.User) (domain.Profile, error) {
	liked, err := t.LikedSongs(ctx, caller)
	if err != nil {
		return domain.Profile{}, err
	}
	recent, err := t.RecentlyPlayed(ctx, caller)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{User: *caller, LikedSongs: liked, RecentlyPlayed: recent}, nil
}

// ArtistProfile is public. Stats cover the published songs only and are computed on every read.
func (t *Tracker) ArtistProfile(ctx context.Context, artistID string) (domain.ArtistProfile, error) {
	if !domain.IsID(artistID) {
		return domain.ArtistProfile{}, domain.ErrArtistNotFound
	}
	u, err := t.store.FindUserByID(ctx, artistID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ArtistProfile{}, domain.ErrArtistNotFound
	}
	if err != nil {
		return domain.ArtistProfile{}, t.fail("find artist", err)
	}

	songs, err := t.store.ListPublishedByCreator(ctx, artistID)
	if err != nil {
		return domain.ArtistProfile{}, t.fail("artist songs", err)
	}
	playlists, err := t.store.ListPublicPlaylists(ctx, artistID)
	if err != nil {
		return domain.ArtistProfile{}, t.fail("artist playlists", err)
	}

	stats := domain.ArtistStats{TotalSongs: len(songs)}
	for _, s := range songs {
		stats.TotalPlays += s.PlayCount
		stats.TotalLikes += s.Likes
	}
	return domain.ArtistProfile{
		Artist:    u.Public(),
		Songs:     songs,
		Playlists: playlists,
		Stats:     stats,
	}, nil
}

func (t *Tracker) fail(op string, err error) error {
	if domain.KindOf(err) == domain.KindUnexpected {
		t.logger.Error(op, "err", err)
	}
	return err
}
