package catalog

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"streamly/internal/auth"
	"streamly/internal/domain"
	"streamly/internal/events"
	"streamly/internal/logging"
)

type Store interface {
	ListPublishedSongs(ctx context.Context, f domain.SongFilter, limit, offset int) ([]domain.Song, int, error)
	SearchSongs(ctx context.Context, query string) ([]domain.Song, error)
	PopularSongs(ctx context.Context, limit int) ([]domain.Song, error)
	ListSongsByCreator(ctx context.Context, creatorID string) ([]domain.Song, error)
	FindSong(ctx context.Context, id string) (domain.Song, error)
	CreateSong(ctx context.Context, creatorID string, f domain.SongFields) (domain.Song, error)
	UpdateOwnedSong(ctx context.Context, id, ownerID string, f domain.SongFields) (domain.Song, error)
	DeleteOwnedSong(ctx context.Context, id, ownerID string) error
	IncrementSongPlays(ctx context.Context, id string) (int, error)
	ToggleLike(ctx context.Context, userID, songID string) (domain.LikeResult, error)
	Unlike(ctx context.Context, userID, songID string) (domain.LikeResult, error)
}

// Service owns the song catalog: public listings, artist-owned content and
// the play and like counters.
type Service struct {
	store  Store
	events events.Publisher
	logger *log.Logger
}

func NewService(store Store, pub events.Publisher, logger *log.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: store, events: pub, logger: logging.With(logger, "component", "catalog")}
}

// ParsePage reads page and limit query values. Empty values take the defaults;
// limit is capped at domain.MaxPageSize.
func ParsePage(pageStr, limitStr string) (page, limit int, err error) {
	page, limit = 1, domain.DefaultPageSize
	if pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil || page < 1 {
			return 0, 0, domain.Validation("page must be a positive integer")
		}
	}
	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 1 {
			return 0, 0, domain.Validation("limit must be a positive integer")
		}
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	if !offsetFits(page, limit) {
		return 0, 0, errPageOutOfRange
	}
	return page, limit, nil
}

var (
	errPageOutOfRange = domain.Validation("page is out of range")
	errInvalidText    = domain.Validation("search text must be valid UTF-8")
)

// offsetFits reports whether (page-1)*limit does not overflow int.
func offsetFits(page, limit int) bool {
	return page-1 <= math.MaxInt/limit
}

func (s *Service) ListPublished(ctx context.Context, f domain.SongFilter, page, limit int) (domain.SongPage, error) {
	if page < 1 || limit < 1 {
		return domain.SongPage{}, domain.Validation("page and limit must be positive")
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	if !offsetFits(page, limit) {
		return domain.SongPage{}, errPageOutOfRange
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Genre = strings.TrimSpace(f.Genre)
	if !utf8.ValidString(f.Search) || !utf8.ValidString(f.Genre) {
		return domain.SongPage{}, errInvalidText
	}

	songs, total, err := s.store.ListPublishedSongs(ctx, f, limit, (page-1)*limit)
	if err != nil {
		return domain.SongPage{}, s.fail("list songs", err)
	}
	return domain.SongPage{
		Songs:       songs,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Total:       total,
	}, nil
}

func (s *Service) Search(ctx context.Context, q string) ([]domain.Song, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.Validation("search query is required")
	}
	if !utf8.ValidString(q) {
		return nil, errInvalidText
	}
	songs, err := s.store.SearchSongs(ctx, q)
	if err != nil {
		return nil, s.fail("search songs", err)
	}
	return songs, nil
}

func (s *Service) Popular(ctx context.Context) ([]domain.Song, error) {
	songs, err := s.store.PopularSongs(ctx, domain.PopularLimit)
	if err != nil {
		return nil, s.fail("popular songs", err)
	}
	return songs, nil
}

// Get returns a song regardless of its status.
func (s *Service) Get(ctx context.Context, id string) (domain.Song, error) {
	if !domain.IsID(id) {
		return domain.Song{}, domain.ErrSongNotFound
	}
	song, err := s.store.FindSong(ctx, id)
	if err != nil {
		return domain.Song{}, s.fail("get song", err)
	}
	return song, nil
}

// ListMine returns every song the calling artist created, drafts included.
func (s *Service) ListMine(ctx context.Context, caller *domain.User) ([]domain.Song, error) {
	if err := auth.RequireRole(caller, domain.RoleArtist); err != nil {
		return nil, err
	}
	songs, err := s.store.ListSongsByCreator(ctx, caller.ID)
	if err != nil {
		return nil, s.fail("list my songs", err)
	}
	return songs, nil
}

func (s *Service) Create(ctx context.Context, caller *domain.User, f domain.SongFields) (domain.Song, error) {
	if err := auth.RequireRole(caller, domain.RoleArtist); err != nil {
		return domain.Song{}, err
	}
	f, err := normalizeFields(f, true)
	if err != nil {
		return domain.Song{}, err
	}
	song, err := s.store.CreateSong(ctx, caller.ID, f)
	if err != nil {
		return domain.Song{}, s.fail("create song", err)
	}
	s.publish(ctx, events.SongCreated, song.ID, map[string]any{"song": song})
	return song, nil
}

func (s *Service) Update(ctx context.Context, caller *domain.User, id string, f domain.SongFields) (domain.Song, error) {
	if err := auth.RequireRole(caller, domain.RoleArtist); err != nil {
		return domain.Song{}, err
	}
	if !domain.IsID(id) {
		return domain.Song{}, domain.ErrSongNotFound
	}
	f, err := normalizeFields(f, false)
	if err != nil {
		return domain.Song{}, err
	}
	song, err := s.store.UpdateOwnedSong(ctx, id, caller.ID, f)
	if err != nil {
		return domain.Song{}, s.fail("update song", err)
	}
	s.publish(ctx, events.SongUpdated, song.ID, map[string]any{"song": song})
	return song, nil
}

func (s *Service) Delete(ctx context.Context, caller *domain.User, id string) error {
	if err := auth.RequireRole(caller, domain.RoleArtist); err != nil {
		return err
	}
	if !domain.IsID(id) {
		return domain.ErrSongNotFound
	}
	if err := s.store.DeleteOwnedSong(ctx, id, caller.ID); err != nil {
		return s.fail("delete song", err)
	}
	s.publish(ctx, events.SongDeleted, id, nil)
	return nil
}

// RecordPlay counts one play. Any authenticated user may play any song.
func (s *Service) RecordPlay(ctx context.Context, caller *domain.User, id string) (int, error) {
	if err := auth.Authenticated(caller); err != nil {
		return 0, err
	}
	if !domain.IsID(id) {
		return 0, domain.ErrSongNotFound
	}
	n, err := s.store.IncrementSongPlays(ctx, id)
	if err != nil {
		return 0, s.fail("record play", err)
	}
	s.publish(ctx, events.SongPlayed, id, map[string]any{"playCount": n})
	return n, nil
}

func (s *Service) ToggleLike(ctx context.Context, caller *domain.User, id string) (domain.LikeResult, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.LikeResult{}, err
	}
	if !domain.IsID(id) {
		return domain.LikeResult{}, domain.ErrSongNotFound
	}
	res, err := s.store.ToggleLike(ctx, caller.ID, id)
	if err != nil {
		return domain.LikeResult{}, s.fail("toggle like", err)
	}
	s.publish(ctx, events.SongLiked, id, map[string]any{"likes": res.Likes})
	return res, nil
}

// Unlike removes the caller's like. Unliking twice is not an error.
func (s *Service) Unlike(ctx context.Context, caller *domain.User, id string) (domain.LikeResult, error) {
	if err := auth.Authenticated(caller); err != nil {
		return domain.LikeResult{}, err
	}
	if !domain.IsID(id) {
		return domain.LikeResult{}, domain.ErrSongNotFound
	}
	res, err := s.store.Unlike(ctx, caller.ID, id)
	if err != nil {
		return domain.LikeResult{}, s.fail("unlike", err)
	}
	s.publish(ctx, events.SongLiked, id, map[string]any{"likes": res.Likes})
	return res, nil
}

func (s *Service) publish(ctx context.Context, typ, songID string, extra map[string]any) {
	payload := map[string]any{"songId": songID}
	for k, v := range extra {
		payload[k] = v
	}
	s.events.Publish(ctx, events.Event{Type: typ, Payload: payload})
}

// fail logs unexpected store failures and passes domain errors through.
func (s *Service) fail(op string, err error) error {
	if domain.KindOf(err) == domain.KindUnexpected {
		s.logger.Error(op, "err", err)
	}
	return err
}
