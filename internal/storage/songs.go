package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"streamly/internal/domain"
)

// songColumns expects songs aliased as s and the creator joined as u.
const songColumns = `s.id, s.title, s.artist, s.album, s.duration, s.genre, s.album_art,
       s.audio_file, s.file_url, s.cover_art, s.play_count, s.likes,
       s.created_by, u.username, s.status, s.created_at, s.updated_at`

const (
	songFrom    = ` FROM songs s JOIN users u ON u.id = s.created_by`
	writtenFrom = ` FROM written s JOIN users u ON u.id = s.created_by`
)

func songScanTargets(s *domain.Song, status *string) []any {
	return []any{
		&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration, &s.Genre, &s.AlbumArt,
		&s.AudioFile, &s.FileURL, &s.CoverArt, &s.PlayCount, &s.Likes,
		&s.CreatedBy.ID, &s.CreatedBy.Username, status, &s.CreatedAt, &s.UpdatedAt,
	}
}

func scanSong(row pgx.Row) (domain.Song, error) {
	var (
		s      domain.Song
		status string
	)
	if err := row.Scan(songScanTargets(&s, &status)...); err != nil {
		return domain.Song{}, err
	}
	s.Status = domain.SongStatus(status)
	return s, nil
}

func collectSongs(rows pgx.Rows) ([]domain.Song, error) {
	defer rows.Close()
	songs := make([]domain.Song, 0)
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (p *Postgres) querySongs(ctx context.Context, q querier, op, sql string, args ...any) ([]domain.Song, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, unexpected(op, err)
	}
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, unexpected(op, err)
	}
	return songs, nil
}

// ListPublishedSongs returns one page of published songs ordered by play count, then recency,
// and the total number of matches.
func (p *Postgres) ListPublishedSongs(ctx context.Context, f domain.SongFilter, limit, offset int) ([]domain.Song, int, error) {
	where := []string{"s.status = 'published'"}
	var args []any
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		where = append(where, fmt.Sprintf("(s.title ILIKE $%d OR s.artist ILIKE $%d OR s.album ILIKE $%d)", n, n, n))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		where = append(where, fmt.Sprintf("s.genre = $%d", len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM songs s`+cond, args...).Scan(&total); err != nil {
		return nil, 0, unexpected("count songs", err)
	}

	args = append(args, limit, offset)
	sql := `SELECT ` + songColumns + songFrom + cond +
		fmt.Sprintf(` ORDER BY s.play_count DESC, s.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	songs, err := p.querySongs(ctx, p.db, "list songs", sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

// SearchSongs matches published songs by title or artist.
func (p *Postgres) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	return p.querySongs(ctx, p.db, "search songs", `SELECT `+songColumns+songFrom+`
      WHERE s.status = 'published'
        AND (s.title ILIKE $1 OR s.artist ILIKE $1)
      ORDER BY s.play_count DESC, s.created_at DESC`,
		likePattern(query),
	)
}

func (p *Postgres) PopularSongs(ctx context.Context, limit int) ([]domain.Song, error) {
	return p.querySongs(ctx, p.db, "popular songs", `SELECT `+songColumns+songFrom+`
      WHERE s.status = 'published'
      ORDER BY s.play_count DESC, s.likes DESC, s.created_at DESC
      LIMIT $1`,
		limit,
	)
}

// ListSongsByCreator returns every song of a creator, drafts included, newest first.
func (p *Postgres) ListSongsByCreator(ctx context.Context, creatorID string) ([]domain.Song, error) {
	return p.querySongs(ctx, p.db, "list creator songs", `SELECT `+songColumns+songFrom+`
      WHERE s.created_by = $1
      ORDER BY s.created_at DESC`,
		creatorID,
	)
}

// ListPublishedByCreator returns the published songs of a creator, most played first.
func (p *Postgres) ListPublishedByCreator(ctx context.Context, creatorID string) ([]domain.Song, error) {
	return p.querySongs(ctx, p.db, "list published creator songs", `SELECT `+songColumns+songFrom+`
      WHERE s.created_by = $1 AND s.status = 'published'
      ORDER BY s.play_count DESC, s.created_at DESC`,
		creatorID,
	)
}

func (p *Postgres) FindSong(ctx context.Context, id string) (domain.Song, error) {
	s, err := scanSong(p.db.QueryRow(ctx, `SELECT `+songColumns+songFrom+` WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Song{}, domain.ErrSongNotFound
	}
	if err != nil {
		return domain.Song{}, unexpected("find song", err)
	}
	return s, nil
}

func statusArg(s *domain.SongStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// CreateSong inserts a song owned by creatorID. Counters start at zero and a nil
// status defaults to published.
func (p *Postgres) CreateSong(ctx context.Context, creatorID string, f domain.SongFields) (domain.Song, error) {
	s, err := scanSong(p.db.QueryRow(ctx, `
      WITH written AS (
          INSERT INTO songs (title, artist, album, duration, genre, album_art, audio_file,
                             file_url, cover_art, status, created_by)
          VALUES ($1, $2, COALESCE($3, ''), $4, COALESCE($5, ''), COALESCE($6, ''), COALESCE($7, ''),
                  COALESCE($8, ''), COALESCE($9, ''), COALESCE($10, 'published'), $11)
          RETURNING *
      )
      SELECT `+songColumns+writtenFrom,
		f.Title, f.Artist, f.Album, f.Duration, f.Genre, f.AlbumArt, f.AudioFile,
		f.FileURL, f.CoverArt, statusArg(f.Status), creatorID,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Song{}, domain.ErrUserNotFound
		}
		return domain.Song{}, unexpected("create song", err)
	}
	return s, nil
}

// UpdateOwnedSong applies the non-nil fields to a song created by ownerID.
// Absent and foreign songs are indistinguishable.
func (p *Postgres) UpdateOwnedSong(ctx context.Context, id, ownerID string, f domain.SongFields) (domain.Song, error) {
	s, err := scanSong(p.db.QueryRow(ctx, `
      WITH written AS (
          UPDATE songs SET
              title      = COALESCE($3, title),
              artist     = COALESCE($4, artist),
              album      = COALESCE($5, album),
              duration   = COALESCE($6, duration),
              genre      = COALESCE($7, genre),
              album_art  = COALESCE($8, album_art),
              audio_file = COALESCE($9, audio_file),
              file_url   = COALESCE($10, file_url),
              cover_art  = COALESCE($11, cover_art),
              status     = COALESCE($12, status),
              updated_at = now()
          WHERE id = $1 AND created_by = $2
          RETURNING *
      )
      SELECT `+songColumns+writtenFrom,
		id, ownerID,
		f.Title, f.Artist, f.Album, f.Duration, f.Genre, f.AlbumArt, f.AudioFile,
		f.FileURL, f.CoverArt, statusArg(f.Status),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Song{}, domain.ErrSongNotFound
	}
	if err != nil {
		return domain.Song{}, unexpected("update song", err)
	}
	return s, nil
}

func (p *Postgres) DeleteOwnedSong(ctx context.Context, id, ownerID string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM songs WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return unexpected("delete song", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// IncrementSongPlays bumps the play counter in one statement and returns the new value.
func (p *Postgres) IncrementSongPlays(ctx context.Context, id string) (int, error) {
	var n int
	err := p.db.QueryRow(ctx, `UPDATE songs SET play_count = play_count + 1 WHERE id = $1 RETURNING play_count`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrSongNotFound
	}
	if err != nil {
		return 0, unexpected("increment song plays", err)
	}
	return n, nil
}

// ToggleLike flips the caller's like on a song. Membership and counter move in one transaction.
func (p *Postgres) ToggleLike(ctx context.Context, userID, songID string) (domain.LikeResult, error) {
	return p.changeLike(ctx, userID, songID, true)
}

// Unlike removes the caller's like if present. Unliking a song that is not liked
// leaves the counter untouched.
func (p *Postgres) Unlike(ctx context.Context, userID, songID string) (domain.LikeResult, error) {
	return p.changeLike(ctx, userID, songID, false)
}

func (p *Postgres) changeLike(ctx context.Context, userID, songID string, toggle bool) (domain.LikeResult, error) {
	var res domain.LikeResult

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, unexpected("begin like", err)
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent likes on the same song.
	if err := tx.QueryRow(ctx, `SELECT likes FROM songs WHERE id = $1 FOR UPDATE`, songID).Scan(&res.Likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return res, domain.ErrSongNotFound
		}
		return res, unexpected("lock song", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM user_liked_songs WHERE user_id = $1 AND song_id = $2`, userID, songID)
	if err != nil {
		return res, unexpected("remove like", err)
	}

	switch {
	case tag.RowsAffected() > 0:
		err = tx.QueryRow(ctx, `UPDATE songs SET likes = GREATEST(likes - 1, 0) WHERE id = $1 RETURNING likes`, songID).Scan(&res.Likes)
		if err != nil {
			return res, unexpected("decrement likes", err)
		}
	case toggle:
		if _, err := tx.Exec(ctx, `INSERT INTO user_liked_songs (user_id, song_id) VALUES ($1, $2)`, userID, songID); err != nil {
			if isForeignKeyViolation(err) {
				return res, domain.ErrUserNotFound
			}
			return res, unexpected("add like", err)
		}
		err = tx.QueryRow(ctx, `UPDATE songs SET likes = likes + 1 WHERE id = $1 RETURNING likes`, songID).Scan(&res.Likes)
		if err != nil {
			return res, unexpected("increment likes", err)
		}
		res.Liked = true
	}

	res.LikedSongs, err = likedSongIDs(ctx, tx, userID)
	if err != nil {
		return res, unexpected("list liked ids", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return res, unexpected("commit like", err)
	}
	return res, nil
}

func likedSongIDs(ctx context.Context, q querier, userID string) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT song_id FROM user_liked_songs WHERE user_id = $1 ORDER BY liked_at, seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
