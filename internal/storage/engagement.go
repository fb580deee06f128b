package storage

import (
	"context"
	"time"

	"streamly/internal/domain"
)

// AppendRecentlyPlayed records one play of songID by userID. History is unbounded;
// reads are capped instead.
func (p *Postgres) AppendRecentlyPlayed(ctx context.Context, userID, songID string, at time.Time) error {
	_, err := p.db.Exec(ctx, `
      INSERT INTO recently_played (user_id, song_id, played_at)
      VALUES ($1, $2, $3)`,
		userID, songID, at,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSongNotFound
		}
		return unexpected("append recently played", err)
	}
	return nil
}

// RecentlyPlayed returns the latest history entries of userID, newest first.
func (p *Postgres) RecentlyPlayed(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	rows, err := p.db.Query(ctx, `SELECT `+songColumns+`, rp.played_at
      FROM recently_played rp
      JOIN songs s ON s.id = rp.song_id
      JOIN users u ON u.id = s.created_by
      WHERE rp.user_id = $1
      ORDER BY rp.played_at DESC, rp.id DESC
      LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, unexpected("recently played", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e      domain.HistoryEntry
			status string
		)
		dest := append(songScanTargets(&e.Song, &status), &e.PlayedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, unexpected("recently played", err)
		}
		e.Song.Status = domain.SongStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unexpected("recently played", err)
	}
	return entries, nil
}

// LikedSongs resolves the liked songs of userID in the order they were liked.
func (p *Postgres) LikedSongs(ctx context.Context, userID string) ([]domain.Song, error) {
	return p.querySongs(ctx, p.db, "liked songs", `SELECT `+songColumns+`
      FROM user_liked_songs l
      JOIN songs s ON s.id = l.song_id
      JOIN users u ON u.id = s.created_by
      WHERE l.user_id = $1
      ORDER BY l.liked_at, l.seq`,
		userID,
	)
}
