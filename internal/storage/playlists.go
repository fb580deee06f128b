package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"streamly/internal/domain"
)

const playlistColumns = `id, name, description, owner_id, is_public, play_count, created_at, updated_at`

func scanPlaylist(row pgx.Row) (domain.Playlist, error) {
	var pl domain.Playlist
	err := row.Scan(&pl.ID, &pl.Name, &pl.Description, &pl.OwnerID, &pl.IsPublic, &pl.PlayCount, &pl.CreatedAt, &pl.UpdatedAt)
	pl.Songs = []domain.Song{}
	return pl, err
}

func (p *Postgres) queryPlaylists(ctx context.Context, op, sql string, args ...any) ([]domain.Playlist, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, unexpected(op, err)
	}
	defer rows.Close()

	playlists := make([]domain.Playlist, 0)
	for rows.Next() {
		pl, err := scanPlaylist(rows)
		if err != nil {
			return nil, unexpected(op, err)
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, unexpected(op, err)
	}
	rows.Close()

	if err := p.attachSongs(ctx, p.db, playlists); err != nil {
		return nil, unexpected(op, err)
	}
	return playlists, nil
}

// attachSongs resolves the ordered song list of every playlist with a single query.
func (p *Postgres) attachSongs(ctx context.Context, q querier, playlists []domain.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}
	ids := make([]string, len(playlists))
	index := make(map[string]int, len(playlists))
	for i, pl := range playlists {
		ids[i] = pl.ID
		index[pl.ID] = i
	}

	rows, err := q.Query(ctx, `SELECT ps.playlist_id, `+songColumns+`
      FROM playlist_songs ps
      JOIN songs s ON s.id = ps.song_id
      JOIN users u ON u.id = s.created_by
      WHERE ps.playlist_id = ANY($1::uuid[])
      ORDER BY ps.playlist_id, ps.position`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			playlistID string
			s          domain.Song
			status     string
		)
		dest := append([]any{&playlistID}, songScanTargets(&s, &status)...)
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		s.Status = domain.SongStatus(status)
		if i, ok := index[playlistID]; ok {
			playlists[i].Songs = append(playlists[i].Songs, s)
		}
	}
	return rows.Err()
}

func (p *Postgres) findOwnedPlaylist(ctx context.Context, q querier, id, ownerID string) (domain.Playlist, error) {
	pl, err := scanPlaylist(q.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return domain.Playlist{}, unexpected("find playlist", err)
	}
	list := []domain.Playlist{pl}
	if err := p.attachSongs(ctx, q, list); err != nil {
		return domain.Playlist{}, unexpected("playlist songs", err)
	}
	return list[0], nil
}

// ListOwnedPlaylists returns the caller's playlists, newest first.
func (p *Postgres) ListOwnedPlaylists(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	return p.queryPlaylists(ctx, "list playlists", `SELECT `+playlistColumns+`
      FROM playlists WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

// ListPublicPlaylists returns the public playlists of a user, newest first.
func (p *Postgres) ListPublicPlaylists(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	return p.queryPlaylists(ctx, "list public playlists", `SELECT `+playlistColumns+`
      FROM playlists WHERE owner_id = $1 AND is_public ORDER BY created_at DESC`, ownerID)
}

func (p *Postgres) FindOwnedPlaylist(ctx context.Context, id, ownerID string) (domain.Playlist, error) {
	return p.findOwnedPlaylist(ctx, p.db, id, ownerID)
}

func (p *Postgres) CreatePlaylist(ctx context.Context, ownerID, name, description string, isPublic bool) (domain.Playlist, error) {
	pl, err := scanPlaylist(p.db.QueryRow(ctx, `
      INSERT INTO playlists (name, description, owner_id, is_public)
      VALUES ($1, $2, $3, $4)
      RETURNING `+playlistColumns,
		name, description, ownerID, isPublic,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Playlist{}, domain.ErrUserNotFound
		}
		return domain.Playlist{}, unexpected("create playlist", err)
	}
	return pl, nil
}

func (p *Postgres) UpdateOwnedPlaylist(ctx context.Context, id, ownerID string, f domain.PlaylistFields) (domain.Playlist, error) {
	pl, err := scanPlaylist(p.db.QueryRow(ctx, `
      UPDATE playlists SET
          name        = COALESCE($3, name),
          description = COALESCE($4, description),
          is_public   = COALESCE($5, is_public),
          updated_at  = now()
      WHERE id = $1 AND owner_id = $2
      RETURNING `+playlistColumns,
		id, ownerID, f.Name, f.Description, f.IsPublic,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return domain.Playlist{}, unexpected("update playlist", err)
	}
	list := []domain.Playlist{pl}
	if err := p.attachSongs(ctx, p.db, list); err != nil {
		return domain.Playlist{}, unexpected("playlist songs", err)
	}
	return list[0], nil
}

// DeleteOwnedPlaylist removes the playlist and its membership rows. Songs are untouched.
func (p *Postgres) DeleteOwnedPlaylist(ctx context.Context, id, ownerID string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return unexpected("delete playlist", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

// AddPlaylistSong appends songID to the end of an owned playlist. A song that is
// already a member yields ErrDuplicateMember.
func (p *Postgres) AddPlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Playlist{}, unexpected("begin add song", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOwnedPlaylist(ctx, tx, id, ownerID); err != nil {
		return domain.Playlist{}, err
	}

	tag, err := tx.Exec(ctx, `
      INSERT INTO playlist_songs (playlist_id, song_id, position)
      VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_songs WHERE playlist_id = $1))
      ON CONFLICT (playlist_id, song_id) DO NOTHING`,
		id, songID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Playlist{}, domain.ErrSongNotFound
		}
		return domain.Playlist{}, unexpected("add playlist song", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Playlist{}, domain.ErrDuplicateMember
	}
	if _, err := tx.Exec(ctx, `UPDATE playlists SET updated_at = now() WHERE id = $1`, id); err != nil {
		return domain.Playlist{}, unexpected("touch playlist", err)
	}

	pl, err := p.findOwnedPlaylist(ctx, tx, id, ownerID)
	if err != nil {
		return domain.Playlist{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Playlist{}, unexpected("commit add song", err)
	}
	return pl, nil
}

// RemovePlaylistSong drops songID from an owned playlist. Removing a non-member is a no-op.
func (p *Postgres) RemovePlaylistSong(ctx context.Context, id, ownerID, songID string) (domain.Playlist, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Playlist{}, unexpected("begin remove song", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOwnedPlaylist(ctx, tx, id, ownerID); err != nil {
		return domain.Playlist{}, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`, id, songID)
	if err != nil {
		return domain.Playlist{}, unexpected("remove playlist song", err)
	}
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `UPDATE playlists SET updated_at = now() WHERE id = $1`, id); err != nil {
			return domain.Playlist{}, unexpected("touch playlist", err)
		}
	}

	pl, err := p.findOwnedPlaylist(ctx, tx, id, ownerID)
	if err != nil {
		return domain.Playlist{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Playlist{}, unexpected("commit remove song", err)
	}
	return pl, nil
}

func lockOwnedPlaylist(ctx context.Context, tx pgx.Tx, id, ownerID string) error {
	var locked string
	err := tx.QueryRow(ctx, `SELECT id FROM playlists WHERE id = $1 AND owner_id = $2 FOR UPDATE`, id, ownerID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPlaylistNotFound
	}
	if err != nil {
		return unexpected("lock playlist", err)
	}
	return nil
}

// IncrementPlaylistPlays bumps the play counter of an owned playlist.
func (p *Postgres) IncrementPlaylistPlays(ctx context.Context, id, ownerID string) (int, error) {
	var n int
	err := p.db.QueryRow(ctx, `
      UPDATE playlists SET play_count = play_count + 1
      WHERE id = $1 AND owner_id = $2
      RETURNING play_count`,
		id, ownerID,
	).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrPlaylistNotFound
	}
	if err != nil {
		return 0, unexpected("increment playlist plays", err)
	}
	return n, nil
}
