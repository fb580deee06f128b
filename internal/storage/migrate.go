package storage

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`
      CREATE TABLE IF NOT EXISTS users (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          email       TEXT NOT NULL UNIQUE,
          username    TEXT NOT NULL UNIQUE,
          password    TEXT NOT NULL,
          role        TEXT NOT NULL DEFAULT 'listener' CHECK (role IN ('listener', 'artist')),
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )`,
	`
      CREATE TABLE IF NOT EXISTS songs (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          title       TEXT NOT NULL,
          artist      TEXT NOT NULL,
          album       TEXT NOT NULL DEFAULT '',
          duration    DOUBLE PRECISION NOT NULL CHECK (duration > 0),
          genre       TEXT NOT NULL DEFAULT '',
          album_art   TEXT NOT NULL DEFAULT '',
          audio_file  TEXT NOT NULL DEFAULT '',
          file_url    TEXT NOT NULL DEFAULT '',
          cover_art   TEXT NOT NULL DEFAULT '',
          play_count  INT NOT NULL DEFAULT 0 CHECK (play_count >= 0),
          likes       INT NOT NULL DEFAULT 0 CHECK (likes >= 0),
          created_by  uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          status      TEXT NOT NULL DEFAULT 'published' CHECK (status IN ('draft', 'published')),
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )`,
	`CREATE INDEX IF NOT EXISTS idx_songs_popular ON songs(status, play_count DESC, likes DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_songs_created_by ON songs(created_by)`,
	`
      CREATE TABLE IF NOT EXISTS playlists (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          name        TEXT NOT NULL,
          description TEXT NOT NULL DEFAULT '',
          owner_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          is_public   BOOLEAN NOT NULL DEFAULT TRUE,
          play_count  INT NOT NULL DEFAULT 0 CHECK (play_count >= 0),
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )`,
	`CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id, created_at DESC)`,
	`
      CREATE TABLE IF NOT EXISTS playlist_songs (
          playlist_id uuid NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          song_id     uuid NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          position    INT NOT NULL,
          added_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY (playlist_id, song_id)
      )`,
	`
      CREATE TABLE IF NOT EXISTS user_liked_songs (
          seq         BIGSERIAL,
          user_id     uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          song_id     uuid NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          liked_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY (user_id, song_id)
      )`,
	`
      CREATE TABLE IF NOT EXISTS recently_played (
          id          BIGSERIAL PRIMARY KEY,
          user_id     uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          song_id     uuid NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          played_at   TIMESTAMPTZ NOT NULL DEFAULT now()
      )`,
	`CREATE INDEX IF NOT EXISTS idx_recently_played_user ON recently_played(user_id, played_at DESC)`,
}

// AutoMigrate creates the schema if it does not exist yet. Every statement is idempotent.
func AutoMigrate(ctx context.Context, db DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
