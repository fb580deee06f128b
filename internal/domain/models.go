package domain

import (
	"time"
)

type Role string

const (
	RoleListener Role = "listener"
	RoleArtist   Role = "artist"
)

// Valid reports whether r is one of the known capability roles.
func (r Role) Valid() bool {
	return r == RoleListener || r == RoleArtist
}

type SongStatus string

const (
	StatusDraft     SongStatus = "draft"
	StatusPublished SongStatus = "published"
)

func (s SongStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// User is the account record. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is what other users may see about an account (no email, no credentials).
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// SongOwner is the populated createdBy reference of a song.
type SongOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Song struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Artist    string     `json:"artist"`
	Album     string     `json:"album,omitempty"`
	Duration  float64    `json:"duration"` // seconds
	Genre     string     `json:"genre,omitempty"`
	AlbumArt  string     `json:"albumArt,omitempty"`
	AudioFile string     `json:"audioFile,omitempty"`
	FileURL   string     `json:"fileUrl,omitempty"`
	CoverArt  string     `json:"coverArt,omitempty"`
	PlayCount int        `json:"playCount"`
	Likes     int        `json:"likes"`
	CreatedBy SongOwner  `json:"createdBy"`
	Status    SongStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SongFields carries the content fields of a song. Nil pointers are left untouched on update.
type SongFields struct {
	Title     *string     `json:"title"`
	Artist    *string     `json:"artist"`
	Album     *string     `json:"album"`
	Duration  *float64    `json:"duration"`
	Genre     *string     `json:"genre"`
	AlbumArt  *string     `json:"albumArt"`
	AudioFile *string     `json:"audioFile"`
	FileURL   *string     `json:"fileUrl"`
	CoverArt  *string     `json:"coverArt"`
	Status    *SongStatus `json:"status"`
}

type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner"`
	Songs       []Song    `json:"songs"`
	IsPublic    bool      `json:"isPublic"`
	PlayCount   int       `json:"playCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistFields is a partial playlist update. Nil pointers are left untouched.
type PlaylistFields struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

// HistoryEntry is one recently-played record.
type HistoryEntry struct {
	Song     Song      `json:"song"`
	PlayedAt time.Time `json:"playedAt"`
}

// LikeResult is the outcome of a like mutation.
type LikeResult struct {
	Liked      bool     `json:"liked"`
	Likes      int      `json:"likes"`
	LikedSongs []string `json:"likedSongs"`
}

// SongFilter narrows the public catalog listing.
type SongFilter struct {
	Search string
	Genre  string
}

type SongPage struct {
	Songs       []Song `json:"songs"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Total       int    `json:"total"`
}

type ArtistStats struct {
	TotalSongs int `json:"totalSongs"`
	TotalPlays int `json:"totalPlays"`
	TotalLikes int `json:"totalLikes"`
}

type ArtistProfile struct {
	Artist    PublicUser  `json:"artist"`
	Songs     []Song      `json:"songs"`
	Playlists []Playlist  `json:"playlists"`
	Stats     ArtistStats `json:"stats"`
}

// Profile is the caller's own view of their account.
type Profile struct {
	User           User           `json:"user"`
	LikedSongs     []Song         `json:"likedSongs"`
	RecentlyPlayed []HistoryEntry `json:"recentlyPlayed"`
}

const (
	// RecentlyPlayedLimit caps history reads; writes are unbounded.
	RecentlyPlayedLimit = 20
	PopularLimit        = 20
	DefaultPageSize     = 20
	MaxPageSize         = 100
)
