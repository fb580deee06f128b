package catalog

import (
	"math"
	"strings"

	"streamly/internal/domain"
)

const maxTextLen = 200

// normalizeFields trims text fields and checks them. On create, title, artist
// and duration are required; on update only the provided fields are checked.
func normalizeFields(f domain.SongFields, create bool) (domain.SongFields, error) {
	for _, p := range []*string{f.Title, f.Artist, f.Album, f.Genre, f.AlbumArt, f.AudioFile, f.FileURL, f.CoverArt} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}

	if create {
		if f.Title == nil || f.Artist == nil {
			return f, domain.Validation("title and artist are required")
		}
		if f.Duration == nil {
			return f, domain.Validation("duration is required")
		}
	}
	if f.Title != nil && *f.Title == "" {
		return f, domain.Validation("title must not be empty")
	}
	if f.Artist != nil && *f.Artist == "" {
		return f, domain.Validation("artist must not be empty")
	}
	for _, p := range []*string{f.Title, f.Artist, f.Album, f.Genre} {
		if p != nil && len([]rune(*p)) > maxTextLen {
			return f, domain.Validation("text fields must be at most 200 characters")
		}
	}
	if f.Duration != nil {
		d := *f.Duration
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return f, domain.Validation("duration must be a positive number")
		}
	}
	if f.Status != nil && !f.Status.Valid() {
		return f, domain.Validation("status must be draft or published")
	}
	return f, nil
}
