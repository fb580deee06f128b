package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"streamly/internal/domain"
)

type profileResponse struct {
	domain.User
	LikedSongs     []domain.Song         `json:"likedSongs"`
	RecentlyPlayed []domain.HistoryEntry `json:"recentlyPlayed"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.engagement.Profile(r.Context(), caller(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": profileResponse{
		User:           p.User,
		LikedSongs:     p.LikedSongs,
		RecentlyPlayed: p.RecentlyPlayed,
	}})
}

func (s *Server) handleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engagement.RecentlyPlayed(r.Context(), caller(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": entries})
}

func (s *Server) handleLikedSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.engagement.LikedSongs(r.Context(), caller(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (s *Server) handleArtistProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.engagement.ArtistProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
