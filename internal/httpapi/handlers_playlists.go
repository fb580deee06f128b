package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"streamly/internal/domain"
	"streamly/internal/playlist"
)

type addSongRequest struct {
	SongID string `json:"songId"`
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	list, err := s.playlists.ListOwned(r.Context(), caller(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": list})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	pl, err := s.playlists.GetOwned(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": pl})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body playlist.CreateInput
	if !decodeJSON(w, r, &body) {
		return
	}
	pl, err := s.playlists.Create(r.Context(), caller(r), body)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"playlist": pl})
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body domain.PlaylistFields
	if !decodeJSON(w, r, &body) {
		return
	}
	pl, err := s.playlists.Update(r.Context(), caller(r), chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": pl})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.playlists.Delete(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted successfully"})
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	var body addSongRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	pl, err := s.playlists.AddSong(r.Context(), caller(r), chi.URLParam(r, "id"), body.SongID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": pl})
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	pl, err := s.playlists.RemoveSong(r.Context(), caller(r), chi.URLParam(r, "id"), chi.URLParam(r, "songId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": pl})
}

func (s *Server) handlePlayPlaylist(w http.ResponseWriter, r *http.Request) {
	n, err := s.playlists.RecordPlay(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Playlist play count updated", "playCount": n})
}
