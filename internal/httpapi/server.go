package httpapi

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"streamly/internal/auth"
	"streamly/internal/catalog"
	"streamly/internal/domain"
	"streamly/internal/engagement"
	"streamly/internal/logging"
	"streamly/internal/playlist"
)

const serviceName = "streamly"

type Options struct {
	CORSAllowedOrigin string
	AuthRateLimitRPS  float64
	MaxBodyBytes      int64
}

type Server struct {
	credentials *auth.Credentials
	sessions    *auth.Sessions
	catalog     *catalog.Service
	playlists   *playlist.Service
	engagement  *engagement.Tracker
	logger      *log.Logger
	opts        Options
}

func NewServer(
	credentials *auth.Credentials,
	sessions *auth.Sessions,
	catalogSvc *catalog.Service,
	playlists *playlist.Service,
	tracker *engagement.Tracker,
	logger *log.Logger,
	opts Options,
) *Server {
	if opts.CORSAllowedOrigin == "" {
		opts.CORSAllowedOrigin = "*"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Server{
		credentials: credentials,
		sessions:    sessions,
		catalog:     catalogSvc,
		playlists:   playlists,
		engagement:  tracker,
		logger:      logging.With(logger, "component", "http"),
		opts:        opts,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.opts.CORSAllowedOrigin))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(bodySizeLimitMiddleware(s.opts.MaxBodyBytes))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	authLimiter := newIPRateLimiter(s.opts.AuthRateLimitRPS, int(s.opts.AuthRateLimitRPS)+1)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter.middleware).Post("/register", s.handleRegister)
			r.With(authLimiter.middleware).Post("/login", s.handleLogin)
			r.With(s.requireUser).Get("/me", s.handleMe)
			r.With(s.requireUser).Post("/logout", s.handleLogout)
		})

		r.Route("/songs", func(r chi.Router) {
			r.Get("/", s.handleListSongs)
			r.Get("/search", s.handleSearchSongs)
			r.Get("/popular", s.handlePopularSongs)
			r.Get("/{id}", s.handleGetSong)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Get("/my-songs", s.handleMySongs)
				r.Post("/", s.handleCreateSong)
				r.Put("/{id}", s.handleUpdateSong)
				r.Delete("/{id}", s.handleDeleteSong)
				r.Post("/{id}/play", s.handlePlaySong)
				r.Post("/{id}/like", s.handleToggleLike)
				r.Delete("/{id}/like", s.handleUnlike)
			})
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleListPlaylists)
			r.Post("/", s.handleCreatePlaylist)
			r.Get("/{id}", s.handleGetPlaylist)
			r.Put("/{id}", s.handleUpdatePlaylist)
			r.Delete("/{id}", s.handleDeletePlaylist)
			r.Post("/{id}/songs", s.handleAddPlaylistSong)
			r.Delete("/{id}/songs/{songId}", s.handleRemovePlaylistSong)
			r.Post("/{id}/play", s.handlePlayPlaylist)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/artist/{id}", s.handleArtistProfile)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Get("/profile", s.handleProfile)
				r.Get("/recently-played", s.handleRecentlyPlayed)
				r.Get("/likes", s.handleLikedSongs)
				r.Get("/liked-songs", s.handleLikedSongs)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// caller returns the user stored by requireUser, or nil on public routes.
func caller(r *http.Request) *domain.User {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		return nil
	}
	return &u
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Streamly music API",
		"status":  "running",
		"endpoints": map[string]string{
			"auth":      "/api/auth",
			"songs":     "/api/songs",
			"playlists": "/api/playlists",
			"users":     "/api/users",
			"health":    "/health",
		},
	})
}
