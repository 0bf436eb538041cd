package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/musicverse/musicverse-backend-go/internal/handler/http/middleware"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
)

// Handlers groups every HTTP handler mounted by NewRouter
type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Device       DeviceHandler
	Catalog      CatalogHandler
	Notification NotificationHandler
	Admin        AdminHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	// Logger receives request logs; nil disables request logging.
	Logger *slog.Logger
	// UploadsDir is served under /uploads when media is stored on local disk.
	UploadsDir string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/notifications", func(r chi.Router) {
			// Realtime endpoints authenticate with a short-lived ?token= instead of a header
			r.Get("/stream", h.Notification.Stream)
			r.Get("/ws", h.Notification.WebSocket)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))

				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/count", h.Notification.Count)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Post("/read", h.Notification.MarkAllAsRead)
				r.Post("/unread", h.Notification.MarkAllAsUnread)
				r.Post("/read/{id}", h.Notification.MarkAsRead)
				r.Post("/unread/{id}", h.Notification.MarkAsUnread)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.Me)
				r.Patch("/me", h.User.UpdateProfile)
				r.Get("/{id}", h.User.GetProfile)
				r.Post("/{id}/follow", h.User.ToggleFollow)
			})

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", h.Device.List)
				r.Post("/", h.Device.Register)
				r.Delete("/{token}", h.Device.Unregister)
			})

			r.Route("/tracks", func(r chi.Router) {
				r.With(middleware.RequireArtist).Post("/", h.Catalog.CreateTrack)
				r.Get("/{id}", h.Catalog.GetTrack)
				r.Post("/{id}/like", h.Catalog.ToggleLikeTrack)
				r.Post("/{id}/download", h.Catalog.DownloadTrack)
			})

			r.Route("/albums", func(r chi.Router) {
				r.With(middleware.RequireArtist).Post("/", h.Catalog.CreateAlbum)
				r.Get("/{id}", h.Catalog.GetAlbum)
				r.Post("/{id}/save", h.Catalog.ToggleSaveAlbum)
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Post("/", h.Catalog.CreatePlaylist)
				r.Get("/{id}", h.Catalog.GetPlaylist)
				r.Post("/{id}/save", h.Catalog.ToggleSavePlaylist)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/announcements", h.Admin.Announce)
				r.Post("/tracks/{id}/review", h.Admin.ReviewTrack)
			})
		})
	})

	return r
}

// NewRequestLogger builds the ECS-formatted JSON logger used for request logs
func NewRequestLogger(out io.Writer, appName, version, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("env", env),
	)
}
