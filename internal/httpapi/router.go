package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"newsproof/backend/internal/auth"
	"newsproof/backend/internal/cache"
	"newsproof/backend/internal/check"
	"newsproof/backend/internal/config"
	"newsproof/backend/internal/engine"
	"newsproof/backend/internal/mock"
	"newsproof/backend/internal/session"
	"newsproof/backend/internal/store"
)

func NewRouter(cfg config.Config, db *sql.DB) http.Handler {
	sessions := session.NewStore(db)
	verifier := auth.NewVerifier(cfg)
	engineClient := engine.NewClient(cfg, nil)
	history := store.NewStore(db)
	c := cache.New(cfg)

	var analyzer check.Analyzer = engineClient
	if !engineClient.Configured() {
		analyzer = mock.NewEngine()
	}
	checker := check.NewService(analyzer, &history, c)

	h := NewHandler(cfg, db, sessions, verifier, checker, engineClient, history, c)
	return routes(h)
}

func routes(h Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Test-Email", "X-Test-Google-Sub"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Healthz)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(authR chi.Router) {
			authR.Post("/google", h.AuthGoogle)
			authR.With(h.RequireSession).Get("/me", h.AuthMe)
			authR.With(h.RequireSession).Post("/logout", h.AuthLogout)
		})

		// Submissions and the public feed need no account.
		v1.Post("/checks", h.SubmitCheck)
		v1.Post("/checks/upload", h.UploadCheck)
		v1.Get("/feed", h.Feed)
		v1.Get("/sources/{domain}", h.SourceCredibility)

		// History and analytics are gated when auth is on.
		v1.Group(func(p chi.Router) {
			p.Use(h.RequireSession)
			p.Get("/checks", h.ListChecks)
			p.Get("/checks/{id}", h.GetCheck)
			p.Get("/analytics", h.Analytics)
		})
	})

	return r
}
