package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"sheetstack/internal/config"
	"sheetstack/internal/metrics"
	"sheetstack/internal/models"
	"sheetstack/internal/services"
	"sheetstack/internal/sheetdb"
	"sheetstack/internal/sheets"
)

type Server struct {
	Config  config.Config
	Tokens  services.TokenService
	Users   *services.UserStore
	Content *services.ContentCatalog
	Log     zerolog.Logger
}

func NewServer(cfg config.Config, table sheets.Table, log zerolog.Logger) *Server {
	tokens := services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    time.Duration(cfg.TokenTTLSeconds) * time.Second,
	}
	db := sheetdb.New(table, log)
	return &Server{
		Config: cfg,
		Tokens: tokens,
		Users: &services.UserStore{
			DB:     db,
			Sheet:  cfg.UsersSheet,
			Tokens: tokens,
			Log:    log.With().Str("component", "users").Logger(),
		},
		Content: &services.ContentCatalog{
			DB: db,
			Sheets: map[models.ContentKind]string{
				models.ContentEbooks:  cfg.EbooksSheet,
				models.ContentClasses: cfg.ClassesSheet,
				models.ContentPlans:   cfg.PlansSheet,
			},
		},
		Log: log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.Log))
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.Index)
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			if s.Config.AuthRateLimit > 0 {
				auth.Use(httprate.LimitByIP(s.Config.AuthRateLimit, time.Duration(s.Config.AuthRateWindowSeconds)*time.Second))
			}
			auth.Post("/register", s.Register)
			auth.Post("/login", s.Login)
		})

		api.Route("/content", func(content chi.Router) {
			content.Use(WithAuth(s.Tokens, s.Users))
			content.Get("/ebooks", s.ListContent(models.ContentEbooks))
			content.Get("/classes", s.ListContent(models.ContentClasses))
			content.Get("/plans", s.ListContent(models.ContentPlans))
		})

		// trusted callers only; no credential check
		api.Post("/admin/update-membership", s.UpdateMembership)
	})
	return r
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Sheet-backed content API is running"))
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
