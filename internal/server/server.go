// Package server wires the stores, catalog, and redemption engine into an
// HTTP handler.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/ghosthunt/internal/catalog"
	"github.com/dukerupert/ghosthunt/internal/handler"
	"github.com/dukerupert/ghosthunt/internal/middleware"
	"github.com/dukerupert/ghosthunt/internal/redeem"
	"github.com/dukerupert/ghosthunt/internal/roster"
	"github.com/dukerupert/ghosthunt/internal/store"
)

// Config carries the file paths and knobs main resolves from the environment.
type Config struct {
	RosterFile string
	CodesFile  string
	ExemptPage string
	StaticDir  string
}

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	codeH        *handler.CodeHandler
	adminH       *handler.AdminHandler
	staticH      *handler.StaticHandler
	sessionStore *store.SessionStore
	syncer       *roster.Syncer
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	memberStore := store.NewMemberStore(db)
	sessionStore := store.NewSessionStore(db)
	ledgerStore := store.NewLedgerStore(db)

	catalogSrc := catalog.NewSource(cfg.CodesFile)
	syncer := roster.NewSyncer(cfg.RosterFile, memberStore, logger.With("component", "roster"))
	engine := redeem.NewEngine(catalogSrc, ledgerStore, cfg.ExemptPage, logger.With("component", "redeem"))

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(memberStore, sessionStore, logger.With("component", "auth")),
		codeH:        handler.NewCodeHandler(engine, sessionStore, logger.With("component", "code")),
		adminH:       handler.NewAdminHandler(ledgerStore, catalogSrc, syncer, logger.With("component", "admin")),
		staticH:      handler.NewStaticHandler(cfg.StaticDir),
		sessionStore: sessionStore,
		syncer:       syncer,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Syncer returns the roster syncer shared by the watcher and the admin
// reload endpoint.
func (s *Server) Syncer() *roster.Syncer {
	return s.syncer
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("POST /check_code", s.codeH.Check)

	mux.HandleFunc("GET /admin", s.staticH.Page("admin.html"))
	mux.HandleFunc("GET /admin_data", s.adminH.Data)
	mux.HandleFunc("POST /reset_attempts", s.adminH.ResetAttempts)
	mux.HandleFunc("POST /reset_used_codes", s.adminH.ResetUsedCodes)
	mux.HandleFunc("POST /delete_code", s.adminH.DeleteCode)
	mux.HandleFunc("POST /reload_roster", s.adminH.ReloadRoster)

	mux.HandleFunc("GET /health", s.healthHandler)

	// Pages: root serves the login page; anything else resolves against the
	// static directory or 404s with a text body.
	mux.HandleFunc("GET /{$}", s.staticH.Page("login.html"))
	mux.HandleFunc("GET /", s.staticH.Any)

	var h http.Handler = mux
	h = middleware.NoCache(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
