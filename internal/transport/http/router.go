// Package httptransport is the thin HTTP layer. Handlers delegate to the
// domain services and keep transport concerns out of business logic.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmodels "domainwatch/internal/auth/models"
	cachemodels "domainwatch/internal/domaincache/models"
	cacheservice "domainwatch/internal/domaincache/service"
	"domainwatch/internal/jwttoken"
	"domainwatch/internal/pagespeed"
	domainmodels "domainwatch/internal/userdomain/models"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/requestcontext"
)

// AuthService is the registration, login and preferences boundary.
type AuthService interface {
	RequestCode(ctx context.Context, name, email, password string) error
	VerifyCode(ctx context.Context, email, code string) (*authmodels.User, string, error)
	Login(ctx context.Context, email, password string) (*authmodels.User, string, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, emailEnabled, smsEnabled bool, phone string) error
	User(ctx context.Context, id uuid.UUID) (*authmodels.User, error)
}

// DomainService manages the per-user tracked domains.
type DomainService interface {
	Add(ctx context.Context, userID uuid.UUID, name string) (*domainmodels.Domain, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domainmodels.Domain, error)
	Remove(ctx context.Context, id int64, userID uuid.UUID) error
}

// CacheReader exposes the shared registration cache.
type CacheReader interface {
	List(ctx context.Context) ([]*cachemodels.Entry, error)
	Find(ctx context.Context, name string) (*cachemodels.Entry, error)
}

// CacheRefresher triggers a bulk cache refresh.
type CacheRefresher interface {
	Enabled() bool
	RefreshAll(ctx context.Context) (cacheservice.Result, error)
}

// Resolver answers single-domain registration queries.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (*cachemodels.Entry, error)
}

// PageSpeedClient runs performance audits.
type PageSpeedClient interface {
	Configured() bool
	Analyze(ctx context.Context, domain string) (pagespeed.Metrics, error)
}

// EmailSender and SMSSender back the notification test endpoint.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// Handler carries every dependency the routes need.
type Handler struct {
	auth      AuthService
	domains   DomainService
	cache     CacheReader
	refresher CacheRefresher
	resolver  Resolver
	pagespeed PageSpeedClient
	email     EmailSender
	sms       SMSSender
	tokens    *jwttoken.Service
	logger    *slog.Logger
}

type HandlerConfig struct {
	Auth      AuthService
	Domains   DomainService
	Cache     CacheReader
	Refresher CacheRefresher
	Resolver  Resolver
	PageSpeed PageSpeedClient
	Email     EmailSender
	SMS       SMSSender
	Tokens    *jwttoken.Service
	Logger    *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:      cfg.Auth,
		domains:   cfg.Domains,
		cache:     cfg.Cache,
		refresher: cfg.Refresher,
		resolver:  cfg.Resolver,
		pagespeed: cfg.PageSpeed,
		email:     cfg.Email,
		sms:       cfg.SMS,
		tokens:    cfg.Tokens,
		logger:    logger,
	}
}

// NewRouter wires all endpoints. Everything under /api except auth
// requires a bearer token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(h.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", h.handleSendOTP)
			r.Post("/verify-otp", h.handleVerifyOTP)
			r.Post("/login", h.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Route("/domains", func(r chi.Router) {
				r.Get("/", h.handleListDomains)
				r.Post("/", h.handleAddDomain)
				r.Delete("/{id}", h.handleDeleteDomain)
			})

			r.Route("/cache", func(r chi.Router) {
				r.Get("/domains", h.handleListCache)
				r.Get("/domains/{name}", h.handleGetCacheEntry)
				r.Post("/refresh", h.handleRefreshCache)
			})

			r.Route("/external", func(r chi.Router) {
				r.Get("/whois/{domain}", h.handleWhois)
				r.Get("/pagespeed/{domain}", h.handlePageSpeed)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/preferences", h.handleGetPreferences)
				r.Put("/preferences", h.handleUpdatePreferences)
				r.Post("/test", h.handleTestNotification)
			})
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID tags every request with an id carried through the context.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
