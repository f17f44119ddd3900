// Command server runs the domainwatch API together with its background
// jobs: the daily registration-cache refresh, the daily expiry
// notification cycle and the periodic pending-registration sweep.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domainwatch/internal/alerts"
	alertmetrics "domainwatch/internal/alerts/metrics"
	"domainwatch/internal/audit"
	authmetrics "domainwatch/internal/auth/metrics"
	authservice "domainwatch/internal/auth/service"
	authstore "domainwatch/internal/auth/store"
	"domainwatch/internal/certprobe"
	certmetrics "domainwatch/internal/certprobe/metrics"
	"domainwatch/internal/channel/email"
	"domainwatch/internal/channel/sms"
	cachemetrics "domainwatch/internal/domaincache/metrics"
	cacheservice "domainwatch/internal/domaincache/service"
	cachestore "domainwatch/internal/domaincache/store"
	"domainwatch/internal/jwttoken"
	otpservice "domainwatch/internal/otp/service"
	otpstore "domainwatch/internal/otp/store"
	"domainwatch/internal/pagespeed"
	"domainwatch/internal/platform/config"
	"domainwatch/internal/platform/httpserver"
	"domainwatch/internal/platform/logger"
	"domainwatch/internal/platform/postgres"
	redisplatform "domainwatch/internal/platform/redis"
	"domainwatch/internal/scheduler"
	schedmetrics "domainwatch/internal/scheduler/metrics"
	httptransport "domainwatch/internal/transport/http"
	domainservice "domainwatch/internal/userdomain/service"
	domainstore "domainwatch/internal/userdomain/store"
	"domainwatch/internal/whois"
)

const auditInboxSize = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Stores fall back to memory when no database is configured.
	var (
		userStore   authstore.Store   = authstore.NewInMemoryStore()
		domainStore domainstore.Store = domainstore.NewInMemoryStore()
		cacheStore  cachestore.Store  = cachestore.NewInMemory()
		auditStore  audit.Store       = audit.NewInMemoryStore()
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		userStore = authstore.NewPostgresStore(pool)
		domainStore = domainstore.NewPostgresStore(pool)
		cacheStore = cachestore.NewPostgres(pool)
		auditStore = audit.NewPostgresStore(pool)
		log.Info("postgres connected")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var pendingStore otpstore.Store = otpstore.NewInMemory(0)
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		pendingStore = otpstore.NewRedis(redisClient)
		log.Info("redis connected, pending registrations stored in redis")
	}

	// Audit trail worker.
	inbox := make(chan audit.Event, auditInboxSize)
	auditor := audit.NewPublisher(inbox, log)
	worker := audit.NewWorker(inbox, auditStore, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	// Domain stack. A missing Whoxy key leaves the client nil and
	// disables refreshing, the rest of the app keeps working.
	var whoisClient whois.Client
	switch {
	case cfg.WhoxyAPIKey != "":
		whoisClient = whois.NewHTTPClient(cfg.WhoxyAPIKey)
	case cfg.Env == "development":
		log.Warn("WHOXY_API_KEY not set, serving mock registration data")
		whoisClient = whois.MockClient{Latency: 50 * time.Millisecond}
	default:
		log.Warn("WHOXY_API_KEY not set, registration lookups disabled")
	}

	refresher := cacheservice.New(whoisClient, cacheStore, cfg.PooledDomains,
		cacheservice.WithLogger(log),
		cacheservice.WithMetrics(cachemetrics.New()),
		cacheservice.WithRecorder(auditor),
	)
	lookup := cacheservice.NewLookup(whoisClient, cacheStore, cacheservice.WithLookupLogger(log))

	prober := certprobe.New(certprobe.WithLogger(log), certprobe.WithMetrics(certmetrics.New()))
	emailSender := email.NewSender(cfg.SMTP)
	smsSender := sms.NewSender(cfg.Twilio)

	alertMetrics := alertmetrics.New()
	aggregator := alerts.NewAggregator(prober, alerts.WithAggregatorLogger(log))
	dispatcher := alerts.NewDispatcher(emailSender, smsSender,
		alerts.WithDispatcherLogger(log),
		alerts.WithDispatcherMetrics(alertMetrics),
	)
	cycle := alerts.NewCycle(userStore, domainStore, aggregator, dispatcher, cfg.PooledDomains,
		alerts.WithCycleLogger(log),
		alerts.WithCycleMetrics(alertMetrics),
		alerts.WithRecorder(auditor),
	)

	codes := otpservice.New(pendingStore, otpservice.WithLogger(log))
	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTExpiry)
	authSvc := authservice.New(userStore, codes, emailSender, tokens,
		authservice.WithLogger(log),
		authservice.WithMetrics(authmetrics.New()),
	)
	domainSvc := domainservice.New(domainStore, lookup, domainservice.WithLogger(log))

	handler := httptransport.NewHandler(httptransport.HandlerConfig{
		Auth:      authSvc,
		Domains:   domainSvc,
		Cache:     cacheStore,
		Refresher: refresher,
		Resolver:  lookup,
		PageSpeed: pagespeed.New(cfg.PageSpeedAPIKey),
		Email:     emailSender,
		SMS:       smsSender,
		Tokens:    tokens,
		Logger:    log,
	})

	// Background schedule: refresh before notify so the day's alerts see
	// fresh registration data.
	sched := scheduler.New(scheduler.WithLogger(log), scheduler.WithMetrics(schedmetrics.New()))
	sched.Daily("cache-refresh", cfg.RefreshHour, refresher.RefreshIfStale)
	sched.Daily("notify", cfg.NotifyHour, cycle.Run)
	sched.Every("otp-sweep", cfg.OTPSweepPeriod, codes.Sweep)

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	// Boot warm-up: bring a stale or empty cache up to date without
	// waiting for the daily slot.
	go func() {
		if err := refresher.RefreshIfStale(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("boot cache warm-up failed", "error", err)
		}
	}()

	srv := httpserver.New(cfg.ListenAddr, httptransport.NewRouter(handler))
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting domainwatch", "addr", cfg.ListenAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	<-schedDone
	<-workerDone
	return nil
}
