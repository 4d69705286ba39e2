package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dentamate/clinicauth/modules/auth"
	"github.com/dentamate/clinicauth/modules/gateway"
	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/config"
	"github.com/dentamate/clinicauth/pkg/email"
	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/logger"
	"github.com/dentamate/clinicauth/pkg/rbac"
	"github.com/dentamate/clinicauth/storage/mongo"
)

type appConfig struct {
	Port        string        `env:"PORT" envDefault:"3001"`
	Environment string        `env:"ENVIRONMENT" envDefault:"development"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	Auth  auth.Config
	Mongo mongo.Config
	Email email.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithService("authd", cfg.Environment))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Error("mongo connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = mongo.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		log.Error("index bootstrap failed", logger.Error(err))
		os.Exit(1)
	}

	signer, err := jwt.New(cfg.JWTSecret, jwt.WithTTL(cfg.JWTExpiry))
	if err != nil {
		log.Error("jwt service init failed", logger.Error(err))
		os.Exit(1)
	}

	auditSink, closeAudit := audit.NewAsyncWriter(mongo.NewAuditStore(db), audit.AsyncOptions{})
	auditor := audit.NewLogger(auditSink, audit.WithSlog(log))

	mailer := buildMailer(cfg.Email, log)

	svc := auth.NewService(
		mongo.NewUserStore(db),
		auth.NewLedger(mongo.NewTokenStore(db), auth.WithRefreshExpiryDays(cfg.Auth.RefreshTokenDays)),
		signer,
		auditor,
		auth.WithConfig(cfg.Auth),
		auth.WithMailer(mailer, cfg.Email),
		auth.WithLogger(log),
	)

	registry := rbac.MustNewRegistry(rbac.DefaultSource())
	enforcer := gateway.NewEnforcer(signer, registry, auditor, gateway.WithLogger(log))

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(audit.Middleware)
	r.Mount("/api/v1/auth", auth.NewHandler(svc).Routes(enforcer.Authenticate))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("auth service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = closeAudit(ctx)
}

func buildMailer(cfg email.Config, log *slog.Logger) email.EmailSender {
	if cfg.PostmarkServerToken != "" && cfg.PostmarkAccountToken != "" {
		return email.MustNewPostmarkClient(cfg)
	}
	log.Info("postmark tokens not set, using dev email sender")
	return email.NewDevSender(log)
}
