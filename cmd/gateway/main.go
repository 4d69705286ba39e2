package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentamate/clinicauth/modules/gateway"
	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/config"
	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/logger"
	"github.com/dentamate/clinicauth/pkg/rbac"
)

type appConfig struct {
	Port        string `env:"PORT" envDefault:"3000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	RolesFile   string `env:"AUTH_ROLES_FILE"`

	Services gateway.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithService("gateway", cfg.Environment))

	signer, err := jwt.New(cfg.JWTSecret)
	if err != nil {
		log.Error("jwt service init failed", logger.Error(err))
		os.Exit(1)
	}

	registry, err := loadRegistry(cfg.RolesFile)
	if err != nil {
		log.Error("role registry init failed", logger.Error(err))
		os.Exit(1)
	}

	auditor := audit.NewLogger(audit.NewLogStorage(log), audit.WithSlog(log))
	enforcer := gateway.NewEnforcer(signer, registry, auditor, gateway.WithLogger(log))

	handler, err := gateway.NewRouter(cfg.Services, enforcer, log)
	if err != nil {
		log.Error("router init failed", logger.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func loadRegistry(rolesFile string) (*rbac.Registry, error) {
	if rolesFile == "" {
		return rbac.NewRegistry(rbac.DefaultSource())
	}
	f, err := os.Open(rolesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := rbac.NewYAMLSource(f)
	if err != nil {
		return nil, err
	}
	return rbac.NewRegistry(src)
}
