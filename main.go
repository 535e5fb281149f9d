package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cybershield-it/backend/internal/auth"
	"github.com/cybershield-it/backend/internal/config"
	"github.com/cybershield-it/backend/internal/customers"
	"github.com/cybershield-it/backend/internal/db"
	"github.com/cybershield-it/backend/internal/enquiries"
	"github.com/cybershield-it/backend/internal/logging"
	"github.com/cybershield-it/backend/internal/middleware"
	"github.com/cybershield-it/backend/internal/seeds"
	"github.com/cybershield-it/backend/internal/services"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close(gdb)
	log.Info("connected to database")

	if err := auth.Init(gdb); err != nil {
		log.Fatal("auth init failed", zap.Error(err))
	}
	if err := services.Init(gdb); err != nil {
		log.Fatal("catalog init failed", zap.Error(err))
	}
	if err := customers.Init(gdb); err != nil {
		log.Fatal("crm init failed", zap.Error(err))
	}
	if err := enquiries.Init(gdb); err != nil {
		log.Fatal("enquiries init failed", zap.Error(err))
	}

	if err := seeds.EnsureAdmin(gdb, cfg.Admin); err != nil {
		log.Fatal("admin bootstrap failed", zap.Error(err))
	}
	if err := seeds.SeedServices(gdb); err != nil {
		log.Fatal("catalog seed failed", zap.Error(err))
	}

	store := auth.NewStore(gdb)
	authSvc := auth.NewService(store, log, cfg.SessionTTL(), cfg.ResetTTL())
	authHandler := &auth.Handler{
		Svc:              authSvc,
		SecureCookies:    cfg.IsProduction(),
		ExposeResetToken: cfg.ResetTokenExposed(),
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/services", (&services.Handler{DB: gdb, Log: log}).Routes(authSvc))
	r.Mount("/customers", (&customers.Handler{DB: gdb, Log: log}).Routes(authSvc))
	r.Mount("/enquiries", (&enquiries.Handler{DB: gdb, Log: log}).Routes(authSvc))

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
