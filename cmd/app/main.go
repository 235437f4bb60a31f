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

	"splitship/cmd"
	httpadapter "splitship/internal/adapters/in/http"
	"splitship/internal/adapters/out/postgres"
	"splitship/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine: the environment alone may carry the configuration.
	_ = godotenv.Load(".env")

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(configs.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, log)
	if err != nil {
		log.Fatal("failed to build application", "error", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatal("failed to build jobs", "error", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatal("failed to start jobs", "error", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startWebServer(ctx, app, configs.HTTPPort, log)
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string, log *logger.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestLogger(log))

	app.CreateHTTPServer().Register(e)

	serveErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", port)
		log.Info("http server listening", "addr", addr)
		serveErr <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}
}
