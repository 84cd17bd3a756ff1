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

	"shopping/cmd"
	httpin "shopping/internal/adapters/in/http"
	"shopping/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

func main() {
	configs := getConfigs()

	logger, err := logging.New(configs.AppEnv, configs.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := cmd.NewCompositionRoot(configs, logger)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to release resources", zap.Error(err))
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Fatal("failed to start jobs", zap.Error(err))
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}
	return config
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		logger.Fatal("failed to load openapi document", zap.Error(err))
	}

	e, err := httpin.NewEcho(app.CreateHTTPServer(), doc, app.Gatherer())
	if err != nil {
		logger.Fatal("failed to create http server", zap.Error(err))
	}

	go func() {
		logger.Info("http server listening", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdown(e, logger)
}

func shutdown(e *echo.Echo, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down http server", zap.Error(err))
	}
}
