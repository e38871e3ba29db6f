package main

import (
	"context"
	"os"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/server"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	config.LoadDotEnv()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	settings := config.FromEnv()
	logger := logging.New(settings.LogLevel, os.Stderr)

	svc, err := server.New(context.Background(), settings, logger, server.Options{})
	if err != nil {
		logger.Error("could not start server", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	logger.Info("server starting", "port", settings.Port)
	if err := svc.Router.Run(":" + settings.Port); err != nil {
		logger.Error("could not run server", "error", err)
		os.Exit(1)
	}
}
