package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/logging"
	"github.com/arnavshah/content-rota-go/pkg/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	svc     *server.Service
	initErr error
)

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	gin.SetMode(gin.ReleaseMode)
	settings := config.FromEnv()
	logger := logging.New(settings.LogLevel, os.Stderr)

	svc, initErr = server.New(context.Background(), settings, logger, server.Options{})
	if initErr != nil {
		logger.Error("could not initialize service", "error", initErr)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	if initErr != nil {
		http.Error(w, initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	svc.Router.ServeHTTP(w, r)
}
