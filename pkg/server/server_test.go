package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/arnavshah/content-rota-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func settings(t *testing.T, backend string) config.Settings {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"people": [{"name": "Alice"}, {"name": "Bob"}],
		"weeklySchedules": ["POST Monday"]
	}`), 0o644))

	return config.Settings{
		ConfigPath:      cfgPath,
		SchedulePath:    filepath.Join(dir, "schedule.json"),
		ScheduleBackend: backend,
		DataPath:        filepath.Join(dir, "rota.db"),
		JWTSecret:       "jwt-secret",
		APIMasterSecret: "api-secret",
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, backend := range []string{"file", "db"} {
		t.Run(backend, func(t *testing.T) {
			svc, err := New(context.Background(), settings(t, backend), nil, Options{
				Registerer: prometheus.NewRegistry(),
				BcryptCost: bcrypt.MinCost,
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = svc.Close() })

			body, _ := json.Marshal(gin.H{"username": "admin", "password": "admin123"})
			req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			svc.Router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			require.Equal(t, []string{"Alice", "Bob"}, svc.Planner.Roster())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(context.Background(), settings(t, "s3"), nil, Options{
			Registerer: prometheus.NewRegistry(),
			BcryptCost: bcrypt.MinCost,
		})
		require.ErrorIs(t, err, scheduler.ErrConfig)
	})

	t.Run("missing config", func(t *testing.T) {
		s := settings(t, "file")
		s.ConfigPath = filepath.Join(t.TempDir(), "nope.json")

		_, err := New(context.Background(), s, nil, Options{
			Registerer: prometheus.NewRegistry(),
			BcryptCost: bcrypt.MinCost,
		})
		require.ErrorIs(t, err, config.ErrNotFound)
	})
}
