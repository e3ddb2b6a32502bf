/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiteran/userd/pkg/config"
	"github.com/kiteran/userd/pkg/conn"
	"github.com/kiteran/userd/pkg/middleware"
	"github.com/kiteran/userd/pkg/routes"
	"github.com/kiteran/userd/pkg/utils/safe"
	"github.com/kiteran/userd/pkg/utils/signal"
)

func main() {
	slog.Info("starting userd server...")

	slog.Info("loading configuration...")
	if err := config.Init(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		return
	}
	manager := config.GetConfigManager()
	cfg := manager.GetConfig()

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	manager.Watch()

	baseCtx, cancel := signal.SetupContext()
	defer cancel()

	slog.InfoContext(baseCtx, "initializing database connection...")
	if err := conn.InitDB(baseCtx, cfg.DB); err != nil {
		slog.ErrorContext(baseCtx, "failed to initialize database connection", "error", err)
		return
	}

	slog.InfoContext(baseCtx, "initializing mongo connection...")
	if err := conn.InitMongo(baseCtx, cfg.Mongo); err != nil {
		slog.ErrorContext(baseCtx, "failed to initialize mongo connection", "error", err)
		return
	}

	slog.InfoContext(baseCtx, "initializing redis connection...")
	if err := conn.InitRedis(baseCtx, cfg.Redis); err != nil {
		slog.ErrorContext(baseCtx, "failed to initialize redis connection", "error", err)
		return
	}

	if cfg.Debug {
		if err := conn.SeedSampleUsers(baseCtx); err != nil {
			slog.WarnContext(baseCtx, "failed to seed sample users", "error", err)
		}
	}

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware())

	engine.GET("/healthz", routes.Healthz)

	apiRoute := engine.Group("/api")
	apiRoute.Use(middleware.ThrottleMiddleware(conn.GetRedis(), func() *config.RateLimitConfig {
		return manager.GetConfig().RateLimit
	}))
	if err := routes.GetV1Routes().RegisterRoutes(apiRoute.Group("/v1")); err != nil {
		slog.ErrorContext(baseCtx, "failed to register routes", "error", err)
		return
	}

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: engine,
	}

	safe.GoSafeWithCtx("http-server", baseCtx, func(ctx context.Context) {
		slog.InfoContext(ctx, "starting http server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start http server", "error", err)
		}
	})

	<-baseCtx.Done()
	slog.InfoContext(baseCtx, "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down http server gracefully", "error", err)
	}

	if err := conn.CloseMongo(); err != nil {
		slog.Error("failed to close mongo client", "error", err)
	}
	if err := conn.CloseRedis(); err != nil {
		slog.Error("failed to close redis client", "error", err)
	}
}
