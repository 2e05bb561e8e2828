//	@title			Video API
//	@version		1.0
//	@description	Brokers time-limited upload/download access to object storage and mirrors video metadata.
//
//	@host		localhost:3000
//	@BasePath	/

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/clipdeck/video-api/internal/config"
	"github.com/clipdeck/video-api/internal/logger"
	appMiddleware "github.com/clipdeck/video-api/internal/middleware"
	"github.com/clipdeck/video-api/internal/video"
	"github.com/clipdeck/video-api/web"

	_ "github.com/clipdeck/video-api/docs/swagger"
)

func main() {
	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel})
	log := logger.Component("main")

	// Missing credentials degrade the affected operations to 500
	// responses instead of stopping the process.
	if !cfg.StorageConfigured() {
		log.Warn().Msg("STORAGE_ACCESS_KEY or STORAGE_SECRET_KEY not set; storage operations will fail")
	}
	if !cfg.MetadataConfigured() {
		log.Warn().Msg("DATABASE_URL not set; metadata operations will fail")
	}

	svc := video.NewService(cfg)
	handler := video.NewHandler(svc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", handler.Health)
	r.Post("/upload-request", handler.RequestUpload)
	r.Post("/confirm-upload", handler.ConfirmUpload)
	r.Get("/videos", handler.List)
	r.Get("/videos/{id}/download", handler.GetDownloadLink)
	r.Delete("/videos/{id}", handler.Delete)

	// Browser client
	r.Handle("/app/*", http.StripPrefix("/app/", http.FileServer(http.FS(web.FS))))

	// Swagger UI — available at http://localhost:3000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("video API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
