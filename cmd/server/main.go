package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/craftfolio/server/internal/api"
	"github.com/craftfolio/server/internal/api/handlers"
	"github.com/craftfolio/server/internal/api/services"
	"github.com/craftfolio/server/internal/config"
	"github.com/craftfolio/server/internal/repositories"
)

// @title Craftfolio API
// @version 1.0
// @description Portfolio-building REST API: users, portfolios, projects, skills, repository links and media.
// @BasePath /
func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set. Refusing to start.")
	}

	db, err := repositories.Connect(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Println("Failed to close database:", err)
		}
	}()

	var media *repositories.MediaStore
	if cfg.Storage.Enabled() {
		media = repositories.NewMediaStore(cfg.Storage)
	} else {
		log.Println("Media storage not configured, file uploads disabled")
	}

	var oauth *oauth2.Config
	if cfg.Google.ClientID != "" {
		oauth = services.NewGoogleOauthConfig(cfg.Google)
	} else {
		log.Println("Google sign-in not configured")
	}

	h := handlers.New(db, cfg, media, oauth)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting Craftfolio server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
