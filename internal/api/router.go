package api

import (
	"fmt"
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/craftfolio/server/docs"

	"github.com/craftfolio/server/internal/api/handlers"
	"github.com/craftfolio/server/internal/api/middleware"
	"github.com/craftfolio/server/internal/web"
	"github.com/rs/cors"
)

// SetupRouter wires all routes around the injected handler set. Public
// routes are registered directly; everything else under /api/ goes through
// the bearer-token middleware. ServeMux prefers the most specific pattern,
// so the public /api/... entries win over the protected /api/ subtree.
func SetupRouter(h *handlers.Handler) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(h.Cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mainMux.HandleFunc("/api/register", h.RegisterUser)
	mainMux.HandleFunc("/api/login", h.LoginUser)
	mainMux.HandleFunc("/api/public-portfolios", h.PublicPortfolios)
	mainMux.HandleFunc("/api/auth/google/login", h.HandleGoogleLogin)
	mainMux.HandleFunc("/api/auth/google/callback", h.HandleGoogleCallback)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/portfolios", h.Portfolios)
	protectedMux.HandleFunc("/portfolios/{id}", h.PortfolioByID)
	protectedMux.HandleFunc("/projects", h.CreateProject)
	protectedMux.HandleFunc("/skills/{portfolioId}", h.CreateSkill)
	protectedMux.HandleFunc("/repos/{portfolioId}", h.CreateRepo)

	mainMux.Handle("/api/",
		http.StripPrefix(
			"/api",
			middleware.Auth(h.Cfg.JWTSecret)(protectedMux),
		),
	)

	// Embedded single-page client
	mainMux.Handle("/", web.Handler())

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
