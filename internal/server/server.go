package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"courseeditor/internal/catalog"
	"courseeditor/internal/config"
	"courseeditor/internal/editor"
	mw "courseeditor/internal/middleware"
	"courseeditor/internal/repository"
	rtr "courseeditor/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func Routes(cfg *config.ServerConfig, svc *editor.Service) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Logger,    // Log API Request Calls
		middleware.Recoverer, // Turn panics into 500s
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.SessionCtx(mw.SessionOptions{
			CookieName: cfg.SessionCookieName,
			Expiration: cfg.SessionCookieExpiration,
			IsHTTPS:    cfg.IsHTTPS,
		}))

		r.Mount("/courses", rtr.CourseRoutes(svc))
		r.Mount("/edit", rtr.EditRoutes(svc))
		r.Mount("/selected", rtr.SelectedRoutes(svc))
	})

	return router
}

// Handler wraps the routes in the CORS policy from cfg.
func Handler(cfg *config.ServerConfig, svc *editor.Service) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedHeaders:   []string{"Cookie", "Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		ExposedHeaders:   []string{"Set-Cookie", "Location"},
		AllowCredentials: true,
	})

	return c.Handler(Routes(cfg, svc))
}

// Start serves the editor until ctx is cancelled.
func Start(ctx context.Context, cfg *config.ServerConfig) error {
	if cfg == nil {
		log.Panic("❌ Missing or invalid configuration!")
	}

	repo, err := repository.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error creating repository: %w", err)
	}
	defer repo.Close()

	svc := editor.NewService(catalog.NewClient(cfg), repo)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.Port),
		Handler: Handler(cfg, svc),
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("Server is listening on port %v\n", cfg.Port)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("👋 Server stopped")
	return nil
}
