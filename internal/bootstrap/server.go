package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/api"
	"github.com/solnguyen93/flightcast/config"
	"github.com/solnguyen93/flightcast/internal/service/auth"
	"github.com/solnguyen93/flightcast/internal/service/bookmarks"
	"github.com/solnguyen93/flightcast/internal/service/flights"
	"github.com/solnguyen93/flightcast/internal/session"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Sessions  *session.Store
	Auth      auth.AuthUseCase
	Search    flights.SearchUseCase
	Bookmarks bookmarks.BookmarkUseCase
	Log       *logrus.Logger
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, deps),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires the middleware chain and route table. The session and
// access-control middleware run before every handler; route visibility is
// configured declaratively rather than inside the handlers.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.SessionMiddleware(deps.Sessions, cfg.Session.CookieName, deps.Log))
	router.Use(api.AccessController(deps.Auth, api.DefaultRouteRules(), deps.Log))

	api.NewFlightHandler(deps.Search, deps.Bookmarks, deps.Log).Register(router)
	api.NewUserHandler(deps.Auth, deps.Bookmarks, deps.Log).Register(router)

	return router
}
