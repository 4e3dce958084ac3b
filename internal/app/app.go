// Package app serves games over HTTP and WebSocket.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/render"
	"github.com/vancomm/minesweeper/internal/repository"
)

const (
	shutdownTimeout = time.Second * 15
	endedTTL        = time.Hour      // ended sessions are dropped after this
	idleTTL         = 24 * time.Hour // and any session nobody touched for this long
)

type App struct {
	logger   *slog.Logger
	config   *config.Config
	router   *http.ServeMux
	repo     *repository.Queries
	ws       *config.WebSocket
	renderer *render.Renderer
}

func New(logger *slog.Logger, cfg *config.Config) (*App, error) {
	ws, err := config.NewWebSocket(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.CellSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create renderer: %w", err)
	}

	app := &App{
		logger:   logger,
		config:   cfg,
		router:   http.NewServeMux(),
		repo:     repository.New(),
		ws:       ws,
		renderer: renderer,
	}
	app.loadRoutes()

	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Recover(a.logger),
		middleware.Cors(config.OriginMatcher(a.config.AllowedOrigins)),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:        a.config.Addr,
		Handler:     a.Handler(),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.config.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		a.pruneSessions(gCtx)
		return nil
	})

	return g.Wait()
}

func (a *App) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(endedTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := a.repo.Prune(now.Add(-endedTTL), now.Add(-idleTTL)); n > 0 {
				a.logger.Debug("pruned sessions", slog.Int("count", n))
			}
		}
	}
}
