// Package server exposes health and prometheus metrics over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DriverCounter and DraftCounter feed the /health response.
type DriverCounter interface {
	Len() int
}

type DraftCounter interface {
	Active() int
}

type healthResponse struct {
	Status       string `json:"status"`
	Drivers      int    `json:"drivers"`
	ActiveDrafts int    `json:"active_drafts"`
}

type Server struct {
	addr   string
	echo   *echo.Echo
	logger zerolog.Logger
}

func New(addr string, drivers DriverCounter, drafts DraftCounter, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Status:       "ok",
			Drivers:      drivers.Len(),
			ActiveDrafts: drafts.Active(),
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{
		addr:   addr,
		echo:   e,
		logger: logger.With().Str("component", "ops_server").Logger(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Ops server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}
