package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StrategyScout/internal/model"
)

// ReportSource exposes the most recent run report.
type ReportSource interface {
	Latest() *model.RunReport
}

// Server wraps the Echo HTTP server.
type Server struct {
	echo   *echo.Echo
	addr   string
	source ReportSource
	logger zerolog.Logger
}

// New creates the server and registers its routes.
func New(addr string, source ReportSource) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:   e,
		addr:   addr,
		source: source,
		logger: log.With().Str("component", "http").Logger(),
	}
	e.Use(s.requestLogger)

	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	api := e.Group("/api")
	api.GET("/reports/latest", s.latestReport)
	api.GET("/reports/latest/:symbol", s.latestSymbol)
	return s
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.addr).Msg("http server listening")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	body := map[string]any{"status": "ok"}
	if rep := s.source.Latest(); rep != nil {
		body["last_run"] = rep.GeneratedAt
		body["run_id"] = rep.RunID
	}
	return c.JSON(http.StatusOK, body)
}

func (s *Server) latestReport(c echo.Context) error {
	rep := s.source.Latest()
	if rep == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no report yet")
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) latestSymbol(c echo.Context) error {
	rep := s.source.Latest()
	if rep == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no report yet")
	}
	symbol := strings.ToUpper(c.Param("symbol"))
	sr, ok := rep.Symbols[symbol]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("symbol %s not in last run", symbol))
	}
	return c.JSON(http.StatusOK, sr)
}
