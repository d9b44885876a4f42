package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	fiberlog "github.com/MeetingMinder/MeetingMinder/internal/logger/adapter/fiber"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler/reservation"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler/role"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler/room"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler/user"
	"github.com/MeetingMinder/MeetingMinder/internal/web/middleware/cache"
	"github.com/MeetingMinder/MeetingMinder/internal/web/middleware/ratelimit"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"

	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"

	// requestIDLocal is the fiber.Locals key of the request id.
	requestIDLocal = "requestid"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start listens on addr until the app is shut down.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the app down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the checkalive check for ShutDownTime seconds so load
// balancers drain the instance, then stops the http server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, svc *booking.Services) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if svc == nil {
		return nil, errors.New("services cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        8192,
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
			ErrorHandler:          handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	}))

	app.Use(fiberlog.New(fiberlog.Config{
		Config:         cfg.Log,
		CheckAliveURI:  CheckAlivePath,
		RequestIDLocal: requestIDLocal,
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath,
		ratelimit.New(ratelimit.Config{
			PerSecond: cfg.Webserver.RateLimitPerSec,
			Burst:     cfg.Webserver.RateLimitBurst,
		}),
		cache.New(cache.Config{
			TTL: time.Duration(cfg.Webserver.CacheTTL) * time.Second,
		}),
	)

	handlers := []handler.Service{
		&room.Handler,
		&role.Handler,
		&user.Handler,
		&reservation.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(api, cfg, svc); err != nil {
			return nil, err
		}
	}

	// redirect root to the rooms collection
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.APIPath + room.Path)
	})

	return service, nil
}
