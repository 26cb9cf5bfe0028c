package echoweb

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/session"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Sessions   session.Repository
		NewBackend BackendFactory
	}

	Server struct {
		conf       *core.Config
		logger     core.Logger
		validate   *validator.Validate
		translator ut.Translator
		sessions   *Sessions
		app        *echo.Echo
		errors     chan error
		shutdown   chan os.Signal
		done       chan struct{}
		stopOnce   sync.Once
	}
)

func NewServer(deps ServerDeps) (*Server, error) {
	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}

	s := &Server{
		conf:       deps.Conf,
		logger:     deps.Logger,
		validate:   deps.Validate,
		translator: deps.Translator,
		sessions:   NewSessions(deps.Conf, deps.Sessions, deps.NewBackend, deps.Validate, deps.Logger),
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
		done:       make(chan struct{}),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.app.Renderer = renderer
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.translator, s.signalShutdown)

	s.app.Use(s.sessionMiddleware)

	registerAuthScreens(s)
	registerDashboardScreens(s)
	registerCourseScreens(s)
	registerBlogScreens(s)
	registerNoteScreens(s)
	registerCategoryScreens(s)
	registerPaymentScreens(s)

	// anything else is resolved by the route guard (ie. not found)
	s.app.GET("/*", func(ctx echo.Context) error {
		b, err := getContextBrowser(ctx)
		if err != nil {
			return err
		}
		return s.renderDecision(ctx, b, s.resolve(ctx, b, ""))
	})
}

// Start listens on the configured address; failures are reported through Errors().
func (s *Server) Start() {
	go s.sweepSessions(s.conf.Session.SweepInterval)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	s.stop()
	return s.app.Close()
}

func (s *Server) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// sweepSessions evicts the expired browser sessions every `interval` until the server stops.
func (s *Server) sweepSessions(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			n, err := s.sessions.Sweep(context.Background())
			if err != nil {
				s.logger.Error("sweeping sessions", err)
				continue
			}
			if n > 0 {
				s.logger.Debug(fmt.Sprintf("%d expired sessions evicted", n))
			}
		}
	}
}

// LiveSessions returns the number of browser sessions held in memory.
func (s *Server) LiveSessions() int {
	return s.sessions.Len()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
