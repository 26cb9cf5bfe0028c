package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoweb "github.com/eduport/admin/apps/web/echo"
	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
	logsvc "github.com/eduport/admin/services/logger"
	inmemstore "github.com/eduport/admin/storage/sessions/inmem"
	redisstore "github.com/eduport/admin/storage/sessions/redis"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SESSIONS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up the sessions store
	sessions, closer, err := setUpSessions(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sessions store: %v", err), err)
	}
	defer func() {
		if err = closer.Close(); err != nil {
			storeLogger.Error("Failed to close", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	account.LoadCommonPasswords(logger, commonPasswordsPath(conf))

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("sessionStore").Set(conf.Session.Store)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Web Service

	server, err := echoweb.NewServer(
		echoweb.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			Sessions:   sessions,
			NewBackend: func() (*backend.Client, error) { return backend.NewClient(conf.Backend) },
		},
	)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up server: %v", err), err)
	}
	expvar.Publish("liveSessions", expvar.Func(func() interface{} { return server.LiveSessions() }))

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func setUpSessions(conf *core.Config) (session.Repository, io.Closer, error) {
	if conf.Session.Store != "redis" {
		return inmemstore.NewSessionRepository(inmemstore.Open()), nopCloser{}, nil
	}
	client, err := redisstore.Open(context.Background(), conf.Redis)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewSessionRepository(client, conf.Session.TTL), client, nil
}

func commonPasswordsPath(conf *core.Config) string {
	if filepath.IsAbs(conf.CommonPasswordsPath) {
		return conf.CommonPasswordsPath
	}
	return filepath.Join(core.Getwd(), conf.CommonPasswordsPath)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
