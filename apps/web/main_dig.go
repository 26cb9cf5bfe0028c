package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/eduport/admin/apps/web/di/dig"
	echoweb "github.com/eduport/admin/apps/web/echo"
	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/content"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		webLogger core.Logger,
		storeParam dig_container.SessionsParam,
		validate *validator.Validate,
		translator ut.Translator,
		server *echoweb.Server,
	) {
		// =========================================================================
		// Initialize App

		webLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.InitValidators(validate, translator)
		content.InitValidators(validate, translator)
		account.InitValidators(validate, translator)

		account.LoadCommonPasswords(webLogger, commonPasswordsPath(conf))

		defer func() {
			if err := storeParam.Closer.Close(); err != nil {
				storeParam.Logger.Error("Failed to close", err)
			}
		}()
		defer webLogger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("sessionStore").Set(conf.Session.Store)
		expvar.Publish("liveSessions", expvar.Func(func() interface{} { return server.LiveSessions() }))

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				webLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start Web Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			webLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			webLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				webLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					webLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
