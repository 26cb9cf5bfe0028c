package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoweb "github.com/eduport/admin/apps/web/echo"
	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
	logsvc "github.com/eduport/admin/services/logger"
	inmemstore "github.com/eduport/admin/storage/sessions/inmem"
	redisstore "github.com/eduport/admin/storage/sessions/redis"
)

// SessionsParam holds what is needed to release the sessions store on shutdown.
type SessionsParam struct {
	dig.In
	Closer io.Closer
	Logger core.Logger `name:"storeLogger"`
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Sessions   session.Repository
	NewBackend echoweb.BackendFactory
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "WEB : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "SESSIONS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newSessionRepository(conf *core.Config, logger core.Logger) (session.Repository, io.Closer) {
	if conf.Session.Store != "redis" {
		return inmemstore.NewSessionRepository(inmemstore.Open()), nopCloser{}
	}
	client, err := redisstore.Open(context.Background(), conf.Redis)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sessions store: %v", err), err)
	}
	return redisstore.NewSessionRepository(client, conf.Session.TTL), client
}

func newBackendFactory(conf *core.Config) echoweb.BackendFactory {
	return func() (*backend.Client, error) {
		return backend.NewClient(conf.Backend)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServer(p serverParams) (*echoweb.Server, error) {
	return echoweb.NewServer(echoweb.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		Sessions:   p.Sessions,
		NewBackend: p.NewBackend,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newSessionRepository))
	must(c.Provide(newBackendFactory))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
