package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/notify"
	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/core/wizard"
	"github.com/eduport/admin/services/backend"
)

var (
	errInvalidToken   = errors.New("invalid session token")
	contextBrowserKey = "browser"
	sessionAudience   = "eduport-admin"
)

// BackendFactory returns a backend client with an empty cookie jar.
type BackendFactory func() (*backend.Client, error)

// Claims of the browser session cookie; the subject is the session ID.
type Claims struct {
	jwt.StandardClaims
}

// browser is the server side state of one browser.
type browser struct {
	id        string
	createdAt time.Time
	expiresAt time.Time

	client   *backend.Client
	store    *session.Store
	notices  *notify.Queue
	previews *preview.Registry
	accounts *account.Service
	mount    sync.Once

	draftsMu sync.Mutex // held while a wizard is being driven
	drafts   map[route.Screen]*draft
}

// draft is the state of a multi-step form between requests.
type draft struct {
	wizard *wizard.Wizard
	values url.Values
}

// mountOnce determines the login status on the first request of the browser.
// A browser without backend cookies is logged out without asking the backend.
func (b *browser) mountOnce(ctx context.Context) {
	b.mount.Do(func() {
		if len(b.client.Cookies()) == 0 {
			b.store.Clear()
			return
		}
		b.store.Refresh(ctx)
	})
}

// draftOf returns the draft of `screen`, creating it if needed. draftsMu must be held.
func (b *browser) draftOf(screen route.Screen, steps int) *draft {
	d, ok := b.drafts[screen]
	if !ok {
		d = &draft{wizard: wizard.New(steps), values: make(url.Values)}
		b.drafts[screen] = d
	}
	return d
}

// resetDraft drops the draft of `screen` and revokes its previews. draftsMu must be held.
func (b *browser) resetDraft(screen route.Screen) {
	delete(b.drafts, screen)
	b.previews.ReleasePrefix(string(screen) + "/")
}

// Sessions maps browser session IDs to their live state.
type Sessions struct {
	conf      *core.Config
	repo      session.Repository
	newClient BackendFactory
	validate  *validator.Validate
	logger    core.Logger
	now       func() time.Time

	mu       sync.Mutex
	browsers map[string]*browser
}

func NewSessions(
	conf *core.Config,
	repo session.Repository,
	newClient BackendFactory,
	validate *validator.Validate,
	logger core.Logger,
) *Sessions {
	return &Sessions{
		conf:      conf,
		repo:      repo,
		newClient: newClient,
		validate:  validate,
		logger:    logger,
		now:       time.Now,
		browsers:  make(map[string]*browser),
	}
}

func (s *Sessions) newBrowser(rec session.Record) (*browser, error) {
	client, err := s.newClient()
	if err != nil {
		return nil, errors.Wrap(err, "creating backend client")
	}
	client.SetCookies(rec.BackendCookies)

	notices := notify.NewQueue()
	store := session.NewStore(client, notices, s.logger)
	return &browser{
		id:        rec.ID,
		createdAt: rec.CreatedAt,
		expiresAt: rec.ExpiresAt,
		client:    client,
		store:     store,
		notices:   notices,
		previews:  preview.NewRegistry(),
		accounts:  account.NewService(client, store, notices, s.validate),
		drafts:    make(map[route.Screen]*draft),
	}, nil
}

// Start opens a new browser session and returns its signed token.
func (s *Sessions) Start(ctx context.Context) (*browser, string, error) {
	now := s.now()
	rec := session.Record{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.conf.Session.TTL),
	}
	b, err := s.newBrowser(rec)
	if err != nil {
		return nil, "", err
	}
	if err = s.repo.Save(ctx, rec); err != nil {
		return nil, "", errors.Wrap(err, "saving session")
	}
	token, err := s.GenerateToken(rec)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.browsers[rec.ID] = b
	s.mu.Unlock()
	return b, token, nil
}

// Resume returns the browser session of `token`, rebuilding it from the repository if needed.
// It returns errInvalidToken or session.ErrNotFound when a new session must be started.
func (s *Sessions) Resume(ctx context.Context, token string) (*browser, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	b, ok := s.browsers[id]
	s.mu.Unlock()
	if ok {
		if !b.expiresAt.IsZero() && !s.now().Before(b.expiresAt) {
			s.forget(b)
			return nil, session.ErrNotFound
		}
		return b, nil
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == session.ErrNotFound {
			return nil, err
		}
		return nil, errors.Wrap(err, "getting session")
	}
	if b, err = s.newBrowser(rec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.browsers[id]; ok { // resumed concurrently
		return existing, nil
	}
	s.browsers[id] = b
	return b, nil
}

// Persist saves the backend cookies of `b` so it survives a restart.
func (s *Sessions) Persist(ctx context.Context, b *browser) error {
	rec := session.Record{
		ID:             b.id,
		BackendCookies: b.client.Cookies(),
		CreatedAt:      b.createdAt,
		ExpiresAt:      b.expiresAt,
	}
	return errors.Wrap(s.repo.Save(ctx, rec), "saving session")
}

// Drop deletes the session of `b`.
func (s *Sessions) Drop(ctx context.Context, b *browser) error {
	s.forget(b)
	return errors.Wrap(s.repo.Delete(ctx, b.id), "deleting session")
}

func (s *Sessions) forget(b *browser) {
	s.mu.Lock()
	delete(s.browsers, b.id)
	s.mu.Unlock()
	b.previews.ReleaseAll()
}

// Sweep evicts the expired browsers, revoking their previews,
// and purges the expired records of repositories that keep them.
func (s *Sessions) Sweep(ctx context.Context) (int, error) {
	now := s.now()

	var expired []*browser
	s.mu.Lock()
	for id, b := range s.browsers {
		if !b.expiresAt.IsZero() && !now.Before(b.expiresAt) {
			delete(s.browsers, id)
			expired = append(expired, b)
		}
	}
	s.mu.Unlock()

	for _, b := range expired {
		b.previews.ReleaseAll()
	}

	if purger, ok := s.repo.(session.Purger); ok {
		if _, err := purger.PurgeExpired(ctx); err != nil {
			return len(expired), errors.Wrap(err, "purging sessions")
		}
	}
	return len(expired), nil
}

// Len returns the number of live browsers.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.browsers)
}

// GenerateToken generates a signed JWT token string identifying the session `rec`.
func (s *Sessions) GenerateToken(rec session.Record) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.conf.AppName,
			Subject:   rec.ID,
			Audience:  sessionAudience,
			ExpiresAt: rec.ExpiresAt.Unix(),
			IssuedAt:  s.now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(s.conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (s *Sessions) parseToken(ss string) (string, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(ss, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(s.conf.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" || !claims.VerifyAudience(sessionAudience, true) {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// sessionMiddleware attaches the browser session to the context, starting one if needed.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		rctx := ctx.Request().Context()

		var b *browser
		if ck, err := ctx.Cookie(s.conf.Session.CookieName); err == nil && ck.Value != "" {
			b, err = s.sessions.Resume(rctx, ck.Value)
			if err != nil && err != errInvalidToken && err != session.ErrNotFound {
				return errors.Wrap(err, "resuming session")
			}
		}
		if b == nil {
			var token string
			var err error
			if b, token, err = s.sessions.Start(rctx); err != nil {
				return errors.Wrap(err, "starting session")
			}
			ctx.SetCookie(&http.Cookie{
				Name:     s.conf.Session.CookieName,
				Value:    token,
				Path:     "/",
				Expires:  b.expiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		b.mountOnce(rctx)
		ctx.Set(contextBrowserKey, b)
		return next(ctx)
	}
}

func getContextBrowser(ctx echo.Context) (*browser, error) {
	if b, ok := ctx.Get(contextBrowserKey).(*browser); ok {
		return b, nil
	}
	return nil, errBrowserNotFound
}
