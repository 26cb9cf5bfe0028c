package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/eduport/admin/apps/web/echo"
	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
	"github.com/eduport/admin/services/logger"
	"github.com/eduport/admin/storage/sessions/inmem"
)

const (
	backendCookie = "JSESSIONID"
	backendSecret = "s3cr3t"
)

var ada = session.Profile{ID: "42", Username: "ada", Email: "ada@eduport.dev", Authenticated: true}

// fakeBackend is an in-memory Eduport backend mounted on /admin.
type fakeBackend struct {
	mu          sync.Mutex
	expired     bool // reject the session cookie
	deleteCode  int
	courses     []content.Course
	orders      []content.Order
	collections []*fakeCollection
	received    []received
	calls       []string
}

// fakeCollection is a list of JSON items, listed at `list` and mutated under `items`.
type fakeCollection struct {
	list, items string
	rows        []map[string]interface{}
	created     int
}

// received is a mutation the backend accepted for processing.
type received struct {
	method, path string
	creator      string                 // X-Creator-Id header
	payload      map[string]interface{} // JSON body, or the JSON part of a multipart body
	files        []string               // file parts of a multipart body
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{
		deleteCode: http.StatusNoContent,
		courses: []content.Course{
			{ID: "c1", Title: "Go Fundamentals", Category: content.CoursePremium, Price: 49},
			{ID: "c2", Title: "Intro to Rust", Category: content.CourseFree},
		},
		orders: []content.Order{
			{ID: "o1", UserName: "bob", UserEmail: "bob@eduport.dev", CourseName: "Go Fundamentals", Amount: 49, CreatedAt: "2024-03-01"},
			{ID: "o2", UserName: "eve", UserEmail: "eve@eduport.dev", CourseName: "Go Fundamentals", Amount: 51, CreatedAt: "2024-03-02"},
		},
		collections: []*fakeCollection{
			{list: "/blog/42", items: "/blog", rows: []map[string]interface{}{
				{"id": "b1", "title": "Channels", "description": "Deep dive", "content": "<p>chan</p>", "readtime": "5 min", "tags": []string{"go", "concurrency"}},
			}},
			{list: "/note/42", items: "/note", rows: []map[string]interface{}{
				{"id": "n1", "title": "Go cheatsheet", "category": content.NoteCheatSheet, "language": "Go"},
			}},
			{list: "/categories", items: "/categories", rows: []map[string]interface{}{
				{"id": "cat1", "title": "Backend", "description": "Servers and APIs", "createdAt": "2024-01-01"},
			}},
			{list: "/categories/cat1/sections", items: "/categories/cat1/sections", rows: []map[string]interface{}{
				{"id": "sec1", "categoryId": "cat1", "title": "Basics"},
				{"id": "sec2", "categoryId": "cat1", "title": "Concurrency"},
			}},
			{list: "/categories/cat1/sections/sec1/pages", items: "/categories/cat1/sections/sec1/pages", rows: []map[string]interface{}{
				{"id": "p1", "categoryId": "cat1", "sectionId": "sec1", "title": "Hello, World", "content": "package main"},
			}},
		},
	}
	srv := httptest.NewServer(http.StripPrefix("/admin", http.HandlerFunc(fb.serve)))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) authed(r *http.Request) bool {
	ck, err := r.Cookie(backendCookie)
	return err == nil && ck.Value == backendSecret && !fb.expired
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.calls = append(fb.calls, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/login":
		var req account.SignIn
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pwd" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Bad credentials")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: backendCookie, Value: backendSecret, Path: "/"})
		_, _ = io.WriteString(w, "Logged in")
		return
	case r.Method == http.MethodPost && r.URL.Path == "/forgot-password-otp":
		_, _ = io.WriteString(w, "OTP sent to your email")
		return
	case r.Method == http.MethodPost && r.URL.Path == "/reset-password":
		var req account.ResetPassword
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.OTP != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Invalid OTP")
			return
		}
		_, _ = io.WriteString(w, "Password changed")
		return
	case r.Method == http.MethodPost && r.URL.Path == "/logout":
		http.SetCookie(w, &http.Cookie{Name: backendCookie, Value: "", Path: "/", MaxAge: -1})
		return
	}

	if !fb.authed(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/profile":
		writeJSON(w, ada)
	case r.Method == http.MethodGet && r.URL.Path == "/course/42":
		writeJSON(w, fb.courses)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/course/"):
		if fb.deleteCode == http.StatusNoContent {
			id := strings.TrimPrefix(r.URL.Path, "/course/")
			kept := fb.courses[:0]
			for _, c := range fb.courses {
				if c.ID != id {
					kept = append(kept, c)
				}
			}
			fb.courses = kept
		}
		w.WriteHeader(fb.deleteCode)
	case r.Method == http.MethodGet && r.URL.Path == "/payments/42":
		writeJSON(w, fb.orders)
	default:
		fb.serveCollection(w, r)
	}
}

func (fb *fakeBackend) serveCollection(w http.ResponseWriter, r *http.Request) {
	dir, id := path.Split(r.URL.Path)
	dir = strings.TrimSuffix(dir, "/")
	for _, c := range fb.collections {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == c.list:
			writeJSON(w, c.rows)
			return
		case r.Method == http.MethodPost && r.URL.Path == c.items:
			rcv := fb.receive(r)
			c.created++
			row := map[string]interface{}{"id": fmt.Sprintf("new%d", c.created)}
			for k, v := range rcv.payload {
				row[k] = v
			}
			c.rows = append(c.rows, row)
			_, _ = io.WriteString(w, "Created")
			return
		case dir == c.items && c.row(id) >= 0:
			switch r.Method {
			case http.MethodPut:
				rcv := fb.receive(r)
				for k, v := range rcv.payload {
					c.rows[c.row(id)][k] = v
				}
				_, _ = io.WriteString(w, "Updated")
				return
			case http.MethodDelete:
				fb.receive(r)
				if fb.deleteCode == http.StatusNoContent {
					i := c.row(id)
					c.rows = append(c.rows[:i], c.rows[i+1:]...)
				}
				w.WriteHeader(fb.deleteCode)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (c *fakeCollection) row(id string) int {
	for i, row := range c.rows {
		if row["id"] == id {
			return i
		}
	}
	return -1
}

// receive records the headers and the payload of a mutation.
func (fb *fakeBackend) receive(r *http.Request) received {
	rcv := received{method: r.Method, path: r.URL.Path, creator: r.Header.Get("X-Creator-Id")}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		_ = json.NewDecoder(r.Body).Decode(&rcv.payload)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			break
		}
		for _, vs := range r.MultipartForm.Value {
			_ = json.Unmarshal([]byte(vs[0]), &rcv.payload)
		}
		for name, fhs := range r.MultipartForm.File {
			if fhs[0].Header.Get("Content-Type") != "application/json" {
				rcv.files = append(rcv.files, name)
				continue
			}
			if f, err := fhs[0].Open(); err == nil {
				_ = json.NewDecoder(f).Decode(&rcv.payload)
				_ = f.Close()
			}
		}
		sort.Strings(rcv.files)
	}
	fb.received = append(fb.received, rcv)
	return rcv
}

// takeReceived returns the mutations received since the last call.
func (fb *fakeBackend) takeReceived() []received {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	rcvd := fb.received
	fb.received = nil
	return rcvd
}

func (fb *fakeBackend) expire() {
	fb.mu.Lock()
	fb.expired = true
	fb.mu.Unlock()
}

func (fb *fakeBackend) setDeleteCode(code int) {
	fb.mu.Lock()
	fb.deleteCode = code
	fb.mu.Unlock()
}

// takeCalls returns the requests received since the last call.
func (fb *fakeBackend) takeCalls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	calls := fb.calls
	fb.calls = nil
	return calls
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T, conf *core.Config, repo session.Repository) *Server {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	account.InitValidators(validate, translator)

	srv, err := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
		Validate:   validate,
		Translator: translator,
		Sessions:   repo,
		NewBackend: func() (*backend.Client, error) { return backend.NewClient(conf.Backend) },
	})
	require.NoError(t, err)
	return srv
}

// testBrowser drives the server the way a browser would, keeping the session cookie.
type testBrowser struct {
	t       *testing.T
	conf    *core.Config
	repo    session.Repository
	server  *Server
	backend *fakeBackend
	cookie  *http.Cookie
}

func newTestBrowser(t *testing.T) *testBrowser {
	fb, bsrv := newFakeBackend(t)
	conf := core.NewTestConfig()
	conf.Backend.URL = bsrv.URL + "/admin"
	repo := inmemstore.NewSessionRepository(inmemstore.Open())
	return &testBrowser{t: t, conf: conf, repo: repo, server: newServer(t, conf, repo), backend: fb}
}

// restart simulates a server restart sharing the same session repository.
func (tb *testBrowser) restart() {
	tb.server = newServer(tb.t, tb.conf, tb.repo)
}

func (tb *testBrowser) send(req *http.Request) *httptest.ResponseRecorder {
	if tb.cookie != nil {
		req.AddCookie(tb.cookie)
	}
	rec := httptest.NewRecorder()
	tb.server.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tb.conf.Session.CookieName {
			tb.cookie = ck
		}
	}
	return rec
}

func (tb *testBrowser) get(path string) *httptest.ResponseRecorder {
	return tb.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tb *testBrowser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tb.send(req)
}

type upload struct {
	field, name, ctype string
	data               []byte
}

func (tb *testBrowser) postMultipart(path string, form url.Values, files ...upload) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(tb.t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.name + `"`}
		h["Content-Type"] = []string{f.ctype}
		part, err := mw.CreatePart(h)
		require.NoError(tb.t, err)
		_, err = part.Write(f.data)
		require.NoError(tb.t, err)
	}
	require.NoError(tb.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return tb.send(req)
}

// signIn logs `ada` in and discards the notifications and backend calls it caused.
func (tb *testBrowser) signIn() {
	rec := tb.post("/signin", url.Values{"email": {ada.Email}, "password": {"pwd"}})
	require.Equal(tb.t, http.StatusSeeOther, rec.Code)
	tb.get("/profile")
	tb.backend.takeCalls()
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	if rec.Code != http.StatusSeeOther {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("failed! location = %q; wantLocation %q", loc, wantLocation)
	}
}
