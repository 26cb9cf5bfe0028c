package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/session"
)

const sessionCookie = "JSESSIONID"

var ada = session.Profile{ID: "42", Username: "ada", Email: "ada@eduport.dev", Authenticated: true}

// fakeBackend is an in-memory Eduport backend.
type fakeBackend struct {
	mu         sync.Mutex
	courses    []content.Course
	deleteCode int
	requests   []*http.Request
	bodies     map[string][]byte
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{
		courses: []content.Course{
			{ID: "c1", Title: "Go", Category: content.CoursePremium, Price: 10},
			{ID: "c2", Title: "Rust", Category: content.CourseFree},
		},
		deleteCode: http.StatusNoContent,
		bodies:     make(map[string][]byte),
	}
	srv := httptest.NewServer(http.StripPrefix("/admin", http.HandlerFunc(fb.serve)))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) authed(r *http.Request) bool {
	ck, err := r.Cookie(sessionCookie)
	return err == nil && ck.Value == "s3cr3t"
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	body, _ := io.ReadAll(r.Body)
	fb.requests = append(fb.requests, r)
	fb.bodies[r.Method+" "+r.URL.Path] = body

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/login":
		var req account.SignIn
		_ = json.Unmarshal(body, &req)
		if req.Password != "pwd" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Bad credentials")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "s3cr3t", Path: "/"})
		_, _ = io.WriteString(w, "Logged in")
		return
	case r.URL.Path == "/forgot-password-otp":
		_, _ = io.WriteString(w, "OTP sent to ada@eduport.dev")
		return
	}

	if !fb.authed(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/profile":
		_ = json.NewEncoder(w).Encode(ada)
	case r.Method == http.MethodGet && r.URL.Path == "/course/42":
		_ = json.NewEncoder(w).Encode(fb.courses)
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
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/course/"):
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/categories":
		if r.Header.Get(creatorHeader) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"missing creator"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"cat1","title":"Backend","createdAt":"2024-05-01T10:00:00"}]`)
	case r.URL.Path == "/payments/42":
		_, _ = io.WriteString(w, `[{"id":"o1","courseName":"Go","amount":499.5}]`)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	c, err := NewClient(core.BackendConfig{URL: srv.URL + "/admin/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func login(t *testing.T, c *Client) {
	require.NoError(t, c.Login(context.Background(), account.SignIn{Email: "ada@eduport.dev", Password: "pwd"}))
}

func TestClient_FetchProfile(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeBackend(t)
	c := newTestClient(t, srv)

	_, err := c.FetchProfile(ctx)
	assert.Equal(t, core.ErrUnauthorized, errors.Cause(err))

	err = c.Login(ctx, account.SignIn{Email: "ada@eduport.dev", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Bad credentials", core.ServerMessage(err, ""))

	login(t, c)
	prof, err := c.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ada, prof)
}

func TestClient_Cookies(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeBackend(t)
	c := newTestClient(t, srv)
	login(t, c)

	cookies := c.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)

	restored := newTestClient(t, srv)
	restored.SetCookies(cookies)
	prof, err := restored.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, prof.ID)
}

func TestResource_Delete(t *testing.T) {
	ctx := context.Background()
	fb, srv := newFakeBackend(t)
	c := newTestClient(t, srv)
	login(t, c)
	courses := c.Courses("42")

	fb.deleteCode = http.StatusOK
	_, err := courses.Delete(ctx, "c1")
	assert.Equal(t, ErrUnexpectedStatus, errors.Cause(err), "only 204 counts")

	fb.deleteCode = http.StatusNoContent
	list, err := courses.Delete(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].ID)

	fb.mu.Lock()
	last := fb.requests[len(fb.requests)-1]
	fb.mu.Unlock()
	assert.Equal(t, http.MethodGet, last.Method, "re-fetched after delete")
}

func TestResource_UpdateSendsMultipart(t *testing.T) {
	ctx := context.Background()
	fb, srv := newFakeBackend(t)
	c := newTestClient(t, srv)
	login(t, c)

	img := preview.File{Name: "go.png", ContentType: "image/png", Data: []byte("PNG")}
	uc := content.UpdateCourse{Title: "Go 2", Description: "Generics", Category: content.CourseFree}
	list, err := c.Courses("42").Update(ctx, "c1", UpdateCourseForm(uc, &img))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	fb.mu.Lock()
	var put *http.Request
	for _, r := range fb.requests {
		if r.Method == http.MethodPut {
			put = r
		}
	}
	body := fb.bodies["PUT /course/c1"]
	fb.mu.Unlock()
	require.NotNil(t, put)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", put.Header.Get("Content-Type"))
	require.NoError(t, req.ParseMultipartForm(1<<20))

	fh := req.MultipartForm.File["request"]
	require.Len(t, fh, 1)
	assert.Equal(t, "application/json", fh[0].Header.Get("Content-Type"))
	f, err := fh[0].Open()
	require.NoError(t, err)
	var got content.UpdateCourse
	require.NoError(t, json.NewDecoder(f).Decode(&got))
	assert.Equal(t, uc.Title, got.Title)

	file := req.MultipartForm.File["file"]
	require.Len(t, file, 1)
	assert.Equal(t, "go.png", file[0].Filename)
	assert.Equal(t, "image/png", file[0].Header.Get("Content-Type"))
}

func TestClient_errors(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeBackend(t)
	c := newTestClient(t, srv)
	login(t, c)

	_, err := NewResource[content.Category](c, Paths{List: "/categories"}).List(ctx)
	require.Error(t, err)
	assert.True(t, core.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "missing creator", core.ServerMessage(err, ""))

	cats, err := c.Categories("42").List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "2024-05-01T10:00:00", cats[0].CreatedAt)

	_, err = c.Blogs("42").List(ctx)
	require.Error(t, err)
	assert.True(t, core.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "fallback", core.ServerMessage(err, "fallback"), "html bodies are not surfaced")

	orders, err := c.Payments(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []content.Order{{ID: "o1", CourseName: "Go", Amount: 499.5}}, orders)

	msg, err := c.ForgotPasswordOTP(ctx, account.ForgotPassword{Email: "ada@eduport.dev"})
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to ada@eduport.dev", msg)
}

func TestForm_fields(t *testing.T) {
	img := preview.File{Name: "n.png"}
	pdf := preview.File{Name: "n.pdf"}
	assert.Equal(t, []string{"note", "imgFile", "pdfFile"}, NewNoteForm(content.NewNote{}, img, pdf).Fields())
	assert.Equal(t, []string{"request", "pdf"}, UpdateNoteForm(content.UpdateNote{}, nil, &pdf).Fields())
	assert.Equal(t, []string{"course", "file"}, NewCourseForm(content.NewCourse{}, img).Fields())
	assert.Equal(t, []string{"request", "file"}, NewCategoryForm(content.NewCategory{}, img).Fields())
}
