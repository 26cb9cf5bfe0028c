package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantCode     int
		wantContains []string
	}{
		{
			name:         "protected path renders sign in in place",
			path:         "/course-list",
			wantCode:     http.StatusOK,
			wantContains: []string{"<title>Sign In | Eduport Admin</title>", `name="next" value="/course-list"`},
		},
		{
			name:         "protected path with params",
			path:         "/tutpagelist/cat1/sec1",
			wantCode:     http.StatusOK,
			wantContains: []string{`name="next" value="/tutpagelist/cat1/sec1"`},
		},
		{
			name:         "home is public",
			path:         "/",
			wantCode:     http.StatusOK,
			wantContains: []string{"<title>Dashboard | Eduport Admin</title>", `href="/signin"`},
		},
		{
			name:         "unknown path",
			path:         "/nowhere",
			wantCode:     http.StatusNotFound,
			wantContains: []string{"Page Not Found", "/nowhere"},
		},
		{
			name:         "missing param",
			path:         "/sectionlist",
			wantCode:     http.StatusNotFound,
			wantContains: []string{"Page Not Found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBrowser(t)
			rec := tb.get(tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			for _, s := range tt.wantContains {
				assert.Contains(t, rec.Body.String(), s)
			}
			assert.Empty(t, tb.backend.takeCalls(), "a browser without backend cookies is logged out without asking the backend")
		})
	}
}

func TestSignIn(t *testing.T) {
	tb := newTestBrowser(t)

	rec := tb.get("/course-list")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, tb.cookie, "session cookie")

	rec = tb.post("/signin", url.Values{"email": {"ADA@eduport.dev "}, "password": {"pwd"}, "next": {"/course-list"}})
	checkRedirect(t, rec, "/course-list")
	assert.Equal(t, []string{"POST /login", "GET /profile"}, tb.backend.takeCalls())

	rec = tb.get("/course-list")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Courses | Eduport Admin</title>")
	assert.Contains(t, body, "Logged in successfully.")
	assert.Contains(t, body, "Go Fundamentals")
	assert.Contains(t, body, `action="/signout"`)

	// the notification is shown once
	rec = tb.get("/course-list")
	assert.NotContains(t, rec.Body.String(), "Logged in successfully.")
}

func TestSignIn_failures(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantMsg   string
		wantCalls []string
	}{
		{
			name:      "bad credentials",
			form:      url.Values{"email": {ada.Email}, "password": {"nope"}},
			wantMsg:   "Bad credentials",
			wantCalls: []string{"POST /login"},
		},
		{
			name:    "invalid email",
			form:    url.Values{"email": {"ada"}, "password": {"pwd"}},
			wantMsg: "email: email must be a valid email address",
		},
		{
			name:    "missing password",
			form:    url.Values{"email": {ada.Email}},
			wantMsg: "password: this field is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBrowser(t)
			tb.get("/signin")

			rec := tb.post("/signin", tt.form)
			checkRedirect(t, rec, "/signin")
			assert.Equal(t, tt.wantCalls, tb.backend.takeCalls())

			rec = tb.get("/signin")
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestSignIn_unsafeNext(t *testing.T) {
	tb := newTestBrowser(t)
	rec := tb.post("/signin", url.Values{"email": {ada.Email}, "password": {"pwd"}, "next": {"//evil.example"}})
	checkRedirect(t, rec, "/")
}

func TestSignOut(t *testing.T) {
	tb := newTestBrowser(t)
	tb.signIn()

	rec := tb.post("/signout", nil)
	checkRedirect(t, rec, "/signin")
	assert.Equal(t, []string{"POST /logout"}, tb.backend.takeCalls())

	rec = tb.get("/signin")
	assert.Contains(t, rec.Body.String(), "Logged out successfully.")

	rec = tb.get("/course-list")
	assert.Contains(t, rec.Body.String(), `name="next" value="/course-list"`)
	assert.Empty(t, tb.backend.takeCalls())
}

func TestSessionExpired(t *testing.T) {
	tb := newTestBrowser(t)
	tb.signIn()
	tb.backend.expire()

	rec := tb.get("/course-list")
	checkRedirect(t, rec, "/course-list")
	assert.Equal(t, []string{"GET /course/42", "GET /profile"}, tb.backend.takeCalls())

	rec = tb.get("/course-list")
	body := rec.Body.String()
	assert.Contains(t, body, `name="next" value="/course-list"`)
	assert.Contains(t, body, "Session expired. Please login again.")
	assert.NotContains(t, body, "Error while reading the courses.")

	rec = tb.get("/course-list")
	assert.NotContains(t, rec.Body.String(), "Session expired. Please login again.")
}

func TestSessionSurvivesRestart(t *testing.T) {
	tb := newTestBrowser(t)
	tb.signIn()

	tb.restart()
	rec := tb.get("/course-list")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Go Fundamentals")
	assert.Equal(t, []string{"GET /profile", "GET /course/42"}, tb.backend.takeCalls())
}

func TestSessionCookie_tampered(t *testing.T) {
	tb := newTestBrowser(t)
	tb.signIn()

	tb.cookie.Value += "x"
	rec := tb.get("/course-list")
	assert.Contains(t, rec.Body.String(), `name="next" value="/course-list"`)
	assert.Empty(t, tb.backend.takeCalls())
}

func TestSessionCookie_sameSite(t *testing.T) {
	tb := newTestBrowser(t)
	tb.get("/")
	require.NotNil(t, tb.cookie)
	assert.Equal(t, http.SameSiteLaxMode, tb.cookie.SameSite)
	assert.True(t, tb.cookie.HttpOnly)
	assert.Equal(t, "/", tb.cookie.Path)

	// cross-site navigations carry the cookie on GET only, which never mutates
	tb.signIn()
	rec := tb.get("/course-list?action=delete&id=c2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"GET /course/42"}, tb.backend.takeCalls())
	assert.Contains(t, rec.Body.String(), "Intro to Rust")
}

func TestResetPassword(t *testing.T) {
	tb := newTestBrowser(t)

	rec := tb.get("/reset-password")
	assert.Contains(t, rec.Body.String(), `value="send"`)

	rec = tb.post("/reset-password", url.Values{"action": {"send"}, "email": {ada.Email}})
	checkRedirect(t, rec, "/reset-password")
	assert.Equal(t, []string{"POST /forgot-password-otp"}, tb.backend.takeCalls())

	rec = tb.get("/reset-password")
	body := rec.Body.String()
	assert.Contains(t, body, "An OTP was sent to ada@eduport.dev.")
	assert.Contains(t, body, `value="otp"`)

	rec = tb.post("/reset-password", url.Values{"action": {"otp"}, "otp": {"12ab"}})
	checkRedirect(t, rec, "/reset-password")
	rec = tb.get("/reset-password")
	assert.Contains(t, rec.Body.String(), "Please enter valid OTP")
	assert.Contains(t, rec.Body.String(), `value="otp"`)
	assert.Empty(t, tb.backend.takeCalls())

	tb.post("/reset-password", url.Values{"action": {"otp"}, "otp": {"654321"}})
	rec = tb.get("/reset-password")
	assert.Contains(t, rec.Body.String(), `value="reset"`)

	// a blank password is caught before reaching the backend
	tb.post("/reset-password", url.Values{"action": {"reset"}, "newPassword": {""}})
	rec = tb.get("/reset-password")
	assert.Contains(t, rec.Body.String(), `value="reset"`)
	assert.Empty(t, tb.backend.takeCalls())

	// the backend rejects the OTP: back to the OTP step
	rec = tb.post("/reset-password", url.Values{"action": {"reset"}, "newPassword": {"short"}})
	checkRedirect(t, rec, "/reset-password")
	assert.Equal(t, []string{"POST /reset-password"}, tb.backend.takeCalls())
	rec = tb.get("/reset-password")
	body = rec.Body.String()
	assert.Contains(t, body, "Invalid OTP")
	assert.Contains(t, body, `value="otp"`)
	assert.NotContains(t, body, `value="reset"`)

	tb.post("/reset-password", url.Values{"action": {"otp"}, "otp": {"123456"}})
	rec = tb.post("/reset-password", url.Values{"action": {"reset"}, "newPassword": {"short"}})
	checkRedirect(t, rec, "/signin")
	assert.Equal(t, []string{"POST /reset-password"}, tb.backend.takeCalls())
	assert.Contains(t, tb.get("/signin").Body.String(), "Password changed")
}
