// Package backend is the client of the Eduport REST backend.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/session"
)

const creatorHeader = "X-Creator-Id"

var ErrUnexpectedStatus = errors.New("unexpected status")

// Client talks to the backend with the credentials (cookies) of one browser session.
type Client struct {
	baseURL *url.URL
	rest    *rest.Client
	jar     http.CookieJar
}

// NewClient returns a client with an empty cookie jar.
func NewClient(conf core.BackendConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(conf.URL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing backend url")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	return &Client{
		baseURL: base,
		rest: &rest.Client{
			HTTPClient: &http.Client{Jar: jar, Timeout: conf.Timeout},
		},
		jar: jar,
	}, nil
}

// Cookies exports the backend cookies held by the client.
func (c *Client) Cookies() []session.Cookie {
	cookies := c.jar.Cookies(c.baseURL)
	exported := make([]session.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		exported = append(exported, session.CookieFromHTTP(ck))
	}
	return exported
}

// SetCookies restores previously exported backend cookies.
func (c *Client) SetCookies(cookies []session.Cookie) {
	if len(cookies) == 0 {
		return
	}
	restored := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		hc := ck.HTTP()
		if hc.Path == "" {
			hc.Path = "/"
		}
		restored = append(restored, hc)
	}
	c.jar.SetCookies(c.baseURL, restored)
}

// Body is a request payload.
type Body interface {
	Encode() (data []byte, contentType string, err error)
}

type jsonBody struct {
	v interface{}
}

// JSON returns a JSON request payload.
func JSON(v interface{}) Body {
	return jsonBody{v: v}
}

func (b jsonBody) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", errors.Wrap(err, "encoding json body")
	}
	return data, "application/json", nil
}

type request struct {
	method  rest.Method
	path    string
	body    Body
	headers map[string]string
}

// do sends `req` and returns the 2xx response.
// A 401 is reported as core.ErrUnauthorized, any other failing status as *core.APIError.
func (c *Client) do(ctx context.Context, req request) (*rest.Response, error) {
	op := string(req.method) + " " + req.path

	headers := map[string]string{"Accept": "application/json, text/plain, */*"}
	for k, v := range req.headers {
		headers[k] = v
	}
	var data []byte
	if req.body != nil {
		var ctype string
		var err error
		if data, ctype, err = req.body.Encode(); err != nil {
			return nil, errors.Wrap(err, op)
		}
		headers["Content-Type"] = ctype
	}

	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  req.method,
		BaseURL: c.baseURL.String() + req.path,
		Headers: headers,
		Body:    data,
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.Wrap(core.ErrUnauthorized, op)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Wrap(core.NewAPIError(resp.StatusCode, serverMessage(resp)), op)
	}
	return resp, nil
}

// decode unmarshals a JSON response body into `v`; an empty body leaves `v` untouched.
func decode(resp *rest.Response, v interface{}) error {
	if strings.TrimSpace(resp.Body) == "" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(resp.Body), v), "decoding response")
}

// serverMessage extracts the text the backend replied with.
// Plain text bodies are used as is; JSON bodies may carry a `message` or `error` field.
func serverMessage(resp *rest.Response) string {
	body := strings.TrimSpace(resp.Body)
	switch {
	case body == "", strings.HasPrefix(body, "<"):
		return ""
	case strings.HasPrefix(body, "{"):
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return ""
		}
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	case strings.HasPrefix(body, `"`):
		var s string
		if err := json.Unmarshal([]byte(body), &s); err == nil {
			return s
		}
	}
	return body
}

// text returns the text body of a successful reply.
func text(resp *rest.Response) string {
	return serverMessage(resp)
}
