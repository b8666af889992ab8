// Package gateway is the single HTTP path to the backend. It attaches auth
// and marker headers, tracks in-flight requests, and turns failures into
// classified errors with one user-facing notice each.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharaohs/pitchside/internal/notice"
	"go.uber.org/multierr"
)

const (
	DefaultTimeout  = 30 * time.Second
	ExtendedTimeout = 90 * time.Second
)

// TokenSource supplies the current bearer token; empty means anonymous
type TokenSource interface {
	Token() string
}

// Options configures a Client
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Tokens         TokenSource
	Busy           *Busy
	Notices        notice.Publisher
	OnUnauthorized func()
	Logger         *slog.Logger
}

// Client performs backend requests
type Client struct {
	baseURL        string
	timeout        time.Duration
	httpClient     *http.Client
	tokens         TokenSource
	busy           *Busy
	notices        notice.Publisher
	onUnauthorized func()
	logger         *slog.Logger
}

// New creates a gateway client
func New(opts Options) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		timeout:        opts.Timeout,
		httpClient:     opts.HTTPClient,
		tokens:         opts.Tokens,
		busy:           opts.Busy,
		notices:        opts.Notices,
		onUnauthorized: opts.OnUnauthorized,
		logger:         opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.busy == nil {
		c.busy = NewBusy()
	}
	if c.notices == nil {
		c.notices = notice.Discard{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Busy returns the indicator this client reports to
func (c *Client) Busy() *Busy {
	return c.busy
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHandler replaces the hook run on a 401 response
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// Request describes one backend call
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any        // JSON-encoded when set
	Multipart *Multipart // sent as multipart/form-data when set
	Timeout   time.Duration

	// Quiet suppresses the user-facing notice on failure. Background
	// refreshes use it so a flaky link does not flood the status line.
	Quiet bool
}

// Field is a plain multipart form field
type Field struct {
	Name  string
	Value string
}

// FilePart is a file streamed from disk into a multipart form
type FilePart struct {
	Field       string
	FileName    string
	Path        string
	ContentType string
}

// Multipart is an ordered multipart/form-data body
type Multipart struct {
	Fields []Field
	Files  []FilePart
}

// Get is shorthand for a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post is shorthand for a JSON POST request
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put is shorthand for a JSON PUT request
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete is shorthand for a DELETE request
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends r and decodes a JSON response into out (when out is non-nil).
// Failures come back as *Error; the matching notice has already been published.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	end := c.busy.Begin()
	defer end()

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, contentType, err := r.encode()
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := c.url(r.Path, r.Query)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	c.decorate(req, contentType, requestID)

	c.logger.Debug("api request", "method", method, "path", r.Path, "requestID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if parent.Err() != nil {
			// Caller gave up; nothing to tell the user.
			return parent.Err()
		}
		gerr := newError(method, r.Path, 0, nil, err)
		c.fail(gerr, r.Quiet, requestID)
		return gerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gerr := newError(method, r.Path, resp.StatusCode, data, nil)
		c.fail(gerr, r.Quiet, requestID)
		return gerr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("failed to parse response", "path", r.Path, "error", err)
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) url(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) decorate(req *http.Request, contentType, requestID string) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", requestID)

	if strings.HasPrefix(contentType, "multipart/") {
		req.Header.Set("Content-Type", contentType)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func (c *Client) fail(err *Error, quiet bool, requestID string) {
	meta := MetadataFor(err.Category)

	c.logger.Warn("api request failed",
		"method", err.Method,
		"path", err.Path,
		"status", err.Status,
		"category", string(err.Category),
		"requestID", requestID,
		"error", err.Err,
	)

	if meta.ForceLogout && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if !quiet {
		c.notices.Publish(notice.Notice{Level: notice.LevelError, Message: err.Message})
	}
}

// encode returns the request body and its content type
func (r Request) encode() (io.Reader, string, error) {
	if r.Multipart != nil {
		return r.Multipart.stream()
	}
	if r.Body == nil {
		return nil, "application/json", nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// stream writes the form through a pipe so large files never sit in memory
func (m *Multipart) stream() (io.Reader, string, error) {
	for _, f := range m.Files {
		if _, err := os.Stat(f.Path); err != nil {
			return nil, "", err
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(m.write(mw))
	}()

	return pr, mw.FormDataContentType(), nil
}

func (m *Multipart) write(mw *multipart.Writer) (err error) {
	defer func() {
		err = multierr.Append(err, mw.Close())
	}()

	for _, f := range m.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}

	for _, f := range m.Files {
		if err := writeFilePart(mw, f); err != nil {
			return err
		}
	}
	return nil
}

func writeFilePart(mw *multipart.Writer, f FilePart) (err error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	_, err = io.Copy(part, file)
	return err
}

// IsCanceled reports whether err is a caller cancellation rather than a failure
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
