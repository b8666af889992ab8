package gateway

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recorder struct {
	mu      sync.Mutex
	notices []notice.Notice
}

func (r *recorder) Publish(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Message
	}
	return out
}

func newTestClient(t *testing.T, h http.HandlerFunc, token string) (*Client, *recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &recorder{}
	c := New(Options{
		BaseURL: srv.URL + "/api/",
		Tokens:  staticToken(token),
		Notices: rec,
	})
	return c, rec
}

func TestDoAttachesHeaders(t *testing.T) {
	var got http.Header
	var path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.RequestURI()
		_, _ = io.WriteString(w, `{"ok": true}`)
	}, "tok123")

	var out struct{ OK bool }
	err := c.Get(context.Background(), "/scout/search", map[string][]string{"name": {"ama"}}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "/api/scout/search?name=ama", path)
	assert.Equal(t, "Bearer tok123", got.Get("Authorization"))
	assert.Equal(t, "XMLHttpRequest", got.Get("X-Requested-With"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}, "")

	require.NoError(t, c.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"}, nil))
	assert.Empty(t, auth)
}

func TestDoSendsMultipartWithBoundary(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.webm")
	require.NoError(t, os.WriteFile(file, []byte("video-bytes"), 0o644))

	var (
		ctype  string
		fields = map[string]string{}
		fname  string
		fbody  string
	)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ctype = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		fh := r.MultipartForm.File["file"][0]
		fname = fh.Filename
		f, err := fh.Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fbody = string(b)
		_, _ = io.WriteString(w, `{"data": {"url": "/uploads/clip.webm"}}`)
	}, "tok")

	var out struct {
		Data struct{ URL string } `json:"data"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/player/upload",
		Multipart: &Multipart{
			Fields: []Field{{Name: "type", Value: "video"}, {Name: "description", Value: "goal"}},
			Files:  []FilePart{{Field: "file", FileName: "clip.webm", Path: file, ContentType: "video/webm"}},
		},
		Timeout: ExtendedTimeout,
	}, &out)
	require.NoError(t, err)

	mt, params, err := mime.ParseMediaType(ctype)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mt)
	assert.NotEmpty(t, params["boundary"])
	assert.Equal(t, map[string]string{"type": "video", "description": "goal"}, fields)
	assert.Equal(t, "clip.webm", fname)
	assert.Equal(t, "video-bytes", fbody)
	assert.Equal(t, "/uploads/clip.webm", out.Data.URL)
}

func TestDoMultipartMissingFile(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	}, "")

	err := c.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/player/upload",
		Multipart: &Multipart{Files: []FilePart{{Field: "file", Path: "/does/not/exist"}}},
	}, nil)
	require.Error(t, err)
	assert.Nil(t, As(err))
}

func TestDoClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category Category
		message  string
		sentinel error
	}{
		{"unauthorized", 401, `{"message": "jwt expired"}`, CategoryUnauthenticated, "Your session has expired. Please log in again.", domain.ErrUnauthorized},
		{"forbidden", 403, ``, CategoryForbidden, "You do not have permission to access this resource.", domain.ErrForbidden},
		{"server", 502, `{"message": "upstream"}`, CategoryServer, "Server error. Please try again later.", nil},
		{"validation body message", 400, `{"message": "Tryout name is required"}`, CategoryValidation, "Tryout name is required", domain.ErrValidation},
		{"validation error field", 422, `{"error": "Invalid date"}`, CategoryValidation, "Invalid date", domain.ErrValidation},
		{"string body", 409, `"Player already shortlisted"`, CategoryClient, "Player already shortlisted", nil},
		{"not found default", 404, ``, CategoryClient, "Resource not found.", domain.ErrNotFound},
		{"too many requests", 429, `{}`, CategoryClient, "Too many requests. Please try again later.", nil},
		{"unknown status", 418, ``, CategoryClient, "An error occurred (418). Please try again.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "tok")

			err := c.Get(context.Background(), "/anything", nil, nil)
			ge := As(err)
			require.NotNil(t, ge)
			assert.Equal(t, tt.status, ge.Status)
			assert.Equal(t, tt.category, ge.Category)
			assert.Equal(t, tt.message, ge.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, []string{tt.message}, rec.messages(), "exactly one notice per failure")
		})
	}
}

func TestUnauthorizedRunsLogoutHook(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "stale")

	calls := 0
	c.SetUnauthorizedHandler(func() { calls++ })

	err := c.Get(context.Background(), "/player/profile", nil, nil)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	rec := &recorder{}
	c := New(Options{BaseURL: base, Notices: rec})

	err := c.Get(context.Background(), "/notifications", nil, nil)
	require.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, []string{"Cannot connect to the server. Please check your internet connection."}, rec.messages())
	assert.False(t, c.Busy().Active())
}

func TestQuietRequestPublishesNothing(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "")

	err := c.Do(context.Background(), Request{Path: "/notifications/unread-count", Quiet: true}, nil)
	require.Error(t, err)
	assert.Empty(t, rec.messages())
}

func TestCallerCancellationIsNotReported(t *testing.T) {
	release := make(chan struct{})
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "")
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.Get(ctx, "/slow", nil, nil)
	require.True(t, errors.Is(err, context.Canceled))
	assert.True(t, IsCanceled(err))
	assert.Empty(t, rec.messages())
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "")
	defer close(release)

	err := c.Do(context.Background(), Request{Path: "/slow", Timeout: 30 * time.Millisecond}, nil)
	require.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Len(t, rec.messages(), 1)
}

func TestBusyTracksConcurrentRequests(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{}, 2)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-release
	}, "")

	var mu sync.Mutex
	var transitions []bool
	c.Busy().Subscribe(func(v bool) {
		mu.Lock()
		transitions = append(transitions, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Get(context.Background(), "/x", nil, nil)
		}()
	}
	<-arrived
	<-arrived
	assert.Equal(t, 2, c.Busy().Count())

	close(release)
	wg.Wait()

	assert.False(t, c.Busy().Active())
	mu.Lock()
	assert.Equal(t, []bool{true, false}, transitions)
	mu.Unlock()
}

func TestMessageFromBodySkipsHTML(t *testing.T) {
	assert.Equal(t, "Bad request. Please check your input.", MessageFromBody(400, []byte("<html>oops</html>")))
	assert.Equal(t, "plain text", MessageFromBody(400, []byte(" plain text ")))
	assert.True(t, strings.HasPrefix(MessageFromBody(499, nil), "An error occurred (499)"))
}
