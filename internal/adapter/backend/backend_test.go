package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noticeLog struct {
	mu  sync.Mutex
	all []notice.Notice
}

func (l *noticeLog) Publish(n notice.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, n)
}

func (l *noticeLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.all)
}

func newTestBackend(t *testing.T, mux *http.ServeMux) (*Client, *noticeLog, string) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	notices := &noticeLog{}
	gw := gateway.New(gateway.Options{BaseURL: srv.URL + "/api", Notices: notices})
	return NewClient(gw, "", nil), notices, srv.URL
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestResolveMediaURL(t *testing.T) {
	gw := gateway.New(gateway.Options{BaseURL: "http://api.local/api/"})

	c := NewClient(gw, "", nil)
	assert.Equal(t, "http://api.local/uploads/a.mp4", c.ResolveMediaURL("/uploads/a.mp4"))
	assert.Equal(t, "http://api.local/uploads/a.mp4", c.ResolveMediaURL("uploads/a.mp4"))
	assert.Equal(t, "https://cdn.example/x.jpg", c.ResolveMediaURL("https://cdn.example/x.jpg"))
	assert.Equal(t, "", c.ResolveMediaURL(""))

	media := NewClient(gw, "http://media.local/", nil)
	assert.Equal(t, "http://media.local/uploads/a.mp4", media.ResolveMediaURL("/uploads/a.mp4"))

	local := NewClient(gateway.New(gateway.Options{BaseURL: "http://localhost:3000/api"}), "", nil)
	assert.Equal(t, "http://localhost:3000/uploads/videos/a.mp4", local.ResolveMediaURL("/uploads/videos/a.mp4"))
}

func TestGetFeedBuildsQueryAndResolvesMedia(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/player/all", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "Hearts", q.Get("club"))
		assert.Equal(t, "3.5", q.Get("minRating"))
		assert.False(t, q.Has("position"))

		writeJSON(w, map[string]any{
			"players": []map[string]any{{
				"id":   4,
				"name": "Kwame",
				"videos": []map[string]any{
					{"id": 10, "url": "/uploads/goal.webm"},
					{"id": 11, "url": "https://cdn.example/pic.jpg", "type": "image"},
				},
			}},
			"pagination": map[string]int{"total": 21, "page": 2, "limit": 20, "totalPages": 2},
		})
	})

	c, _, base := newTestBackend(t, mux)
	feed, err := c.GetFeed(context.Background(), domain.FeedQuery{Page: 2, Club: "Hearts", MinRating: 3.5})
	require.NoError(t, err)

	require.Len(t, feed.Players, 1)
	p := feed.Players[0]
	assert.Equal(t, domain.ID("4"), p.ID)
	require.Len(t, p.Videos, 2)
	assert.Equal(t, base+"/uploads/goal.webm", p.Videos[0].URL)
	assert.Equal(t, domain.MediaTypeVideo, p.Videos[0].Type)
	assert.Equal(t, "https://cdn.example/pic.jpg", p.Videos[1].URL)
	assert.Equal(t, 2, feed.Pagination.TotalPages)
}

func TestLikeReturnsOptionalCount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/player/videos/like", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["videoId"])
		writeJSON(w, map[string]any{"message": "liked", "likeCount": 3})
	})
	mux.HandleFunc("DELETE /api/player/videos/like/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"message": "unliked"})
	})

	c, _, _ := newTestBackend(t, mux)

	count, err := c.Like(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, count)
	assert.Equal(t, 3, *count)

	count, err = c.Unlike(context.Background(), "7")
	require.NoError(t, err)
	assert.Nil(t, count)
}

func TestGetLikesAcceptsNumericFlag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/player/videos/likes", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"video_id": 1, "likeCount": 4, "likedByUser": 1}, {"video_id": "2", "likeCount": 0, "likedByUser": 0}]`)
	})

	c, _, _ := newTestBackend(t, mux)
	likes, err := c.GetLikes(context.Background())
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.True(t, likes[0].LikedByUser)
	assert.Equal(t, domain.ID("2"), likes[1].VideoID)
	assert.False(t, likes[1].LikedByUser)
}

func TestCommentsCarryVideoID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/player/videos/comment/9", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 1, "user_id": 5, "content": "great", "user_name": "Esi"}]`)
	})
	mux.HandleFunc("POST /api/player/videos/comment", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nice", body["content"])
		writeJSON(w, map[string]string{"message": "ok"})
	})

	c, _, _ := newTestBackend(t, mux)
	comments, err := c.GetComments(context.Background(), "9")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.ID("9"), comments[0].VideoID)
	assert.Equal(t, "Esi", comments[0].CommenterName)

	require.NoError(t, c.AddComment(context.Background(), "9", "nice"))
}

func TestInviteSendsSnakeCaseBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scout/invite", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["tryout_id"])
		assert.Equal(t, float64(3), body["player_id"])
		io.WriteString(w, `{"invitation_id": 44, "status": "pending"}`)
	})

	c, _, _ := newTestBackend(t, mux)
	inv, err := c.Scout().Invite(context.Background(), domain.InvitationSlot{TryoutID: "2", PlayerID: "3"})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("44"), inv.ID)
	assert.Equal(t, domain.ID("2"), inv.TryoutID)
	assert.Equal(t, domain.ID("3"), inv.PlayerID)
	assert.Equal(t, domain.InvitationPending, inv.Status)
}

func TestUploadSendsMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.webm")
	require.NoError(t, os.WriteFile(path, []byte("webm-bytes"), 0o644))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/player/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "video", r.FormValue("type"))
		assert.Equal(t, "first touch", r.FormValue("description"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "clip.webm", hdr.Filename)
		assert.Equal(t, "video/webm", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, "webm-bytes", string(data))

		writeJSON(w, map[string]any{"message": "ok", "data": map[string]string{"url": "/uploads/clip.webm"}})
	})

	c, _, base := newTestBackend(t, mux)
	asset := &domain.MediaAsset{Kind: domain.MediaVideo, Name: "clip.webm", Path: path, MimeType: "video/webm"}
	url, err := c.Player().Upload(context.Background(), domain.UploadRequest{Asset: asset, Description: "first touch"})
	require.NoError(t, err)
	assert.Equal(t, base+"/uploads/clip.webm", url)
}

func TestUnreadCountIsQuiet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, notices, _ := newTestBackend(t, mux)

	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, gateway.StatusOf(err))
	assert.Equal(t, 0, notices.count())

	_, err = c.List(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, 1, notices.count())
}

func TestAdminLocationIsPathEscaped(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/admin/locations/{location}", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.PathValue("location")
		writeJSON(w, map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("POST /api/admin/users/{id}/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "ok", "tempPassword": "x1y2z3"})
	})

	c, _, _ := newTestBackend(t, mux)
	require.NoError(t, c.Admin().DeleteLocation(context.Background(), "Accra Sports Stadium"))
	assert.Equal(t, "Accra Sports Stadium", gotPath)

	pw, err := c.Admin().ResetPassword(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "x1y2z3", pw)
}

func TestSearchQuery(t *testing.T) {
	q := searchQuery(domain.SearchFilters{Name: "ab", MinAge: 16, HasVideos: true, SortOrder: "desc", Limit: 10})
	assert.Equal(t, "ab", q.Get("name"))
	assert.Equal(t, "16", q.Get("minAge"))
	assert.Equal(t, "true", q.Get("hasVideos"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.False(t, q.Has("offset"))
	assert.False(t, q.Has("maxAge"))
}
