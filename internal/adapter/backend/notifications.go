package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
)

// List returns a page of notifications
func (c *Client) List(ctx context.Context, page, limit int) (*domain.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var res domain.NotificationPage
	if err := c.gw.Get(ctx, "/notifications", query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UnreadCount returns the number of unread notifications. It is polled in
// the background, so failures do not raise a notice.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var res unreadResponse
	err := c.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/notifications/unread-count",
		Quiet:  true,
	}, &res)
	if err != nil {
		return 0, err
	}
	return res.UnreadCount, nil
}

// MarkRead marks one notification read
func (c *Client) MarkRead(ctx context.Context, id domain.ID) error {
	return c.gw.Put(ctx, "/notifications/"+segment(id)+"/read", struct{}{}, nil)
}

// MarkAllRead marks every notification read
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.gw.Put(ctx, "/notifications/read-all", struct{}{}, nil)
}

// Delete removes a notification
func (c *Client) Delete(ctx context.Context, id domain.ID) error {
	return c.gw.Delete(ctx, "/notifications/"+segment(id), nil)
}
