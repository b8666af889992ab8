package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pharaohs/pitchside/internal/domain"
)

// GetFeed returns a page of players with their posts
func (c *Client) GetFeed(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if q.Club != "" {
		query.Set("club", q.Club)
	}
	if q.Position != "" {
		query.Set("position", q.Position)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.MinRating > 0 {
		query.Set("minRating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}

	var feed domain.FeedPage
	if err := c.gw.Get(ctx, "/player/all", query, &feed); err != nil {
		return nil, err
	}
	c.resolvePlayers(feed.Players)
	return &feed, nil
}

// GetLikes returns like info for every post
func (c *Client) GetLikes(ctx context.Context) ([]domain.LikeInfo, error) {
	var likes []domain.LikeInfo
	if err := c.gw.Get(ctx, "/player/videos/likes", nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// Like adds the current user's like to a post
func (c *Client) Like(ctx context.Context, videoID domain.ID) (*int, error) {
	var res likeResponse
	if err := c.gw.Post(ctx, "/player/videos/like", likeRequest{VideoID: videoID}, &res); err != nil {
		return nil, err
	}
	return res.LikeCount, nil
}

// Unlike removes the current user's like from a post
func (c *Client) Unlike(ctx context.Context, videoID domain.ID) (*int, error) {
	var res likeResponse
	if err := c.gw.Delete(ctx, "/player/videos/like/"+segment(videoID), &res); err != nil {
		return nil, err
	}
	return res.LikeCount, nil
}

// GetComments returns the comments on a post
func (c *Client) GetComments(ctx context.Context, videoID domain.ID) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := c.gw.Get(ctx, "/player/videos/comment/"+segment(videoID), nil, &comments); err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].VideoID = videoID
	}
	return comments, nil
}

// AddComment posts a comment
func (c *Client) AddComment(ctx context.Context, videoID domain.ID, content string) error {
	return c.gw.Post(ctx, "/player/videos/comment", commentRequest{VideoID: videoID, Content: content}, nil)
}

// DeleteComment removes a comment; admins use the same route
func (c *Client) DeleteComment(ctx context.Context, commentID domain.ID) error {
	return c.gw.Delete(ctx, "/player/videos/comment/"+segment(commentID), nil)
}

// DeleteVideo removes one of the caller's posts
func (c *Client) DeleteVideo(ctx context.Context, videoID domain.ID) error {
	return c.gw.Delete(ctx, "/player/videos/"+segment(videoID), nil)
}

// UpdateVideo edits a post description
func (c *Client) UpdateVideo(ctx context.Context, videoID domain.ID, description string) error {
	return c.gw.Put(ctx, "/player/videos/"+segment(videoID), descriptionRequest{Description: description}, nil)
}
