package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cheshired/internal/datastore/redis_store"
	"cheshired/internal/models"

	"github.com/redis/go-redis/v9"
)

// TwitterFeed is the concrete SocialFeed over the Twitter v2 API. Responses
// are snapshotted in redis for a couple of minutes so a user hammering the
// verify button doesn't burn the API quota.
type TwitterFeed struct {
	*ServiceHTTP
	redisDB     redis.UniversalClient
	baseURL     string
	bearerToken string
}

func NewTwitterFeed(redisDB redis.UniversalClient, baseURL string, bearerToken string) (*TwitterFeed, error) {
	if baseURL == "" {
		baseURL = TWITTER_API_BASE_URL
	}

	return &TwitterFeed{&ServiceHTTP{}, redisDB, baseURL, bearerToken}, nil
}

type twitterUserResp struct {
	Data *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type twitterTimelineResp struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}

func (feed *TwitterFeed) RecentPosts(ctx context.Context, handle string, limit int) ([]models.SocialPost, error) {
	posts, err := redis_store.GetRecentPosts(ctx, feed.redisDB, handle)
	if err == nil {
		return posts, nil
	}
	if err != redis.Nil {
		return nil, err
	}

	user, err := feed.apiUserByUsername(ctx, handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []models.SocialPost{}, nil
	}

	posts, err = feed.apiUserTimeline(ctx, user.ID, handle, limit)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck
	redis_store.SetRecentPosts(ctx, feed.redisDB, handle, posts)
	return posts, nil
}

func (feed *TwitterFeed) apiUserByUsername(ctx context.Context, handle string) (*struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}, error,
) {
	resp, err := feed.httpClient(0).Get(
		fmt.Sprintf("%s/users/by/username/%s", feed.baseURL, url.PathEscape(handle)),
		feed.authHeader(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user %q: %v", ErrUpstreamUnavailable, handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch user %q: status %d", ErrUpstreamUnavailable, handle, resp.StatusCode)
	}

	var body twitterUserResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode user %q: %v", ErrUpstreamUnavailable, handle, err)
	}

	return body.Data, nil
}

func (feed *TwitterFeed) apiUserTimeline(ctx context.Context, userID string, handle string, limit int) ([]models.SocialPost, error) {
	if limit < 5 {
		limit = 5 // twitter v2 minimum for max_results
	}

	resp, err := feed.httpClient(0).Get(
		fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=created_at", feed.baseURL, userID, limit),
		feed.authHeader(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch timeline %q: %v", ErrUpstreamUnavailable, handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch timeline %q: status %d", ErrUpstreamUnavailable, handle, resp.StatusCode)
	}

	var body twitterTimelineResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode timeline %q: %v", ErrUpstreamUnavailable, handle, err)
	}

	posts := make([]models.SocialPost, 0, len(body.Data))
	for _, tweet := range body.Data {
		post := models.SocialPost{
			ID:     tweet.ID,
			Handle: handle,
			Text:   tweet.Text,
		}
		if createdAt, err := parseTwitterTime(tweet.CreatedAt); err == nil {
			post.CreatedAt = createdAt
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func parseTwitterTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func (feed *TwitterFeed) authHeader() http.Header {
	header := http.Header{}
	if feed.bearerToken != "" {
		header.Set("Authorization", "Bearer "+feed.bearerToken)
	}
	return header
}
