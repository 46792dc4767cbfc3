// Package youtube wraps the YouTube Data API v3 endpoints used for channel
// analytics. Requests authenticate with the user's OAuth bearer token.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the Data API root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// recentVideoLimit bounds the search page for recent uploads.
const recentVideoLimit = 10

// Client calls the YouTube Data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a YouTube Data API client.
// An empty baseURL selects the production endpoint.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With("component", "youtube.client"),
	}
}

// ChannelData fetches channel statistics plus the most recent uploads with
// their per-video statistics.
func (c *Client) ChannelData(ctx context.Context, token, channelID string) (*ChannelData, error) {
	stats, err := c.channelStats(ctx, token, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetch channel stats: %w", err)
	}

	videos, err := c.recentVideos(ctx, token, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetch recent videos: %w", err)
	}

	return &ChannelData{Stats: *stats, Videos: videos}, nil
}

func (c *Client) channelStats(ctx context.Context, token, channelID string) (*ChannelStats, error) {
	var list channelListResponse
	params := url.Values{"part": {"statistics"}, "id": {channelID}}
	if err := c.get(ctx, token, "/channels", params, &list); err != nil {
		return nil, err
	}
	if len(list.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}

	s := list.Items[0].Statistics
	return &ChannelStats{
		ViewCount:       parseCount(s.ViewCount),
		SubscriberCount: parseCount(s.SubscriberCount),
		VideoCount:      parseCount(s.VideoCount),
	}, nil
}

func (c *Client) recentVideos(ctx context.Context, token, channelID string) ([]Video, error) {
	var search searchListResponse
	params := url.Values{
		"part":       {"snippet"},
		"channelId":  {channelID},
		"order":      {"date"},
		"maxResults": {strconv.Itoa(recentVideoLimit)},
	}
	if err := c.get(ctx, token, "/search", params, &search); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var details videoListResponse
	params = url.Values{"part": {"snippet,statistics"}, "id": {strings.Join(ids, ",")}}
	if err := c.get(ctx, token, "/videos", params, &details); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(details.Items))
	for _, item := range details.Items {
		videos = append(videos, Video{
			ID:           item.ID,
			Title:        item.Snippet.Title,
			PublishedAt:  item.Snippet.PublishedAt,
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
		})
	}
	return videos, nil
}

// get performs one Data API GET with bearer auth and decodes into dst.
func (c *Client) get(ctx context.Context, token, path string, params url.Values, dst any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("data api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("data api %s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseCount converts the Data API's string counters; malformed or missing
// values degrade to zero.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
