// Package instagram wraps the Instagram Graph API endpoints the dashboard
// reads from. The client is stateless; the caller supplies the user token on
// every call so fixtures can be substituted in tests.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	// DefaultBaseURL is the Graph API root.
	DefaultBaseURL = "https://graph.facebook.com"
	// APIVersion pins the Graph API version.
	APIVersion = "v18.0"

	mediaLimit      = "25"
	accountFields   = "id,name,username,followers_count,follows_count,media_count,profile_picture_url"
	mediaFields     = "id,media_type,media_url,permalink,caption,timestamp,like_count,comments_count"
	insightsMetrics = "impressions,reach,profile_views,website_clicks,follower_count"
)

// Client errors.
var (
	ErrNoPage            = errors.New("no connected Facebook page")
	ErrNoBusinessAccount = errors.New("no Instagram business account linked")
)

// Client calls the Instagram Graph API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Instagram Graph API client.
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
		logger:     logger.With("component", "instagram.client"),
	}
}

// AccountData fetches the account profile, recent media and account insights
// for the business account linked to the token's first Facebook page.
func (c *Client) AccountData(ctx context.Context, token string) (*AccountData, error) {
	igID, err := c.businessAccountID(ctx, token)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := c.get(ctx, token, "/"+igID, url.Values{"fields": {accountFields}}, &account); err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}

	var media mediaList
	params := url.Values{"fields": {mediaFields}, "limit": {mediaLimit}}
	if err := c.get(ctx, token, "/"+igID+"/media", params, &media); err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}

	insights, err := c.accountInsights(ctx, token, igID)
	if err != nil {
		return nil, fmt.Errorf("fetch insights: %w", err)
	}

	return &AccountData{
		Account:  account,
		Media:    media.Data,
		Insights: *insights,
	}, nil
}

// businessAccountID resolves the Instagram business account behind the
// token's first page.
func (c *Client) businessAccountID(ctx context.Context, token string) (string, error) {
	var pages pageList
	if err := c.get(ctx, token, "/me/accounts", nil, &pages); err != nil {
		return "", fmt.Errorf("fetch pages: %w", err)
	}
	if len(pages.Data) == 0 {
		return "", ErrNoPage
	}

	var link struct {
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	params := url.Values{"fields": {"instagram_business_account"}}
	if err := c.get(ctx, token, "/"+pages.Data[0].ID, params, &link); err != nil {
		return "", fmt.Errorf("resolve business account: %w", err)
	}
	if link.InstagramBusinessAccount == nil || link.InstagramBusinessAccount.ID == "" {
		return "", ErrNoBusinessAccount
	}
	return link.InstagramBusinessAccount.ID, nil
}

// accountInsights fetches account-level insights and folds the metric series
// into the flat Insights shape, taking the latest value of each series.
func (c *Client) accountInsights(ctx context.Context, token, igID string) (*Insights, error) {
	var metrics metricList
	params := url.Values{"metric": {insightsMetrics}, "period": {"day"}}
	if err := c.get(ctx, token, "/"+igID+"/insights", params, &metrics); err != nil {
		return nil, err
	}

	out := &Insights{}
	for _, m := range metrics.Data {
		if len(m.Values) == 0 {
			continue
		}
		latest := m.Values[len(m.Values)-1].Value
		switch m.Name {
		case "impressions":
			out.Impressions = latest
		case "reach":
			out.Reach = latest
		case "profile_views":
			out.ProfileViews = latest
		case "website_clicks":
			out.WebsiteClicks = latest
		case "follower_count":
			out.FollowerCount = latest
		}
	}
	return out, nil
}

// get performs one Graph API GET and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, token, path string, params url.Values, dst any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", token)

	endpoint := fmt.Sprintf("%s/%s%s?%s", c.baseURL, APIVersion, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("graph api %s: %s (code %d)", path, apiErr.Error.Message, apiErr.Error.Code)
		}
		return fmt.Errorf("graph api %s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
