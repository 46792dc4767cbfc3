// Package auth builds provider authorize URLs and exchanges authorization
// codes for access tokens. Two flows exist: Google (YouTube readonly scope)
// and Facebook (Instagram business scopes), the latter with a second exchange
// that upgrades the short-lived token to a long-lived one.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	googleScope    = "https://www.googleapis.com/auth/youtube.readonly openid email profile"

	facebookAuthURL  = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookTokenURL = "https://graph.facebook.com/v18.0/oauth/access_token"
	facebookScope    = "public_profile,email,instagram_basic,instagram_manage_insights,pages_show_list"
)

// Config holds one provider's app credentials and callback target.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// HTTPClient is the subset of http.Client the flows need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoogleFlow implements the Google authorization-code flow.
type GoogleFlow struct {
	cfg        Config
	httpClient HTTPClient
}

// NewGoogleFlow creates a Google flow. A nil client selects http.DefaultClient.
func NewGoogleFlow(cfg Config, client HTTPClient) *GoogleFlow {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleFlow{cfg: cfg, httpClient: client}
}

// AuthCodeURL builds the consent-screen redirect target. The state value
// round-trips the caller's session ID through the provider.
func (f *GoogleFlow) AuthCodeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("redirect_uri", f.cfg.RedirectURL)
	params.Set("response_type", "code")
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("scope", googleScope)
	params.Set("state", state)
	params.Set("include_granted_scopes", "true")
	return googleAuthURL + "?" + params.Encode()
}

// Exchange trades the authorization code for an access token.
func (f *GoogleFlow) Exchange(ctx context.Context, code string) (*model.OAuthToken, error) {
	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", f.cfg.ClientID)
	data.Set("client_secret", f.cfg.ClientSecret)
	data.Set("redirect_uri", f.cfg.RedirectURL)
	data.Set("grant_type", "authorization_code")

	return postForm(ctx, f.httpClient, googleTokenURL, data)
}

// FacebookFlow implements the Facebook authorization-code flow used for
// Instagram business accounts.
type FacebookFlow struct {
	cfg        Config
	httpClient HTTPClient
}

// NewFacebookFlow creates a Facebook flow. A nil client selects
// http.DefaultClient.
func NewFacebookFlow(cfg Config, client HTTPClient) *FacebookFlow {
	if client == nil {
		client = http.DefaultClient
	}
	return &FacebookFlow{cfg: cfg, httpClient: client}
}

// AuthCodeURL builds the consent-screen redirect target.
func (f *FacebookFlow) AuthCodeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("redirect_uri", f.cfg.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", facebookScope)
	params.Set("state", state)
	return facebookAuthURL + "?" + params.Encode()
}

// Exchange trades the authorization code for a short-lived token, then
// upgrades it to a long-lived one with a fb_exchange_token request. The
// long-lived token is what gets stored.
func (f *FacebookFlow) Exchange(ctx context.Context, code string) (*model.OAuthToken, error) {
	data := url.Values{}
	data.Set("code", code)
	data.Set("client_id", f.cfg.ClientID)
	data.Set("client_secret", f.cfg.ClientSecret)
	data.Set("redirect_uri", f.cfg.RedirectURL)

	short, err := getToken(ctx, f.httpClient, facebookTokenURL+"?"+data.Encode())
	if err != nil {
		return nil, fmt.Errorf("short-lived exchange: %w", err)
	}

	ex := url.Values{}
	ex.Set("grant_type", "fb_exchange_token")
	ex.Set("client_id", f.cfg.ClientID)
	ex.Set("client_secret", f.cfg.ClientSecret)
	ex.Set("fb_exchange_token", short.AccessToken)

	long, err := getToken(ctx, f.httpClient, facebookTokenURL+"?"+ex.Encode())
	if err != nil {
		return nil, fmt.Errorf("long-lived exchange: %w", err)
	}
	return long, nil
}

// postForm sends a form-encoded token request and decodes the token response.
func postForm(ctx context.Context, client HTTPClient, endpoint string, data url.Values) (*model.OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doToken(client, req)
}

// getToken sends a GET token request (the Graph API token endpoint takes
// query parameters) and decodes the token response.
func getToken(ctx context.Context, client HTTPClient, endpoint string) (*model.OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return doToken(client, req)
}

func doToken(client HTTPClient, req *http.Request) (*model.OAuthToken, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}

	var token model.OAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}
	token.ObtainedAt = time.Now().UTC()
	return &token, nil
}
