package model

import "time"

// OAuthToken holds a provider access token as returned by the token endpoint.
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	ObtainedAt   time.Time `json:"obtained_at"`
}

// Session stores the per-browser platform connections, keyed by the sid cookie.
type Session struct {
	ID        string      `json:"id"`
	Google    *OAuthToken `json:"google,omitempty"`
	Instagram *OAuthToken `json:"instagram,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// GoogleConnected reports whether a usable Google (YouTube) token is present.
func (s *Session) GoogleConnected() bool {
	return s != nil && s.Google != nil && s.Google.AccessToken != ""
}

// InstagramConnected reports whether a usable Instagram token is present.
func (s *Session) InstagramConnected() bool {
	return s != nil && s.Instagram != nil && s.Instagram.AccessToken != ""
}

// ConnectedPlatforms returns the labels of connected platforms in fixed order.
func (s *Session) ConnectedPlatforms() []string {
	var out []string
	if s.InstagramConnected() {
		out = append(out, "instagram")
	}
	if s.GoogleConnected() {
		out = append(out, "youtube")
	}
	return out
}
