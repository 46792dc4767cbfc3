package instagram

// Raw response shapes of the Instagram Graph API. Field names mirror the
// documented schema; the normalizer treats missing fields as zero values.

// Account is the business-account profile record.
type Account struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Username          string `json:"username"`
	FollowersCount    int64  `json:"followers_count"`
	FollowsCount      int64  `json:"follows_count"`
	MediaCount        int64  `json:"media_count"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// MediaInsights holds the per-item insight metrics when available.
type MediaInsights struct {
	Impressions int64 `json:"impressions"`
	Reach       int64 `json:"reach"`
	Engagement  int64 `json:"engagement"`
	Saved       int64 `json:"saved"`
	VideoViews  int64 `json:"video_views,omitempty"`
}

// Media is one published media item.
type Media struct {
	ID            string         `json:"id"`
	MediaType     string         `json:"media_type"` // IMAGE, VIDEO, CAROUSEL_ALBUM
	MediaURL      string         `json:"media_url"`
	Permalink     string         `json:"permalink"`
	Caption       string         `json:"caption,omitempty"`
	Timestamp     string         `json:"timestamp"` // ISO 8601
	LikeCount     int64          `json:"like_count"`
	CommentsCount int64          `json:"comments_count"`
	Insights      *MediaInsights `json:"insights,omitempty"`
}

// Insights holds the account-level insight metrics for the reporting period.
type Insights struct {
	Impressions   int64 `json:"impressions"`
	Reach         int64 `json:"reach"`
	ProfileViews  int64 `json:"profile_views"`
	WebsiteClicks int64 `json:"website_clicks"`
	FollowerCount int64 `json:"follower_count"`
}

// AccountData bundles everything one analytics run needs from Instagram.
type AccountData struct {
	Account  Account  `json:"account"`
	Media    []Media  `json:"media"`
	Insights Insights `json:"insights"`
}

// mediaList is the Graph API envelope for media collections.
type mediaList struct {
	Data []Media `json:"data"`
}

// pageList is the Graph API envelope for the /me/accounts response.
type pageList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// metricList is the Graph API envelope for /insights responses: a list of
// named metrics each carrying a series of values.
type metricList struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

// apiError is the Graph API error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}
