package youtube

// ChannelStats is the channel-level statistics record. The Data API reports
// these counters as strings; the client converts them on decode.
type ChannelStats struct {
	ViewCount       int64 `json:"viewCount"`
	SubscriberCount int64 `json:"subscriberCount"`
	VideoCount      int64 `json:"videoCount"`
}

// Video is one recent upload with its statistics.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	PublishedAt  string `json:"publishedAt"` // ISO 8601
	ViewCount    int64  `json:"viewCount"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
}

// ChannelData bundles everything one analytics run needs from YouTube.
type ChannelData struct {
	Stats  ChannelStats `json:"stats"`
	Videos []Video      `json:"videos"`
}

// Wire shapes of the Data API v3 responses.

type channelListResponse struct {
	Items []struct {
		Statistics struct {
			ViewCount       string `json:"viewCount"`
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}
