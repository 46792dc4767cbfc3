// Package analytics converts raw platform payloads into the normalized
// analytics summary. Normalization and aggregation are pure transformations:
// malformed input degrades to zero values and neither stage can fail.
package analytics

import (
	"time"

	"github.com/pulseboard/pulseboard/internal/instagram"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/youtube"
)

// NormalizeInstagram converts Graph API media items into uniform per-item
// records. Missing insights contribute zero reach; an unparseable timestamp
// yields the zero time, which still buckets deterministically.
func NormalizeInstagram(media []instagram.Media) []model.PostMetric {
	items := make([]model.PostMetric, 0, len(media))
	for _, m := range media {
		item := model.PostMetric{
			Timestamp:  parseTimestamp(m.Timestamp),
			Kind:       normalizeKind(m.MediaType),
			Likes:      m.LikeCount,
			Comments:   m.CommentsCount,
			Engagement: m.LikeCount + m.CommentsCount,
			Caption:    m.Caption,
		}
		if m.Insights != nil {
			item.Reach = m.Insights.Reach
		}
		items = append(items, item)
	}
	return items
}

// NormalizeYouTube converts recent uploads into uniform per-item records.
// Every video is KindVideo; view count stands in for reach and the title for
// the caption (hashtags in titles are common on YouTube).
func NormalizeYouTube(videos []youtube.Video) []model.PostMetric {
	items := make([]model.PostMetric, 0, len(videos))
	for _, v := range videos {
		items = append(items, model.PostMetric{
			Timestamp:  parseTimestamp(v.PublishedAt),
			Kind:       model.KindVideo,
			Likes:      v.LikeCount,
			Comments:   v.CommentCount,
			Engagement: v.LikeCount + v.CommentCount,
			Reach:      v.ViewCount,
			Caption:    v.Title,
		})
	}
	return items
}

// parseTimestamp reads an ISO 8601 timestamp and converts it to UTC, the
// fixed zone for all bucketing. Instagram emits "+0000" offsets, YouTube
// RFC 3339; both are accepted. Failures yield the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// normalizeKind maps the platform media type onto a known kind; anything
// unrecognized counts as an image.
func normalizeKind(mediaType string) model.ContentKind {
	switch model.ContentKind(mediaType) {
	case model.KindVideo:
		return model.KindVideo
	case model.KindCarousel:
		return model.KindCarousel
	default:
		return model.KindImage
	}
}
