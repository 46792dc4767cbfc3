// Package model defines domain entities for the application.
package model

import "time"

// ContentKind is the format of a published post.
type ContentKind string

const (
	KindImage    ContentKind = "IMAGE"
	KindVideo    ContentKind = "VIDEO"
	KindCarousel ContentKind = "CAROUSEL_ALBUM"
)

// Kinds lists every content kind in the order analytics buckets are reported.
var Kinds = []ContentKind{KindImage, KindVideo, KindCarousel}

// Label returns the display form of the kind ("CAROUSEL_ALBUM" -> "CAROUSEL ALBUM").
func (k ContentKind) Label() string {
	out := make([]byte, len(k))
	for i := 0; i < len(k); i++ {
		if k[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = k[i]
		}
	}
	return string(out)
}

// PostMetric is one published item normalized to the platform-independent shape.
// Produced by the normalizer, consumed by the aggregator and the recommendation
// engine. Missing platform data is represented by zero values, never by errors.
type PostMetric struct {
	Timestamp  time.Time   `json:"timestamp"`
	Kind       ContentKind `json:"kind"`
	Likes      int64       `json:"likes"`
	Comments   int64       `json:"comments"`
	Engagement int64       `json:"engagement"` // likes + comments
	Reach      int64       `json:"reach"`      // 0 when the platform reports none
	Caption    string      `json:"caption,omitempty"`
}
