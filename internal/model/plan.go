package model

// ContentSuggestion is one entry of the seven-day posting plan.
type ContentSuggestion struct {
	Day       string   `json:"day"` // "Monday".."Sunday"
	Time      string   `json:"time"`
	Type      string   `json:"type"`
	Topic     string   `json:"topic"`
	Hashtags  []string `json:"hashtags"` // at most 3, may be empty
	Reasoning string   `json:"reasoning"`
}

// AudienceInsights reflects the ranked findings back as audience-facing notes.
type AudienceInsights struct {
	PeakActivityHours     []string `json:"peakActivityHours"`
	PreferredContentTypes []string `json:"preferredContentTypes"`
	EngagementPatterns    []string `json:"engagementPatterns"`
}

// RecommendationPlan is the structured content plan produced by the local
// recommendation engine and optionally patched by the augmentation adapter.
// The plan is a value object; augmentation produces a new plan with only
// ContentSuggestions replaced.
type RecommendationPlan struct {
	RecommendedPostingTimes   []string            `json:"recommendedPostingTimes"`   // up to 3, "H:00"
	TopPerformingContentTypes []string            `json:"topPerformingContentTypes"` // up to 2
	SuggestedHashtags         []string            `json:"suggestedHashtags"`         // up to 10
	AudienceInsights          AudienceInsights    `json:"audienceInsights"`
	ContentSuggestions        []ContentSuggestion `json:"contentSuggestions"` // exactly 7
}

// WithSuggestions returns a copy of the plan with ContentSuggestions replaced.
// The receiver is not mutated.
func (p RecommendationPlan) WithSuggestions(suggestions []ContentSuggestion) RecommendationPlan {
	out := p
	out.ContentSuggestions = suggestions
	return out
}
