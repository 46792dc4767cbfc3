// Package recommend builds the deterministic seven-day content plan from
// normalized analytics. The engine is rule-based, never calls out, and never
// fails: empty input yields a plan built entirely from defaults.
package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pulseboard/pulseboard/internal/model"
)

const (
	// defaultTime is used when no posting-hour ranking exists.
	defaultTime = "6:00 PM"
	// defaultType is used when no content-kind ranking exists.
	defaultType = "Post"

	maxPostingTimes = 3
	maxContentTypes = 2
	maxHashtags     = 10
	hashtagsPerDay  = 3
)

// planDays orders the suggestion entries; there is always one per day.
var planDays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// topicPool cycles through the week by day index.
var topicPool = [7]string{
	"Behind-the-scenes content",
	"Tips & tricks in your niche",
	"Trending challenge or meme",
	"Community engagement question",
	"Educational content",
	"Personal story",
	"Product showcase",
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// Build derives the recommendation plan from the item list and its aggregate
// summary. All rankings use frequency with a stable first-encountered
// tie-break over the item scan order.
func Build(items []model.PostMetric, summary model.AnalyticsSummary) model.RecommendationPlan {
	times := rankPostingTimes(items)
	types := rankContentTypes(items)
	hashtags := rankHashtags(items)

	return model.RecommendationPlan{
		RecommendedPostingTimes:   times,
		TopPerformingContentTypes: types,
		SuggestedHashtags:         hashtags,
		AudienceInsights: model.AudienceInsights{
			PeakActivityHours:     times,
			PreferredContentTypes: types,
			EngagementPatterns:    engagementPatterns(items),
		},
		ContentSuggestions: buildSuggestions(times, types, hashtags),
	}
}

// rankPostingTimes returns the most frequent posting hours as "H:00" strings.
func rankPostingTimes(items []model.PostMetric) []string {
	var c counter
	for _, item := range items {
		c.add(strconv.Itoa(item.Timestamp.UTC().Hour())+":00", 1)
	}
	return c.top(maxPostingTimes)
}

// rankContentTypes returns the most frequent content kinds by display label.
func rankContentTypes(items []model.PostMetric) []string {
	var c counter
	for _, item := range items {
		c.add(item.Kind.Label(), 1)
	}
	return c.top(maxContentTypes)
}

// rankHashtags counts every hashtag occurrence across all captions. Case is
// preserved and repeats within one caption each count.
func rankHashtags(items []model.PostMetric) []string {
	var c counter
	for _, item := range items {
		if item.Caption == "" {
			continue
		}
		for _, tag := range hashtagPattern.FindAllString(item.Caption, -1) {
			c.add(tag, 1)
		}
	}
	return c.top(maxHashtags)
}

// engagementPatterns names the weekday with the highest summed engagement.
// Empty input produces no observations.
func engagementPatterns(items []model.PostMetric) []string {
	var c counter
	for _, item := range items {
		c.add(item.Timestamp.UTC().Weekday().String(), item.Engagement)
	}
	best := c.top(1)
	if len(best) == 0 {
		return nil
	}
	return []string{"Highest engagement on " + best[0]}
}

// buildSuggestions fills the seven plan days purely by index: time and type
// cycle through the ranked lists, the topic pool cycles by day, and each day
// takes the next contiguous three-hashtag slice of the ranking.
func buildSuggestions(times, types, hashtags []string) []model.ContentSuggestion {
	suggestions := make([]model.ContentSuggestion, len(planDays))
	for i, day := range planDays {
		t := defaultTime
		if len(times) > 0 {
			t = times[i%len(times)]
		}
		kind := defaultType
		if len(types) > 0 {
			kind = types[i%len(types)]
		}

		suggestions[i] = model.ContentSuggestion{
			Day:       day,
			Time:      t,
			Type:      kind,
			Topic:     topicPool[i%len(topicPool)],
			Hashtags:  hashtagSlice(hashtags, i),
			Reasoning: "Based on your " + strings.ToLower(kind) + " performance and audience engagement patterns",
		}
	}
	return suggestions
}

// hashtagSlice returns ranked[3i:3i+3] clamped to the list bounds; days past
// the end of the ranking get an empty slice.
func hashtagSlice(hashtags []string, day int) []string {
	start := day * hashtagsPerDay
	if start >= len(hashtags) {
		return []string{}
	}
	end := start + hashtagsPerDay
	if end > len(hashtags) {
		end = len(hashtags)
	}
	return hashtags[start:end]
}
