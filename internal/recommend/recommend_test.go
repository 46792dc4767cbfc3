package recommend

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
)

func postAt(hour int, kind model.ContentKind, caption string, engagement int64) model.PostMetric {
	// 2024-01-01 is a Monday.
	return model.PostMetric{
		Timestamp:  time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC),
		Kind:       kind,
		Engagement: engagement,
		Caption:    caption,
	}
}

func TestBuild_AlwaysSevenDays(t *testing.T) {
	t.Parallel()

	plan := Build(nil, model.AnalyticsSummary{})

	if len(plan.ContentSuggestions) != 7 {
		t.Fatalf("got %d suggestions, want 7", len(plan.ContentSuggestions))
	}
	wantDays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, s := range plan.ContentSuggestions {
		if s.Day != wantDays[i] {
			t.Errorf("day %d = %s, want %s", i, s.Day, wantDays[i])
		}
	}
}

func TestBuild_EmptyInputDefaults(t *testing.T) {
	t.Parallel()

	plan := Build(nil, model.AnalyticsSummary{})

	if len(plan.RecommendedPostingTimes) != 0 {
		t.Errorf("RecommendedPostingTimes = %v, want empty", plan.RecommendedPostingTimes)
	}
	if len(plan.SuggestedHashtags) != 0 {
		t.Errorf("SuggestedHashtags = %v, want empty", plan.SuggestedHashtags)
	}
	if len(plan.AudienceInsights.EngagementPatterns) != 0 {
		t.Errorf("EngagementPatterns = %v, want empty", plan.AudienceInsights.EngagementPatterns)
	}

	for _, s := range plan.ContentSuggestions {
		if s.Time != "6:00 PM" {
			t.Errorf("%s time = %q, want default", s.Day, s.Time)
		}
		if s.Type != "Post" {
			t.Errorf("%s type = %q, want default", s.Day, s.Type)
		}
		if len(s.Hashtags) != 0 {
			t.Errorf("%s hashtags = %v, want empty", s.Day, s.Hashtags)
		}
		if s.Topic == "" {
			t.Errorf("%s has no topic", s.Day)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(9, model.KindImage, "#go #dev", 10),
		postAt(18, model.KindVideo, "#go", 30),
		postAt(18, model.KindVideo, "#release", 20),
	}

	first := Build(items, model.AnalyticsSummary{})
	second := Build(items, model.AnalyticsSummary{})

	if !reflect.DeepEqual(first, second) {
		t.Error("same input should produce identical plans")
	}
}

func TestRankPostingTimes(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(9, model.KindImage, "", 0),
		postAt(18, model.KindImage, "", 0),
		postAt(18, model.KindImage, "", 0),
		postAt(21, model.KindImage, "", 0),
		postAt(21, model.KindImage, "", 0),
		postAt(21, model.KindImage, "", 0),
		postAt(7, model.KindImage, "", 0),
	}

	got := rankPostingTimes(items)
	want := []string{"21:00", "18:00", "9:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rankPostingTimes = %v, want %v", got, want)
	}
}

func TestRankPostingTimes_TieKeepsFirstSeen(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(14, model.KindImage, "", 0),
		postAt(8, model.KindImage, "", 0),
		postAt(20, model.KindImage, "", 0),
	}

	got := rankPostingTimes(items)
	want := []string{"14:00", "8:00", "20:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tied ranking = %v, want first-seen order %v", got, want)
	}
}

func TestRankContentTypes(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(9, model.KindCarousel, "", 0),
		postAt(9, model.KindVideo, "", 0),
		postAt(9, model.KindVideo, "", 0),
		postAt(9, model.KindImage, "", 0),
	}

	got := rankContentTypes(items)
	want := []string{"VIDEO", "CAROUSEL ALBUM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rankContentTypes = %v, want %v", got, want)
	}
}

func TestRankHashtags(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(9, model.KindImage, "new drop #fashion #style #fashion", 0),
		postAt(9, model.KindImage, "no tags here", 0),
		postAt(9, model.KindImage, "#style, and #summer_2024!", 0),
		postAt(9, model.KindImage, "", 0),
	}

	got := rankHashtags(items)
	want := []string{"#fashion", "#style", "#summer_2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rankHashtags = %v, want %v", got, want)
	}
}

func TestBuild_SuggestionCycling(t *testing.T) {
	t.Parallel()

	items := []model.PostMetric{
		postAt(18, model.KindVideo, "", 0),
		postAt(18, model.KindVideo, "", 0),
		postAt(9, model.KindImage, "", 0),
	}

	plan := Build(items, model.AnalyticsSummary{})

	// Two ranked times alternate across the seven days.
	wantTimes := []string{"18:00", "9:00", "18:00", "9:00", "18:00", "9:00", "18:00"}
	wantTypes := []string{"VIDEO", "IMAGE", "VIDEO", "IMAGE", "VIDEO", "IMAGE", "VIDEO"}
	for i, s := range plan.ContentSuggestions {
		if s.Time != wantTimes[i] {
			t.Errorf("day %d time = %q, want %q", i, s.Time, wantTimes[i])
		}
		if s.Type != wantTypes[i] {
			t.Errorf("day %d type = %q, want %q", i, s.Type, wantTypes[i])
		}
	}
}

func TestBuild_HashtagSlices(t *testing.T) {
	t.Parallel()

	var items []model.PostMetric
	// Seven distinct tags with descending frequency so the ranking is fixed.
	for i := 0; i < 7; i++ {
		tag := fmt.Sprintf("#tag%d", i)
		for n := 0; n <= 7-i; n++ {
			items = append(items, postAt(9, model.KindImage, tag, 0))
		}
	}

	plan := Build(items, model.AnalyticsSummary{})

	s := plan.ContentSuggestions
	if want := []string{"#tag0", "#tag1", "#tag2"}; !reflect.DeepEqual(s[0].Hashtags, want) {
		t.Errorf("day 0 hashtags = %v, want %v", s[0].Hashtags, want)
	}
	if want := []string{"#tag3", "#tag4", "#tag5"}; !reflect.DeepEqual(s[1].Hashtags, want) {
		t.Errorf("day 1 hashtags = %v, want %v", s[1].Hashtags, want)
	}
	// Only one tag left for day 2, then nothing.
	if want := []string{"#tag6"}; !reflect.DeepEqual(s[2].Hashtags, want) {
		t.Errorf("day 2 hashtags = %v, want %v", s[2].Hashtags, want)
	}
	for i := 3; i < 7; i++ {
		if len(s[i].Hashtags) != 0 {
			t.Errorf("day %d hashtags = %v, want empty", i, s[i].Hashtags)
		}
	}
}

func TestEngagementPatterns(t *testing.T) {
	t.Parallel()

	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	items := []model.PostMetric{
		{Timestamp: monday, Engagement: 10},
		{Timestamp: friday, Engagement: 50},
		{Timestamp: monday, Engagement: 5},
	}

	got := engagementPatterns(items)
	want := []string{"Highest engagement on Friday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("engagementPatterns = %v, want %v", got, want)
	}
}

func TestCounter_Top(t *testing.T) {
	t.Parallel()

	var c counter
	c.add("b", 1)
	c.add("a", 1)
	c.add("a", 1)
	c.add("c", 1)

	if got, want := c.top(2), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top(2) = %v, want %v", got, want)
	}
	if got, want := c.top(10), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top(10) = %v, want %v", got, want)
	}
	if got := c.top(0); len(got) != 0 {
		t.Errorf("top(0) = %v, want empty", got)
	}
}
