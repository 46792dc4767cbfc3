package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/pulseboard/pulseboard/internal/model"
)

// Baseline carries the account-level figures the growth rates are computed
// against. A zero baseline defines the corresponding growth as 0.
type Baseline struct {
	// Followers is the follower/subscriber count backing reach growth.
	Followers int64
	// Reach is the platform-reported account reach; 0 when the platform
	// provides none.
	Reach int64
}

// timeSlot is one of the four fixed day segments. Night wraps past midnight.
type timeSlot struct {
	name       string
	start, end int // [start, end) in hours; start > end means wrap-around
}

var timeSlots = [4]timeSlot{
	{"Morning", 6, 12},
	{"Afternoon", 12, 18},
	{"Evening", 18, 22},
	{"Night", 22, 6},
}

// weekdayLabels orders buckets Monday-first, matching the weekly report.
var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Aggregate folds normalized items into the fixed-bucket analytics summary.
// It is deterministic for a given input and cannot fail: empty input produces
// a summary of zero-valued buckets. All hour/weekday bucketing uses UTC.
func Aggregate(items []model.PostMetric, base Baseline) model.AnalyticsSummary {
	var totalEngagement, totalLikes int64
	for _, item := range items {
		totalEngagement += item.Engagement
		totalLikes += item.Likes
	}

	rate := 0.0
	if base.Reach > 0 {
		rate = round2(float64(totalEngagement) / float64(base.Reach) * 100)
	}

	return model.AnalyticsSummary{
		TotalEngagement:    totalEngagement,
		TotalReach:         base.Reach,
		TotalLikes:         totalLikes,
		EngagementRate:     rate,
		ReachGrowth:        growthRate(float64(base.Reach), float64(base.Followers)),
		LikesGrowth:        growthRate(float64(totalLikes), float64(len(items))),
		BestPostingTimes:   postingTimeStats(items),
		ContentPerformance: contentPerformanceStats(items),
		WeeklyData:         weeklyStats(items),
	}
}

// postingTimeStats sums engagement per day segment. Retention is the average
// engagement per item in the segment, rounded to the nearest integer.
func postingTimeStats(items []model.PostMetric) []model.TimeSlotStat {
	stats := make([]model.TimeSlotStat, len(timeSlots))
	for i, slot := range timeSlots {
		var engagement int64
		var count int64
		for _, item := range items {
			if slot.contains(hourOf(item.Timestamp)) {
				engagement += item.Engagement
				count++
			}
		}
		retention := int64(0)
		if count > 0 {
			retention = roundInt(float64(engagement) / float64(count))
		}
		stats[i] = model.TimeSlotStat{Time: slot.name, Engagement: engagement, Retention: retention}
	}
	return stats
}

// contentPerformanceStats reports average engagement per content kind, plus a
// synthetic growth percentage of that average against a fixed reference of 100.
func contentPerformanceStats(items []model.PostMetric) []model.ContentTypeStat {
	stats := make([]model.ContentTypeStat, len(model.Kinds))
	for i, kind := range model.Kinds {
		var engagement int64
		var count int64
		for _, item := range items {
			if item.Kind == kind {
				engagement += item.Engagement
				count++
			}
		}
		avg := 0.0
		if count > 0 {
			avg = float64(engagement) / float64(count)
		}
		stats[i] = model.ContentTypeStat{
			Type:        kind.Label(),
			Performance: roundInt(avg),
			Growth:      fmt.Sprintf("%+d%%", roundInt(growthRate(avg, 100))),
		}
	}
	return stats
}

// weeklyStats sums engagement, reach and likes per weekday bucket.
func weeklyStats(items []model.PostMetric) []model.WeekdayStat {
	stats := make([]model.WeekdayStat, len(weekdayLabels))
	for i, label := range weekdayLabels {
		stats[i] = model.WeekdayStat{Date: label}
	}
	for _, item := range items {
		i := weekdayIndex(item.Timestamp)
		stats[i].Engagement += item.Engagement
		stats[i].Reach += item.Reach
		stats[i].Likes += item.Likes
	}
	return stats
}

func (s timeSlot) contains(hour int) bool {
	if s.start < s.end {
		return hour >= s.start && hour < s.end
	}
	// wrap-around segment
	return hour >= s.start || hour < s.end
}

func hourOf(t time.Time) int {
	return t.UTC().Hour()
}

// weekdayIndex maps a timestamp to the Monday-first bucket index.
func weekdayIndex(t time.Time) int {
	return (int(t.UTC().Weekday()) + 6) % 7
}

// growthRate is (current-baseline)/baseline*100, defined as 0 for a zero
// baseline rather than dividing by zero.
func growthRate(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundInt rounds half away from zero to the nearest integer.
func roundInt(v float64) int64 {
	return int64(math.Round(v))
}
