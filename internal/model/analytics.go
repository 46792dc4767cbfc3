package model

// TimeSlotStat aggregates engagement for one of the four fixed day segments.
type TimeSlotStat struct {
	Time       string `json:"time"`
	Engagement int64  `json:"engagement"`
	Retention  int64  `json:"retention"` // average engagement per item in the slot
}

// ContentTypeStat aggregates performance for one of the three fixed content kinds.
type ContentTypeStat struct {
	Type        string `json:"type"`
	Performance int64  `json:"performance"` // average engagement per item
	Growth      string `json:"growth"`      // synthetic percentage, e.g. "+12%"
}

// WeekdayStat aggregates totals for one of the seven fixed weekday buckets.
type WeekdayStat struct {
	Date       string `json:"date"` // "Mon".."Sun"
	Engagement int64  `json:"engagement"`
	Reach      int64  `json:"reach"`
	Likes      int64  `json:"likes"`
}

// AnalyticsSummary is the normalized analytics produced by one pipeline run.
// Bucket slices always carry their full fixed length (4 time slots, 3 content
// kinds, 7 weekdays); empty buckets report zeros.
//
// JSON field names follow the dashboard wire contract, which is camelCase.
type AnalyticsSummary struct {
	TotalEngagement    int64             `json:"totalEngagement"`
	TotalReach         int64             `json:"totalReach"`
	TotalLikes         int64             `json:"totalLikes"`
	EngagementRate     float64           `json:"engagementRate"` // percent, 2 decimals
	ReachGrowth        float64           `json:"reachGrowth"`    // percent vs follower baseline
	LikesGrowth        float64           `json:"likesGrowth"`    // percent vs item-count baseline
	BestPostingTimes   []TimeSlotStat    `json:"bestPostingTimes"`
	ContentPerformance []ContentTypeStat `json:"contentPerformance"`
	WeeklyData         []WeekdayStat     `json:"weeklyData"`
}
