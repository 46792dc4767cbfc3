// Package pipeline orchestrates one analytics run: normalize the connected
// platforms' payloads, aggregate, build the local plan, then attempt
// augmentation. A run with at least one platform always reaches ready status;
// only the absence of any platform short-circuits to no_data.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pulseboard/pulseboard/internal/analytics"
	"github.com/pulseboard/pulseboard/internal/gemini"
	"github.com/pulseboard/pulseboard/internal/instagram"
	"github.com/pulseboard/pulseboard/internal/metrics"
	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/recommend"
	"github.com/pulseboard/pulseboard/internal/youtube"
)

// augmentedReasoning marks suggestions sourced from the model rather than the
// local frequency rankings.
const augmentedReasoning = "Gemini-assisted recommendation"

// Augmenter produces an optional model-generated prescription. A (nil, nil)
// return means augmentation is not configured; an error means it was attempted
// and failed. Either way the caller keeps the local plan.
type Augmenter interface {
	Generate(ctx context.Context, summary model.AnalyticsSummary, platform string) (*gemini.Prescription, error)
}

// Input carries the raw payloads of whichever platforms are connected. A nil
// field means the platform is not connected for this run.
type Input struct {
	Instagram *instagram.AccountData
	YouTube   *youtube.ChannelData
}

// Result is the outcome of one run.
type Result struct {
	Status    model.ReportStatus
	Platform  string // "instagram", "youtube" or "instagram+youtube"
	Analytics *model.AnalyticsSummary
	Plan      *model.RecommendationPlan
	Augmented bool
}

// Runner executes analytics runs.
type Runner struct {
	augmenter Augmenter
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewRunner creates a Runner. The augmenter may be nil when augmentation is
// not wired at all.
func NewRunner(augmenter Augmenter, recorder metrics.Recorder, logger *slog.Logger) *Runner {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Runner{
		augmenter: augmenter,
		recorder:  recorder,
		logger:    logger.With("component", "pipeline.runner"),
	}
}

// Run executes the full pipeline over the given input. It cannot fail: the
// local stages are pure and the augmentation stage is best-effort.
func (r *Runner) Run(ctx context.Context, in Input) Result {
	start := time.Now()
	defer func() {
		r.recorder.ObservePipelineDuration(time.Since(start))
	}()

	if in.Instagram == nil && in.YouTube == nil {
		r.recorder.IncPipelineRun(string(model.StatusNoData))
		return Result{Status: model.StatusNoData}
	}

	items, base := normalize(in)
	summary := analytics.Aggregate(items, base)
	plan := recommend.Build(items, summary)
	platform := platformLabel(in)

	res := Result{
		Status:    model.StatusReady,
		Platform:  platform,
		Analytics: &summary,
		Plan:      &plan,
	}

	if r.augmenter != nil {
		res.Augmented = r.augment(ctx, summary, platform, &plan)
	}

	r.recorder.IncPipelineRun(string(model.StatusReady))
	return res
}

// augment asks the model for a prescription and, on success, swaps in its
// weekly plan. Failures are logged and swallowed so the run stays ready.
func (r *Runner) augment(ctx context.Context, summary model.AnalyticsSummary, platform string, plan *model.RecommendationPlan) bool {
	p, err := r.augmenter.Generate(ctx, summary, platform)
	if err != nil {
		r.recorder.IncAugmentation("failed")
		r.logger.Warn("augmentation failed, keeping local plan", "error", err)
		return false
	}
	if p == nil {
		r.recorder.IncAugmentation("skipped")
		return false
	}

	*plan = plan.WithSuggestions(suggestionsFromPrescription(p))
	r.recorder.IncAugmentation("applied")
	return true
}

// normalize merges the per-platform item lists, Instagram first, and folds the
// account-level figures into the shared growth baseline.
func normalize(in Input) ([]model.PostMetric, analytics.Baseline) {
	var items []model.PostMetric
	var base analytics.Baseline

	if in.Instagram != nil {
		items = append(items, analytics.NormalizeInstagram(in.Instagram.Media)...)
		base.Followers += in.Instagram.Account.FollowersCount
		base.Reach += in.Instagram.Insights.Reach
	}
	if in.YouTube != nil {
		items = append(items, analytics.NormalizeYouTube(in.YouTube.Videos)...)
		base.Followers += in.YouTube.Stats.SubscriberCount
		for _, v := range in.YouTube.Videos {
			base.Reach += v.ViewCount
		}
	}
	return items, base
}

func platformLabel(in Input) string {
	switch {
	case in.Instagram != nil && in.YouTube != nil:
		return "instagram+youtube"
	case in.Instagram != nil:
		return "instagram"
	default:
		return "youtube"
	}
}

// suggestionsFromPrescription maps the model's weekly plan onto the local
// suggestion shape. Length is already validated by the adapter.
func suggestionsFromPrescription(p *gemini.Prescription) []model.ContentSuggestion {
	out := make([]model.ContentSuggestion, len(p.WeeklyPlan))
	for i, e := range p.WeeklyPlan {
		hashtags := e.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}
		out[i] = model.ContentSuggestion{
			Day:       e.Day,
			Time:      e.Time,
			Type:      e.ContentType,
			Topic:     e.Idea,
			Hashtags:  hashtags,
			Reasoning: augmentedReasoning,
		}
	}
	return out
}
