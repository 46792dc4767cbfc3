package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pulseboard/pulseboard/internal/model"
)

// WritePDF renders the full report as a PDF document: the analytics summary,
// the per-bucket tables and the seven-day plan.
func WritePDF(w io.Writer, report *model.Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.Cell(0, 10, "Social Analytics Report")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, "Platforms: "+strings.Join(report.Platforms, ", "))
	doc.Ln(6)
	doc.Cell(0, 6, "Generated: "+report.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	doc.Ln(10)

	if report.Analytics != nil {
		writeSummary(doc, report.Analytics)
	}
	if report.Plan != nil {
		writePlan(doc, report.Plan)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writeSummary(doc *fpdf.Fpdf, summary *model.AnalyticsSummary) {
	sectionTitle(doc, "Overview")
	keyValue(doc, "Total engagement", strconv.FormatInt(summary.TotalEngagement, 10))
	keyValue(doc, "Total reach", strconv.FormatInt(summary.TotalReach, 10))
	keyValue(doc, "Total likes", strconv.FormatInt(summary.TotalLikes, 10))
	keyValue(doc, "Engagement rate", fmt.Sprintf("%.2f%%", summary.EngagementRate))
	doc.Ln(4)

	sectionTitle(doc, "Best Posting Times")
	tableHeader(doc, []string{"Segment", "Engagement", "Retention"}, 50)
	for _, slot := range summary.BestPostingTimes {
		tableRow(doc, []string{
			slot.Time,
			strconv.FormatInt(slot.Engagement, 10),
			strconv.FormatInt(slot.Retention, 10),
		}, 50)
	}
	doc.Ln(4)

	sectionTitle(doc, "Content Performance")
	tableHeader(doc, []string{"Type", "Performance", "Growth"}, 50)
	for _, ct := range summary.ContentPerformance {
		tableRow(doc, []string{
			ct.Type,
			strconv.FormatInt(ct.Performance, 10),
			ct.Growth,
		}, 50)
	}
	doc.Ln(4)

	sectionTitle(doc, "Weekly Activity")
	tableHeader(doc, []string{"Day", "Engagement", "Reach", "Likes"}, 40)
	for _, day := range summary.WeeklyData {
		tableRow(doc, []string{
			day.Date,
			strconv.FormatInt(day.Engagement, 10),
			strconv.FormatInt(day.Reach, 10),
			strconv.FormatInt(day.Likes, 10),
		}, 40)
	}
	doc.Ln(4)
}

func writePlan(doc *fpdf.Fpdf, plan *model.RecommendationPlan) {
	sectionTitle(doc, "Recommendations")
	keyValue(doc, "Posting times", strings.Join(plan.RecommendedPostingTimes, ", "))
	keyValue(doc, "Content types", strings.Join(plan.TopPerformingContentTypes, ", "))
	keyValue(doc, "Hashtags", strings.Join(plan.SuggestedHashtags, " "))
	doc.Ln(4)

	sectionTitle(doc, "Weekly Content Plan")
	for _, s := range plan.ContentSuggestions {
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(0, 6, fmt.Sprintf("%s, %s: %s", s.Day, s.Time, s.Topic))
		doc.Ln(5)
		doc.SetFont("Helvetica", "", 9)
		line := s.Type
		if len(s.Hashtags) > 0 {
			line += "  " + strings.Join(s.Hashtags, " ")
		}
		doc.Cell(0, 5, line)
		doc.Ln(7)
	}
}

func sectionTitle(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 8, title)
	doc.Ln(9)
}

func keyValue(doc *fpdf.Fpdf, key, value string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.Cell(45, 6, key)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, value)
	doc.Ln(6)
}

func tableHeader(doc *fpdf.Fpdf, cols []string, width float64) {
	doc.SetFont("Helvetica", "B", 10)
	for _, col := range cols {
		doc.Cell(width, 6, col)
	}
	doc.Ln(6)
}

func tableRow(doc *fpdf.Fpdf, cells []string, width float64) {
	doc.SetFont("Helvetica", "", 10)
	for _, cell := range cells {
		doc.Cell(width, 6, cell)
	}
	doc.Ln(6)
}
