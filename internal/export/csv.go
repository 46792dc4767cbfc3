// Package export renders a report snapshot as a downloadable document.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pulseboard/pulseboard/internal/model"
)

// WriteCSV streams the weekly analytics as CSV rows. One row per weekday
// bucket, preceded by a header.
func WriteCSV(w io.Writer, summary *model.AnalyticsSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "engagement", "reach", "likes"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, day := range summary.WeeklyData {
		row := []string{
			day.Date,
			strconv.FormatInt(day.Engagement, 10),
			strconv.FormatInt(day.Reach, 10),
			strconv.FormatInt(day.Likes, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
