package gantt

import (
	"math"
	"time"
)

const (
	// minVisualSpan keeps zero-length tasks wide enough to see.
	minVisualSpan = 36 * time.Hour

	maxTimelineTicks = 15

	laneHeightPx = 35
	laneTopPx    = 10

	fillLightenStep  = 30
	borderDarkenStep = 10
)

// Style is the computed CSS geometry of one task bar. Left and Width are
// percentages of the scale span, Top is in pixels.
type Style struct {
	Left            float64
	Width           float64
	Top             int
	BackgroundColor string
	BorderColor     string
}

// TaskStyle computes where a bar renders inside the scale.
func TaskStyle(task Task, scale TimeScale) Style {
	total := scale.To.Sub(scale.From)

	startOffset := task.Start.Sub(scale.From)
	if startOffset < 0 {
		startOffset = 0
	}

	// Zero and near-zero length tasks still get a visible bar.
	duration := task.End.Sub(task.Start)
	if duration < minVisualSpan {
		duration = minVisualSpan
	}

	left := float64(startOffset) / float64(total) * 100
	width := float64(duration) / float64(total) * 100

	left = math.Min(math.Max(left, 0.5), 100)
	width = math.Min(width, 99-left)

	return Style{
		Left:            left,
		Width:           width,
		Top:             laneTopPx + task.Lane*laneHeightPx,
		BackgroundColor: Lighten(task.Color, fillLightenStep),
		BorderColor:     Darken(task.Color, borderDarkenStep),
	}
}

// TimelineDates returns the tick marks between from and to, stepping a
// whole number of days sized so longer spans keep roughly 15 steps. The
// walk is inclusive of both endpoints.
func TimelineDates(from, to time.Time) []time.Time {
	totalDays := math.Round(to.Sub(from).Hours() / 24)
	step := int(math.Round(totalDays / maxTimelineTicks))
	if step < 1 {
		step = 1
	}

	var dates []time.Time
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, step) {
		dates = append(dates, cur)
	}
	return dates
}
