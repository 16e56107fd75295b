// Package gantt derives a Gantt timeline model from activity records: one
// row per user, one bar per activity, with overlapping bars in a row pushed
// onto separate lanes.
package gantt

import (
	"sort"
	"strings"
	"time"
)

const (
	// defaultTaskSpan is assumed when an activity has neither a completed
	// nor a planned date.
	defaultTaskSpan = 7 * 24 * time.Hour

	// scalePadding widens the empty time scale around "now".
	scalePadding = 30 * 24 * time.Hour
)

// Record is the slice of an activity the timeline needs. Timestamps are
// epoch milliseconds as they appear on the wire; zero means unset.
type Record struct {
	ID                     string
	Username               string
	ActivityType           string
	EntityName             string
	Progress               int
	CreateTimestamp        int64
	PlannedDateTimestamp   int64
	CompletedDateTimestamp int64
}

// Task is one rendered bar.
type Task struct {
	ID       string
	Name     string
	Start    time.Time
	End      time.Time
	Progress int
	Color    string
	Lane     int
}

// Row groups the tasks of one user.
type Row struct {
	Name  string
	Tasks []Task
}

// TimeScale is the visible range of the chart.
type TimeScale struct {
	From time.Time
	To   time.Time
}

// Model is the complete chart state handed to the view.
type Model struct {
	Rows  []Row
	Scale TimeScale
}

// Build derives the chart model from the given records. Rows appear in
// order of first occurrence of each username. The scale starts at
// [now-30d, now+30d] and widens to cover every task.
func Build(records []Record, now time.Time) Model {
	scale := TimeScale{
		From: now.Add(-scalePadding),
		To:   now.Add(scalePadding),
	}

	groups := make(map[string][]Task)
	var order []string

	for _, rec := range records {
		start := now
		if rec.CreateTimestamp != 0 {
			start = time.UnixMilli(rec.CreateTimestamp).UTC()
		}

		var end time.Time
		switch {
		case rec.CompletedDateTimestamp != 0:
			end = time.UnixMilli(rec.CompletedDateTimestamp).UTC()
		case rec.PlannedDateTimestamp != 0:
			end = time.UnixMilli(rec.PlannedDateTimestamp).UTC()
		default:
			end = start.Add(defaultTaskSpan)
		}

		if start.Before(scale.From) {
			scale.From = start
		}
		if end.After(scale.To) {
			scale.To = end
		}

		name := rec.EntityName
		if name == "" {
			name = FormatActivityType(rec.ActivityType)
		}

		if _, seen := groups[rec.Username]; !seen {
			order = append(order, rec.Username)
		}
		groups[rec.Username] = append(groups[rec.Username], Task{
			ID:       rec.ID,
			Name:     name,
			Start:    start,
			End:      end,
			Progress: rec.Progress,
			Color:    TaskColor(rec.Progress),
		})
	}

	rows := make([]Row, 0, len(order))
	for _, username := range order {
		tasks := groups[username]
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Start.Before(tasks[j].Start)
		})
		assignLanes(tasks)
		rows = append(rows, Row{Name: username, Tasks: tasks})
	}

	return Model{Rows: rows, Scale: scale}
}

// assignLanes places each task on the smallest lane not taken by an
// earlier-sorted task it overlaps. Greedy first-fit, not globally optimal.
func assignLanes(tasks []Task) {
	for i := range tasks {
		used := make(map[int]bool)
		for j := 0; j < i; j++ {
			if overlaps(tasks[i], tasks[j]) {
				used[tasks[j].Lane] = true
			}
		}
		lane := 0
		for used[lane] {
			lane++
		}
		tasks[i].Lane = lane
	}
}

// overlaps treats intervals as half-open: touching endpoints do not clash.
func overlaps(a, b Task) bool {
	return !(a.End.Before(b.Start) || a.End.Equal(b.Start) ||
		a.Start.After(b.End) || a.Start.Equal(b.End))
}

// FormatActivityType turns "document_review" into "Document Review".
func FormatActivityType(activityType string) string {
	words := strings.Split(activityType, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
