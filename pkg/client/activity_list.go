package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docuserve/activity-api/internal/gantt"
)

// FilterOption is one entry of the user/type filter dropdowns.
type FilterOption struct {
	ID   string
	Name string
}

// ActivityListView drives the admin activity screen: a paginated list of
// all activities, user/type filters, and a Gantt timeline derived from
// the loaded page. Loads are tagged with a monotonically increasing
// sequence so a stale response can never overwrite a newer one.
type ActivityListView struct {
	client *Client
	log    *zap.Logger
	now    func() time.Time

	mu             sync.Mutex
	loading        bool
	activities     []Activity
	total          int64
	offset         int
	limit          int
	showGantt      bool
	filterUserID   string
	filterType     string
	availableUsers []FilterOption
	availableTypes []FilterOption
	ganttModel     gantt.Model
	loadSeq        uint64
}

// NewActivityListView creates the list view with the default page size.
func NewActivityListView(client *Client, log *zap.Logger) *ActivityListView {
	return &ActivityListView{
		client:    client,
		log:       log,
		now:       time.Now,
		limit:     50,
		showGantt: true,
	}
}

// Loading reports whether a load is in flight.
func (v *ActivityListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Activities returns the loaded page.
func (v *ActivityListView) Activities() []Activity {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Activity(nil), v.activities...)
}

// Total returns the unpaginated record count.
func (v *ActivityListView) Total() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.total
}

// AvailableUsers returns the user filter options of the current page.
func (v *ActivityListView) AvailableUsers() []FilterOption {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]FilterOption(nil), v.availableUsers...)
}

// AvailableTypes returns the type filter options of the current page.
func (v *ActivityListView) AvailableTypes() []FilterOption {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]FilterOption(nil), v.availableTypes...)
}

// Gantt returns the current timeline model.
func (v *ActivityListView) Gantt() gantt.Model {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ganttModel
}

// ShowGantt reports whether the timeline view is active.
func (v *ActivityListView) ShowGantt() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.showGantt
}

// ToggleView switches between the table and the timeline, rebuilding the
// timeline model when it becomes visible.
func (v *ActivityListView) ToggleView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showGantt = !v.showGantt
	if v.showGantt {
		v.rebuildGanttLocked()
	}
}

// Load fetches the current page. If a newer Load has started in the
// meantime, the response is discarded so the state only ever reflects the
// latest request. A failed load keeps the previous data.
func (v *ActivityListView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	v.loading = true
	params := ListParams{
		Offset:       v.offset,
		Limit:        v.limit,
		SortColumn:   9,
		Asc:          false,
		UserID:       v.filterUserID,
		ActivityType: v.filterType,
	}
	v.mu.Unlock()

	list, err := v.client.ListActivities(ctx, params)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.loadSeq {
		// A newer load is in flight or already applied.
		return nil
	}
	v.loading = false

	if err != nil {
		v.log.Warn("failed to load activities", zap.Error(err))
		return err
	}

	v.activities = list.Activities
	v.total = list.Total
	v.extractFiltersLocked()
	if v.showGantt {
		v.rebuildGanttLocked()
	}
	return nil
}

// SetFilters sets the user and type filters; empty means no filter.
func (v *ActivityListView) SetFilters(userID, activityType string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filterUserID = userID
	v.filterType = activityType
}

// ApplyFilters resets pagination and reloads with the current filters.
func (v *ActivityListView) ApplyFilters(ctx context.Context) error {
	v.mu.Lock()
	v.offset = 0
	v.mu.Unlock()
	return v.Load(ctx)
}

// ResetFilters clears the filters, resets pagination and reloads.
func (v *ActivityListView) ResetFilters(ctx context.Context) error {
	v.mu.Lock()
	v.filterUserID = ""
	v.filterType = ""
	v.offset = 0
	v.mu.Unlock()
	return v.Load(ctx)
}

// LoadMore advances to the next page.
func (v *ActivityListView) LoadMore(ctx context.Context) error {
	v.mu.Lock()
	v.offset += v.limit
	v.mu.Unlock()
	return v.Load(ctx)
}

// Delete removes an activity on the server and, only once that succeeded,
// drops it from the local list and decrements the total.
func (v *ActivityListView) Delete(ctx context.Context, id string) error {
	if err := v.client.DeleteActivity(ctx, id); err != nil {
		v.log.Warn("failed to delete activity", zap.String("id", id), zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.activities[:0]
	removed := false
	for _, activity := range v.activities {
		if activity.ID == id {
			removed = true
			continue
		}
		kept = append(kept, activity)
	}
	v.activities = kept
	if removed {
		v.total--
	}
	if v.showGantt {
		v.rebuildGanttLocked()
	}
	return nil
}

func (v *ActivityListView) extractFiltersLocked() {
	var users []FilterOption
	seenUsers := make(map[string]bool)
	var types []FilterOption
	seenTypes := make(map[string]bool)

	for _, activity := range v.activities {
		if !seenUsers[activity.UserID] {
			seenUsers[activity.UserID] = true
			users = append(users, FilterOption{ID: activity.UserID, Name: activity.Username})
		}
		if !seenTypes[activity.ActivityType] {
			seenTypes[activity.ActivityType] = true
			types = append(types, FilterOption{
				ID:   activity.ActivityType,
				Name: gantt.FormatActivityType(activity.ActivityType),
			})
		}
	}

	v.availableUsers = users
	v.availableTypes = types
}

func (v *ActivityListView) rebuildGanttLocked() {
	records := make([]gantt.Record, 0, len(v.activities))
	for _, activity := range v.activities {
		records = append(records, gantt.Record{
			ID:                     activity.ID,
			Username:               activity.Username,
			ActivityType:           activity.ActivityType,
			EntityName:             activity.EntityName,
			Progress:               activity.Progress,
			CreateTimestamp:        activity.CreateTimestamp,
			PlannedDateTimestamp:   activity.PlannedDateTimestamp,
			CompletedDateTimestamp: activity.CompletedDateTimestamp,
		})
	}
	v.ganttModel = gantt.Build(records, v.now())
}

// FormatProgress renders a progress value for the status column.
func FormatProgress(progress int) string {
	switch {
	case progress == 100:
		return "Completed"
	case progress > 0:
		return fmt.Sprintf("In progress (%d%%)", progress)
	default:
		return "Not started"
	}
}

// ProgressClass maps a progress value to its progress-bar CSS class.
func ProgressClass(progress int) string {
	switch {
	case progress == 100:
		return "progress-bar-success"
	case progress > 0:
		return "progress-bar-warning"
	default:
		return "progress-bar-danger"
	}
}
