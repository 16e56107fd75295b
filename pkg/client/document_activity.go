package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docuserve/activity-api/internal/utils"
)

// savedFlagDuration is how long the "saved" confirmation stays visible.
const savedFlagDuration = 2 * time.Second

// ActivityForm is the editable working copy of one document's review
// record. PlannedDate is a YYYY-MM-DD string, empty meaning unset.
type ActivityForm struct {
	ID           string
	ActivityType string
	Progress     int
	PlannedDate  string
}

// DocumentActivityView drives the review-progress form on one document:
// it loads the latest activity record scoped to the document and writes
// edits back.
type DocumentActivityView struct {
	client   *Client
	log      *zap.Logger
	entityID string

	mu         sync.Mutex
	form       ActivityForm
	saved      bool
	savedTimer *time.Timer
}

// NewDocumentActivityView creates the view for one document.
func NewDocumentActivityView(client *Client, entityID string, log *zap.Logger) *DocumentActivityView {
	return &DocumentActivityView{
		client:   client,
		log:      log,
		entityID: entityID,
		form: ActivityForm{
			ActivityType: "document_review",
		},
	}
}

// Form returns a copy of the current form state.
func (v *DocumentActivityView) Form() ActivityForm {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// SetForm replaces the editable fields.
func (v *DocumentActivityView) SetForm(form ActivityForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	form.ID = v.form.ID
	v.form = form
}

// Saved reports whether the transient save confirmation is showing.
func (v *DocumentActivityView) Saved() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.saved
}

// Load fetches the latest activity for the document. A failed load leaves
// the form untouched.
func (v *DocumentActivityView) Load(ctx context.Context) error {
	list, err := v.client.ListUserActivities(ctx, v.entityID, 1)
	if err != nil {
		v.log.Warn("failed to load document activity", zap.Error(err))
		return err
	}
	if len(list.Activities) == 0 {
		return nil
	}

	activity := list.Activities[0]
	form := ActivityForm{
		ID:           activity.ID,
		ActivityType: activity.ActivityType,
		Progress:     activity.Progress,
	}
	if activity.PlannedDateTimestamp != 0 {
		form.PlannedDate = utils.FormatCalendarDate(utils.FromEpochMillis(activity.PlannedDateTimestamp))
	}

	v.mu.Lock()
	v.form = form
	v.mu.Unlock()
	return nil
}

// Save upserts the form for this document and shows the saved flag for
// two seconds. Save failures are returned, not swallowed.
func (v *DocumentActivityView) Save(ctx context.Context) error {
	v.mu.Lock()
	form := v.form
	v.mu.Unlock()

	upsert := ActivityUpsert{
		ID:           form.ID,
		ActivityType: form.ActivityType,
		EntityID:     v.entityID,
		Progress:     form.Progress,
	}
	if form.PlannedDate != "" {
		parsed, err := utils.ParseCalendarDate(form.PlannedDate)
		if err != nil {
			return err
		}
		ms := utils.EpochMillis(parsed)
		upsert.PlannedDateTimestamp = &ms
	}

	id, err := v.client.UpsertActivity(ctx, upsert)
	if err != nil {
		v.log.Warn("failed to save document activity", zap.Error(err))
		return err
	}

	v.mu.Lock()
	v.form.ID = id
	v.saved = true
	if v.savedTimer != nil {
		v.savedTimer.Stop()
	}
	v.savedTimer = time.AfterFunc(savedFlagDuration, func() {
		v.mu.Lock()
		v.saved = false
		v.mu.Unlock()
	})
	v.mu.Unlock()
	return nil
}

// Close cancels the pending saved-flag timer.
func (v *DocumentActivityView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.savedTimer != nil {
		v.savedTimer.Stop()
		v.savedTimer = nil
	}
}
