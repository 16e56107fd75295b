package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrNotActivityOwner   = errors.New("activity belongs to another user")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrInvalidPlannedDate = errors.New("invalid planned date")
	ErrTypeRequired       = errors.New("activity type is required")
)

// ActivityService handles user activity business logic.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// List retrieves a page of activities plus the unpaginated total.
func (s *ActivityService) List(filter repository.ActivityFilter) ([]models.UserActivity, int64, error) {
	return s.activityRepo.List(filter)
}

// UpsertInput carries one create-or-update request. PlannedDate is a
// YYYY-MM-DD calendar date, empty meaning unset.
type UpsertInput struct {
	ID           string
	ActivityType models.ActivityType
	EntityID     string
	EntityName   string
	Progress     int
	PlannedDate  string
}

// Upsert creates the activity when no ID is given, otherwise updates the
// caller's existing record. The planned date is replaced wholesale: an
// empty one clears a previously set date. Reaching 100% stamps the
// completion date; dropping below clears it again.
func (s *ActivityService) Upsert(userID string, input UpsertInput) (string, error) {
	if input.Progress < 0 || input.Progress > 100 {
		return "", ErrInvalidProgress
	}

	var plannedDate *time.Time
	if input.PlannedDate != "" {
		parsed, err := utils.ParseCalendarDate(input.PlannedDate)
		if err != nil {
			return "", ErrInvalidPlannedDate
		}
		plannedDate = &parsed
	}

	if input.ID != "" {
		return s.update(userID, input, plannedDate)
	}

	if input.ActivityType == "" {
		return "", ErrTypeRequired
	}

	now := time.Now().UTC()
	activity := &models.UserActivity{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: input.ActivityType,
		EntityID:     input.EntityID,
		EntityName:   input.EntityName,
		Progress:     input.Progress,
		PlannedDate:  plannedDate,
		CreateDate:   now,
	}
	if input.Progress == 100 {
		activity.CompletedDate = &now
	}

	if err := s.activityRepo.Create(activity); err != nil {
		return "", fmt.Errorf("failed to create activity: %w", err)
	}
	return activity.ID, nil
}

func (s *ActivityService) update(userID string, input UpsertInput, plannedDate *time.Time) (string, error) {
	activity, err := s.activityRepo.FindByID(input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrActivityNotFound
		}
		return "", fmt.Errorf("failed to find activity: %w", err)
	}

	if activity.UserID != userID {
		return "", ErrNotActivityOwner
	}

	activity.Progress = input.Progress
	activity.PlannedDate = plannedDate

	switch {
	case input.Progress == 100 && activity.CompletedDate == nil:
		now := time.Now().UTC()
		activity.CompletedDate = &now
	case input.Progress < 100:
		activity.CompletedDate = nil
	}

	if err := s.activityRepo.Update(activity); err != nil {
		return "", fmt.Errorf("failed to update activity: %w", err)
	}
	return activity.ID, nil
}

// Delete removes an activity. Only the owner or an admin may delete.
func (s *ActivityService) Delete(id, requesterID string, admin bool) error {
	activity, err := s.activityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to find activity: %w", err)
	}

	if activity.UserID != requesterID && !admin {
		return ErrNotActivityOwner
	}

	if err := s.activityRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
