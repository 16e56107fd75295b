package dto

import (
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/utils"
)

// ActivityDTO represents a user activity in API responses. All timestamps
// are epoch milliseconds.
type ActivityDTO struct {
	ID                     string              `json:"id"`
	UserID                 string              `json:"user_id"`
	Username               string              `json:"username"`
	ActivityType           models.ActivityType `json:"activity_type"`
	Progress               int                 `json:"progress"`
	EntityID               string              `json:"entity_id,omitempty"`
	EntityName             string              `json:"entity_name,omitempty"`
	CreateTimestamp        int64               `json:"create_timestamp"`
	PlannedDateTimestamp   *int64              `json:"planned_date_timestamp,omitempty"`
	CompletedDateTimestamp *int64              `json:"completed_date_timestamp,omitempty"`
}

// ActivityListResponse is the paginated activity list payload.
type ActivityListResponse struct {
	Activities []ActivityDTO `json:"activities"`
	Total      int64         `json:"total"`
}

// ToActivityDTO converts a UserActivity model to ActivityDTO
func ToActivityDTO(activity models.UserActivity) ActivityDTO {
	dto := ActivityDTO{
		ID:              activity.ID,
		UserID:          activity.UserID,
		Username:        activity.User.Username,
		ActivityType:    activity.ActivityType,
		Progress:        activity.Progress,
		EntityID:        activity.EntityID,
		EntityName:      activity.EntityName,
		CreateTimestamp: utils.EpochMillis(activity.CreateDate),
	}
	if activity.PlannedDate != nil {
		ms := utils.EpochMillis(*activity.PlannedDate)
		dto.PlannedDateTimestamp = &ms
	}
	if activity.CompletedDate != nil {
		ms := utils.EpochMillis(*activity.CompletedDate)
		dto.CompletedDateTimestamp = &ms
	}
	return dto
}

// ToActivityListResponse converts a page of activities plus total count
func ToActivityListResponse(activities []models.UserActivity, total int64) ActivityListResponse {
	dtos := make([]ActivityDTO, 0, len(activities))
	for _, activity := range activities {
		dtos = append(dtos, ToActivityDTO(activity))
	}
	return ActivityListResponse{Activities: dtos, Total: total}
}
