package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/docuserve/activity-api/internal/constants"
	"github.com/docuserve/activity-api/internal/dto"
	apierrors "github.com/docuserve/activity-api/internal/errors"
	"github.com/docuserve/activity-api/internal/middleware"
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/services"
	"github.com/docuserve/activity-api/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActivityHandler serves the user activity endpoints.
type ActivityHandler struct {
	activityService *services.ActivityService
	authService     *services.AuthService
	log             *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService, authService *services.AuthService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		authService:     authService,
		log:             log,
	}
}

// List returns a filtered page of all user activities (admin only).
// Filters: user_id, activity_type. Sorting: sort_column index + asc flag.
func (h *ActivityHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	sortColumn, err := strconv.Atoi(c.DefaultQuery("sort_column", strconv.Itoa(constants.DefaultSortColumn)))
	if err != nil {
		sortColumn = constants.DefaultSortColumn
	}
	asc := c.Query("asc") == "true"

	filter := repository.ActivityFilter{
		SortColumn: sortColumn,
		Asc:        asc,
		Offset:     params.Offset,
		Limit:      params.Limit,
	}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if activityType := c.Query("activity_type"); activityType != "" {
		filter.ActivityType = &activityType
	}

	activities, total, err := h.activityService.List(filter)
	if err != nil {
		h.log.Error("failed to list activities", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch activities")
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(activities, total))
}

// ListForCurrentUser returns the calling user's activities, optionally
// scoped to one document via entity_id. The document screen asks for
// limit=1 to get the latest record.
func (h *ActivityHandler) ListForCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	filter := repository.ActivityFilter{
		UserID:     &userID,
		SortColumn: constants.DefaultSortColumn,
		Offset:     params.Offset,
		Limit:      params.Limit,
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		filter.EntityID = &entityID
	}

	activities, total, err := h.activityService.List(filter)
	if err != nil {
		h.log.Error("failed to list user activities", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch activities")
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(activities, total))
}

// Upsert creates or updates an activity for the calling user. The planned
// date arrives either as a YYYY-MM-DD string or as epoch milliseconds.
func (h *ActivityHandler) Upsert(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpsertRequest struct {
		ID                   string              `json:"id"`
		ActivityType         models.ActivityType `json:"activity_type"`
		EntityID             string              `json:"entity_id"`
		EntityName           string              `json:"entity_name"`
		Progress             *int                `json:"progress" binding:"required"`
		PlannedDate          string              `json:"planned_date"`
		PlannedDateTimestamp *int64              `json:"planned_date_timestamp"`
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	plannedDate := req.PlannedDate
	if req.PlannedDateTimestamp != nil {
		plannedDate = utils.FormatCalendarDate(utils.FromEpochMillis(*req.PlannedDateTimestamp))
	}

	id, err := h.activityService.Upsert(userID, services.UpsertInput{
		ID:           req.ID,
		ActivityType: req.ActivityType,
		EntityID:     req.EntityID,
		EntityName:   req.EntityName,
		Progress:     *req.Progress,
		PlannedDate:  plannedDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProgress),
			errors.Is(err, services.ErrInvalidPlannedDate),
			errors.Is(err, services.ErrTypeRequired):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrActivityNotFound):
			apierrors.NotFound(c, "Activity not found")
		case errors.Is(err, services.ErrNotActivityOwner):
			apierrors.Forbidden(c, "")
		default:
			h.log.Error("failed to upsert activity", zap.Error(err))
			apierrors.InternalError(c, "Failed to save activity")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Delete removes an activity. Owners may delete their own records,
// admins anyone's.
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.activityService.Delete(c.Param("id"), userID, user.Admin); err != nil {
		switch {
		case errors.Is(err, services.ErrActivityNotFound):
			apierrors.NotFound(c, "Activity not found")
		case errors.Is(err, services.ErrNotActivityOwner):
			apierrors.Forbidden(c, "")
		default:
			h.log.Error("failed to delete activity", zap.Error(err))
			apierrors.InternalError(c, "Failed to delete activity")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
