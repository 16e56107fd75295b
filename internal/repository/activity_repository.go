package repository

import (
	"github.com/docuserve/activity-api/internal/database"
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/utils"
	"gorm.io/gorm"
)

// Sortable columns are addressed by index on the wire. Unknown indexes
// fall back to the creation date.
var activitySortColumns = map[int]string{
	1: "user_activities.user_id",
	2: "user_activities.activity_type",
	3: "user_activities.progress",
	4: "user_activities.planned_date",
	5: "user_activities.completed_date",
	9: "user_activities.create_date",
}

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create creates a new activity
func (r *GormActivityRepository) Create(activity *models.UserActivity) error {
	return r.db.Create(activity).Error
}

// FindByID finds an activity by ID
func (r *GormActivityRepository) FindByID(id string) (*models.UserActivity, error) {
	var activity models.UserActivity
	if err := r.db.Preload("User").First(&activity, "user_activities.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// List retrieves activities with filtering and pagination
func (r *GormActivityRepository) List(filter ActivityFilter) ([]models.UserActivity, int64, error) {
	query := r.db.Model(&models.UserActivity{})

	if filter.UserID != nil {
		query = query.Where("user_activities.user_id = ?", *filter.UserID)
	}
	if filter.ActivityType != nil {
		query = query.Where("user_activities.activity_type = ?", *filter.ActivityType)
	}
	if filter.EntityID != nil {
		query = query.Where("user_activities.entity_id = ?", *filter.EntityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := activitySortColumns[filter.SortColumn]
	if !ok {
		column = "user_activities.create_date"
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}

	var activities []models.UserActivity
	err := query.
		Preload("User").
		Order(column + " " + direction).
		Scopes(database.Paginate(utils.PaginationParams{Offset: filter.Offset, Limit: filter.Limit})).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// Update updates an activity
func (r *GormActivityRepository) Update(activity *models.UserActivity) error {
	return r.db.Save(activity).Error
}

// Delete soft deletes an activity
func (r *GormActivityRepository) Delete(id string) error {
	return r.db.Delete(&models.UserActivity{}, "id = ?", id).Error
}
