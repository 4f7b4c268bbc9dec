package repositories

import (
	"context"

	"labops-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ExperimentRepository handles experiment data access
type ExperimentRepository struct {
	db *gorm.DB
}

// NewExperimentRepository creates a new experiment repository
func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

// Create creates a new experiment
func (r *ExperimentRepository) Create(ctx context.Context, experiment *models.Experiment) error {
	return r.db.WithContext(ctx).Create(experiment).Error
}

// GetByID gets an experiment by ID
func (r *ExperimentRepository) GetByID(ctx context.Context, id uint) (*models.Experiment, error) {
	var experiment models.Experiment
	err := r.db.WithContext(ctx).First(&experiment, id).Error
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

// List lists experiments with an optional status filter, ordered by
// start date descending.
func (r *ExperimentRepository) List(ctx context.Context, status string) ([]*models.Experiment, error) {
	query := r.db.WithContext(ctx).Model(&models.Experiment{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var experiments []*models.Experiment
	err := query.Order("start_date DESC").Find(&experiments).Error
	return experiments, err
}

// Update updates an experiment. Returns gorm.ErrRecordNotFound if absent.
func (r *ExperimentRepository) Update(ctx context.Context, experiment *models.Experiment) error {
	result := r.db.WithContext(ctx).Model(&models.Experiment{}).Where("id = ?", experiment.ID).Updates(map[string]interface{}{
		"title":         experiment.Title,
		"protocol_type": experiment.ProtocolType,
		"assignee":      experiment.Assignee,
		"status":        experiment.Status,
		"start_date":    experiment.StartDate,
		"end_date":      experiment.EndDate,
		"description":   experiment.Description,
		"results":       experiment.Results,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes an experiment. Returns gorm.ErrRecordNotFound if absent.
func (r *ExperimentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Experiment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
