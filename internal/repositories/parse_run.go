package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobportal/resume-parser/internal/models"
)

type ParseRunRepository interface {
	Create(run *models.ParseRun) error
	FindByID(id uuid.UUID) (*models.ParseRun, error)
	FindUnindexed(limit int) ([]models.ParseRun, error)
	MarkIndexed(id uuid.UUID) error
}

type parseRunRepository struct {
	db *gorm.DB
}

func NewParseRunRepository(db *gorm.DB) ParseRunRepository {
	return &parseRunRepository{db: db}
}

func (r *parseRunRepository) Create(run *models.ParseRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create parse run: %w", err)
	}
	return nil
}

func (r *parseRunRepository) FindByID(id uuid.UUID) (*models.ParseRun, error) {
	var run models.ParseRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("parse run not found")
		}
		return nil, fmt.Errorf("failed to find parse run: %w", err)
	}
	return &run, nil
}

// FindUnindexed returns successful runs the talent indexer has not processed
// yet. Cache hits are excluded, their profile was indexed by the run that
// produced it.
func (r *parseRunRepository) FindUnindexed(limit int) ([]models.ParseRun, error) {
	var runs []models.ParseRun
	err := r.db.
		Where("success = ? AND indexed = ? AND from_cache = ?", true, false, false).
		Where("document_id <> ?", uuid.Nil).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find unindexed runs: %w", err)
	}

	return runs, nil
}

func (r *parseRunRepository) MarkIndexed(id uuid.UUID) error {
	result := r.db.Model(&models.ParseRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"indexed":    true,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark run indexed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("parse run not found")
	}

	return nil
}
