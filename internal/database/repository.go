package database

import (
	"time"

	"github.com/screenpilot/screenpilot/internal/models"
	"github.com/screenpilot/screenpilot/pkg/screen"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for find events and
// calibration samples. It satisfies screen.Recorder so the engine can
// persist outcomes without knowing about the database.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// RecordFind inserts one completed find operation
func (r *Repository) RecordFind(rec screen.FindRecord) error {
	event := &models.FindEvent{
		Timestamp:  time.Now(),
		TargetName: rec.Target,
		Backend:    rec.Backend,
		Similarity: rec.Similarity,
		Success:    rec.Success,
		DurationMS: rec.Duration.Milliseconds(),
		DumpPath:   rec.DumpPath,
	}
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert find event")
	}
	return nil
}

// RecordCalibration inserts one adaptive threshold relaxation outcome
func (r *Repository) RecordCalibration(rec screen.CalibrationRecord) error {
	sample := &models.CalibrationSample{
		Timestamp:  time.Now(),
		TargetName: rec.Target,
		Upper:      rec.Upper,
		Lower:      rec.Lower,
		Step:       rec.Step,
		Learned:    rec.Learned,
	}
	result := r.db.Create(sample)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert calibration sample")
	}
	return nil
}

// LearnedSimilarity returns the most recently learned threshold for a
// target, if one was ever recorded
func (r *Repository) LearnedSimilarity(target string) (float64, bool, error) {
	var sample models.CalibrationSample
	result := r.db.Where("target_name = ?", target).Order("timestamp DESC").First(&sample)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(result.Error, "failed to query calibration samples")
	}
	return sample.Learned, true, nil
}

// GetEventsSince retrieves all find events since a given time
func (r *Repository) GetEventsSince(since time.Time) ([]*models.FindEvent, error) {
	var events []*models.FindEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query find events")
	}

	return events, nil
}

// GetFailuresSince retrieves failed finds since a given time, most
// recent first
func (r *Repository) GetFailuresSince(since time.Time) ([]*models.FindEvent, error) {
	var events []*models.FindEvent
	result := r.db.Where("timestamp >= ? AND success = ?", since, false).
		Order("timestamp DESC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query failed finds")
	}

	return events, nil
}

// GetTargetSummarySince returns aggregated find statistics per target
func (r *Repository) GetTargetSummarySince(since time.Time) ([]models.TargetSummary, error) {
	var summaries []models.TargetSummary

	result := r.db.Model(&models.FindEvent{}).
		Select("target_name, COUNT(*) as event_count, SUM(success) as successes, AVG(duration_ms) as avg_ms").
		Where("timestamp >= ?", since).
		Group("target_name").
		Order("event_count DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query target summary")
	}

	return summaries, nil
}

// GetLatest retrieves the most recent find event
func (r *Repository) GetLatest() (*models.FindEvent, error) {
	var event models.FindEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.FindEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}
