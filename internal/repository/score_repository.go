package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ilamaran/vinavidai/internal/model"
)

type ScoreRepository interface {
	Create(record *model.ScoreRecord) error
	FindByID(id uuid.UUID) (*model.ScoreRecord, error)
	FindByUser(userID uuid.UUID) ([]model.ScoreRecord, error)
	FindAll() ([]model.ScoreRecord, error)
	// ExistsForWindow reports whether the user already holds a record whose
	// quiz window contains the given instant.
	ExistsForWindow(userID uuid.UUID, now time.Time) (bool, error)
	Count() (int64, error)
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Create(record *model.ScoreRecord) error {
	// GORM creates the associated AnsweredQuestion rows in the same insert.
	return r.db.Create(record).Error
}

func (r *scoreRepository) FindByID(id uuid.UUID) (*model.ScoreRecord, error) {
	var record model.ScoreRecord
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answered_questions.position ASC")
		}).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *scoreRepository) FindByUser(userID uuid.UUID) ([]model.ScoreRecord, error) {
	var records []model.ScoreRecord
	err := r.db.Where("user_id = ?", userID).Order("quiz_date DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *scoreRepository) FindAll() ([]model.ScoreRecord, error) {
	var records []model.ScoreRecord
	if err := r.db.Order("quiz_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *scoreRepository) ExistsForWindow(userID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.ScoreRecord{}).
		Where("user_id = ?", userID).
		Where("window_release <= ? AND window_disappear > ?", now, now).
		Count(&count).Error
	return count > 0, err
}

func (r *scoreRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.ScoreRecord{}).Count(&count).Error
	return count, err
}
