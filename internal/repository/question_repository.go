package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ilamaran/vinavidai/internal/model"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uuid.UUID) (*model.Question, error)
	FindAll() ([]model.Question, error)
	FindActive(now time.Time) ([]model.Question, error)
	Update(question *model.Question) error
	// PublishBatch promotes every listed draft to published with the given
	// window, atomically: if any id is missing or not a draft, nothing changes.
	PublishBatch(ids []uuid.UUID, release, disappear time.Time) error
	Delete(ids []uuid.UUID) error
	CountByStatus(status model.QuestionStatus) (int64, error)
	Count() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uuid.UUID) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("seq ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindActive(now time.Time) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Where("status = ?", model.QuestionStatusPublished).
		Where("release_date <= ? AND disappear_date > ?", now, now).
		Order("seq ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) PublishBatch(ids []uuid.UUID, release, disappear time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var questions []model.Question
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", ids).Find(&questions).Error; err != nil {
			return err
		}
		if len(questions) != len(ids) {
			return model.ErrNotFound
		}
		for _, q := range questions {
			if q.Status != model.QuestionStatusDraft {
				return model.ErrQuestionPublished
			}
		}
		return tx.Model(&model.Question{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":         model.QuestionStatusPublished,
				"release_date":   release,
				"disappear_date": disappear,
			}).Error
	})
}

func (r *questionRepository) Delete(ids []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id IN ?", ids).Delete(&model.Question{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return model.ErrNotFound
		}
		return nil
	})
}

func (r *questionRepository) CountByStatus(status model.QuestionStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *questionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Count(&count).Error
	return count, err
}
