package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionStatus string

const (
	QuestionStatusDraft     QuestionStatus = "draft"
	QuestionStatusPublished QuestionStatus = "published"
)

// Question is a bilingual multiple-choice question. Options are index-aligned
// across the two languages; the English option list is the canonical one for
// answer comparison.
type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Seq           int64          `gorm:"autoIncrement;uniqueIndex" json:"-"` // creation order, drives quiz ordering
	TextEN        string         `gorm:"type:text;not null" json:"text_en"`
	TextTA        string         `gorm:"type:text;not null" json:"text_ta"`
	OptionsEN     []string       `gorm:"serializer:json;type:jsonb;not null" json:"options_en"`
	OptionsTA     []string       `gorm:"serializer:json;type:jsonb;not null" json:"options_ta"`
	CorrectEN     string         `gorm:"not null" json:"correct_answer_en"`
	CorrectTA     string         `gorm:"not null" json:"correct_answer_ta"`
	Status        QuestionStatus `gorm:"not null;default:'draft';index" json:"status"`
	ReleaseDate   *time.Time     `json:"release_date,omitempty"`
	DisappearDate *time.Time     `json:"disappear_date,omitempty"`
	AuthorID      uuid.UUID      `gorm:"type:uuid;index" json:"author_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"last_modified_date"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// ActiveAt reports whether the question is visible at the given instant.
// The release boundary is inclusive, the disappear boundary exclusive.
func (q *Question) ActiveAt(now time.Time) bool {
	if q.Status != QuestionStatusPublished || q.ReleaseDate == nil || q.DisappearDate == nil {
		return false
	}
	return !now.Before(*q.ReleaseDate) && now.Before(*q.DisappearDate)
}
