package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoreRecord is the immutable result of one completed quiz attempt. The
// window columns pin the record to the visibility window the quiz was taken
// in, which is what "already completed" checks compare against.
type ScoreRecord struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizDate        time.Time          `gorm:"not null" json:"quiz_date"`
	Score           int                `gorm:"not null" json:"score"`
	TotalQuestions  int                `gorm:"not null" json:"total_questions"`
	WindowRelease   time.Time          `gorm:"not null;index" json:"window_release"`
	WindowDisappear time.Time          `gorm:"not null" json:"window_disappear"`
	Answers         []AnsweredQuestion `gorm:"foreignKey:ScoreRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answered_questions,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (s *ScoreRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// AnsweredQuestion snapshots one answered question inside a ScoreRecord.
// Question text is copied in so the record survives question deletion.
type AnsweredQuestion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ScoreRecordID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	QuestionTextEN string    `gorm:"type:text;not null" json:"question_text_en"`
	QuestionTextTA string    `gorm:"type:text;not null" json:"question_text_ta"`
	UserAnswer     string    `json:"user_answer"`
	CorrectAnswer  string    `gorm:"not null" json:"correct_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	Position       int       `gorm:"not null" json:"-"` // order within the quiz
}

func (a *AnsweredQuestion) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
