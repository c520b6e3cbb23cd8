package dto

import (
	"time"

	"github.com/google/uuid"
)

// QuestionCreateDTO is used by admins to author a draft question. Both
// language variants must be complete; the binding tags catch shape errors,
// the service validates answer membership.
type QuestionCreateDTO struct {
	TextEN    string   `json:"text_en" binding:"required"`
	TextTA    string   `json:"text_ta" binding:"required"`
	OptionsEN []string `json:"options_en" binding:"required,len=4,dive,required"`
	OptionsTA []string `json:"options_ta" binding:"required,len=4,dive,required"`
	CorrectEN string   `json:"correct_answer_en" binding:"required"`
	CorrectTA string   `json:"correct_answer_ta" binding:"required"`
}

// QuestionUpdateDTO mirrors QuestionCreateDTO; draft edits replace the whole
// bilingual payload.
type QuestionUpdateDTO = QuestionCreateDTO

// ScheduleDTO assigns a visibility window to one or more draft questions.
type ScheduleDTO struct {
	QuestionIDs   []uuid.UUID `json:"question_ids" binding:"required,min=1"`
	ReleaseDate   time.Time   `json:"release_date" binding:"required"`
	DisappearDate time.Time   `json:"disappear_date" binding:"required"`
}

// PublishWindowDTO is the window body for scheduling a single question.
type PublishWindowDTO struct {
	ReleaseDate   time.Time `json:"release_date" binding:"required"`
	DisappearDate time.Time `json:"disappear_date" binding:"required"`
}

// BulkDeleteDTO removes a set of questions, published ones included.
type BulkDeleteDTO struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1"`
}

// UserCreateDTO is for admin-side account creation. Password is optional;
// when omitted a random credential is generated and returned once.
type UserCreateDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// NoticeCreateDTO posts an announcement to all users or one user.
type NoticeCreateDTO struct {
	Title     string  `json:"title" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	Recipient string  `json:"recipient" binding:"required"` // "global" or a user ID
	ImageURL  *string `json:"image_url"`
}
