package dto

import (
	"time"

	"github.com/google/uuid"
)

// QuestionResponseDTO is the admin view of a question, correct answers included.
type QuestionResponseDTO struct {
	ID            uuid.UUID  `json:"id"`
	TextEN        string     `json:"text_en"`
	TextTA        string     `json:"text_ta"`
	OptionsEN     []string   `json:"options_en"`
	OptionsTA     []string   `json:"options_ta"`
	CorrectEN     string     `json:"correct_answer_en"`
	CorrectTA     string     `json:"correct_answer_ta"`
	Status        string     `json:"status"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	DisappearDate *time.Time `json:"disappear_date,omitempty"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"last_modified_date"`
}

// QuizQuestionDTO is the user-facing view of an active question. Correct
// answers are never serialized to quiz takers.
type QuizQuestionDTO struct {
	ID        uuid.UUID `json:"id"`
	TextEN    string    `json:"text_en"`
	TextTA    string    `json:"text_ta"`
	OptionsEN []string  `json:"options_en"`
	OptionsTA []string  `json:"options_ta"`
}

// QuizSessionDTO reports the state of an in-progress session after each
// operation: which question is current and how far along the taker is.
type QuizSessionDTO struct {
	CurrentIndex   int             `json:"current_index"`
	TotalQuestions int             `json:"total_questions"`
	Answered       int             `json:"answered"`
	Deadline       time.Time       `json:"deadline"`
	Question       QuizQuestionDTO `json:"question"`
}

type AnsweredQuestionDTO struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionTextEN string    `json:"question_text_en"`
	QuestionTextTA string    `json:"question_text_ta"`
	UserAnswer     string    `json:"user_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

type ScoreRecordSummaryDTO struct {
	ID             uuid.UUID `json:"id"`
	QuizDate       time.Time `json:"quiz_date"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
}

type ScoreRecordDetailDTO struct {
	ID             uuid.UUID             `json:"id"`
	UserID         uuid.UUID             `json:"user_id"`
	QuizDate       time.Time             `json:"quiz_date"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	Answers        []AnsweredQuestionDTO `json:"answered_questions"`
}

type MonthlyAverageDTO struct {
	Month        string  `json:"month"` // YYYY-MM
	AverageScore float64 `json:"average_score"`
}

type LeaderboardEntryDTO struct {
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
}

type UserResponseDTO struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

// CredentialResponseDTO carries a freshly generated password. It is shown to
// the admin exactly once; only the hash is stored.
type CredentialResponseDTO struct {
	User     UserResponseDTO `json:"user"`
	Password string          `json:"password"`
}

type TokenResponseDTO struct {
	Token              string    `json:"token"`
	UserID             uuid.UUID `json:"user_id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
}

type NoticeResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Recipient string    `json:"recipient"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStatsDTO struct {
	TotalUsers         int64 `json:"total_users"`
	TotalQuestions     int64 `json:"total_questions"`
	DraftQuestions     int64 `json:"draft_questions"`
	PublishedQuestions int64 `json:"published_questions"`
	ActiveQuestions    int64 `json:"active_questions"`
	TotalSubmissions   int64 `json:"total_submissions"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
