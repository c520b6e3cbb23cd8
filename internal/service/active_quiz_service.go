package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// ActiveQuizService selects the question set that is visible right now.
// "Nothing active" and "user already took this quiz" are deliberately two
// separate questions with two separate answers; callers must not conflate
// them.
type ActiveQuizService interface {
	ActiveQuestions(now time.Time) ([]model.Question, error)
	AlreadyCompleted(userID uuid.UUID, now time.Time) (bool, error)
}

type activeQuizService struct {
	questionRepo repository.QuestionRepository
	scoreRepo    repository.ScoreRepository
}

func NewActiveQuizService(questionRepo repository.QuestionRepository, scoreRepo repository.ScoreRepository) ActiveQuizService {
	return &activeQuizService{questionRepo: questionRepo, scoreRepo: scoreRepo}
}

// ActiveQuestions returns every published question whose window contains now,
// in creation order. An empty result is not an error.
func (s *activeQuizService) ActiveQuestions(now time.Time) ([]model.Question, error) {
	questions, err := s.questionRepo.FindActive(now)
	if err != nil {
		return nil, fmt.Errorf("error selecting active questions: %w", err)
	}
	return questions, nil
}

func (s *activeQuizService) AlreadyCompleted(userID uuid.UUID, now time.Time) (bool, error) {
	done, err := s.scoreRepo.ExistsForWindow(userID, now)
	if err != nil {
		return false, fmt.Errorf("error checking completed quizzes: %w", err)
	}
	return done, nil
}

// sessionWindow computes the window shared by a non-empty active set: the
// latest release and the earliest disappear. Every question in the set
// contains now, so the intersection is non-empty.
func sessionWindow(questions []model.Question) (start, end time.Time) {
	start = *questions[0].ReleaseDate
	end = *questions[0].DisappearDate
	for _, q := range questions[1:] {
		if q.ReleaseDate.After(start) {
			start = *q.ReleaseDate
		}
		if q.DisappearDate.Before(end) {
			end = *q.DisappearDate
		}
	}
	return start, end
}
