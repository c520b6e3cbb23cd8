package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// QuizSessionService drives a user through the active question set one
// question at a time: Start -> Answer/Advance -> Submit. Sessions are held
// in memory; the persisted ScoreRecord is the durable outcome. One session
// per user, one submission per visibility window.
type QuizSessionService interface {
	Start(userID uuid.UUID) (*dto.QuizSessionDTO, error)
	Answer(userID uuid.UUID, questionID uuid.UUID, answer string) (*dto.QuizSessionDTO, error)
	Advance(userID uuid.UUID) (*dto.QuizSessionDTO, error)
	Submit(userID uuid.UUID) (*dto.ScoreRecordDetailDTO, error)
	// SweepExpired force-submits sessions whose window has closed and drops
	// finished ones. Returns the number of sessions force-submitted.
	SweepExpired() int
}

type quizSession struct {
	userID      uuid.UUID
	questions   []model.Question
	answers     map[uuid.UUID]string
	index       int
	windowStart time.Time
	deadline    time.Time
	submitted   bool
}

func (qs *quizSession) answeredAll() bool {
	for _, q := range qs.questions {
		if _, ok := qs.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

type quizSessionService struct {
	activeQuiz ActiveQuizService
	scoreRepo  repository.ScoreRepository
	now        func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*quizSession
}

func NewQuizSessionService(activeQuiz ActiveQuizService, scoreRepo repository.ScoreRepository) QuizSessionService {
	return NewQuizSessionServiceWithClock(activeQuiz, scoreRepo, time.Now)
}

// NewQuizSessionServiceWithClock allows deterministic timestamps in tests.
func NewQuizSessionServiceWithClock(activeQuiz ActiveQuizService, scoreRepo repository.ScoreRepository, now func() time.Time) QuizSessionService {
	return &quizSessionService{
		activeQuiz: activeQuiz,
		scoreRepo:  scoreRepo,
		now:        now,
		sessions:   make(map[uuid.UUID]*quizSession),
	}
}

func (s *quizSessionService) Start(userID uuid.UUID) (*dto.QuizSessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.sessions[userID]; ok {
		if !existing.submitted && now.Before(existing.deadline) {
			return nil, model.ErrSessionActive
		}
		// Window closed or already submitted: settle and fall through to the
		// completed-window check below.
		if !s.finishExpiredLocked(existing, now) {
			return nil, fmt.Errorf("failed to settle expired quiz session for user %s", userID)
		}
		delete(s.sessions, userID)
	}

	questions, err := s.activeQuiz.ActiveQuestions(now)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, model.ErrNoActiveQuiz
	}

	done, err := s.activeQuiz.AlreadyCompleted(userID, now)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, model.ErrQuizCompleted
	}

	start, end := sessionWindow(questions)
	session := &quizSession{
		userID:      userID,
		questions:   questions,
		answers:     make(map[uuid.UUID]string),
		windowStart: start,
		deadline:    end,
	}
	s.sessions[userID] = session

	log.Info().Str("userID", userID.String()).Int("questions", len(questions)).
		Time("deadline", end).Msg("Quiz session started")
	return sessionDTO(session), nil
}

func (s *quizSessionService) Answer(userID uuid.UUID, questionID uuid.UUID, answer string) (*dto.QuizSessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgressLocked(userID)
	if err != nil {
		return nil, err
	}

	var question *model.Question
	for i := range session.questions {
		if session.questions[i].ID == questionID {
			question = &session.questions[i]
			break
		}
	}
	if question == nil {
		return nil, model.ErrNotFound
	}

	// Answers are recorded as the canonical English option string.
	valid := false
	for _, opt := range question.OptionsEN {
		if opt == answer {
			valid = true
			break
		}
	}
	if !valid {
		return nil, model.NewValidationError("answer is not one of the question's options")
	}

	session.answers[questionID] = answer
	return sessionDTO(session), nil
}

func (s *quizSessionService) Advance(userID uuid.UUID) (*dto.QuizSessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgressLocked(userID)
	if err != nil {
		return nil, err
	}

	current := session.questions[session.index]
	if _, ok := session.answers[current.ID]; !ok {
		return nil, model.ErrUnanswered
	}
	if session.index == len(session.questions)-1 {
		return nil, model.NewValidationError("already at the last question, submit instead")
	}
	session.index++
	return sessionDTO(session), nil
}

func (s *quizSessionService) Submit(userID uuid.UUID) (*dto.ScoreRecordDetailDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.inProgressLocked(userID)
	if err != nil {
		return nil, err
	}
	if !session.answeredAll() {
		return nil, model.ErrUnanswered
	}

	record, err := s.persistLocked(session)
	if err != nil {
		// Session stays in progress so the user can retry the submission
		// without losing recorded answers.
		return nil, fmt.Errorf("failed to persist quiz result: %w", err)
	}

	var resp dto.ScoreRecordDetailDTO
	copier.Copy(&resp, record)
	resp.Answers = answeredDTOs(record.Answers)
	return &resp, nil
}

func (s *quizSessionService) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	forced := 0
	for userID, session := range s.sessions {
		if now.Before(session.deadline) {
			continue
		}
		if !session.submitted {
			if s.finishExpiredLocked(session, now) {
				forced++
			} else {
				continue // persist failed, retry on the next sweep
			}
		}
		delete(s.sessions, userID)
	}
	return forced
}

// inProgressLocked resolves the caller's session, settling it first if the
// deadline has passed. Callers must hold s.mu.
func (s *quizSessionService) inProgressLocked(userID uuid.UUID) (*quizSession, error) {
	session, ok := s.sessions[userID]
	if !ok {
		return nil, model.ErrNoSession
	}
	if session.submitted {
		return nil, model.ErrSessionSubmitted
	}
	if !s.now().Before(session.deadline) {
		s.finishExpiredLocked(session, s.now())
		return nil, model.ErrSessionSubmitted
	}
	return session, nil
}

// finishExpiredLocked force-submits a session past its deadline using the
// answers collected so far; unanswered questions count as wrong. Reports
// whether the result was persisted.
func (s *quizSessionService) finishExpiredLocked(session *quizSession, now time.Time) bool {
	if session.submitted {
		return true
	}
	if _, err := s.persistLocked(session); err != nil {
		log.Error().Err(err).Str("userID", session.userID.String()).
			Msg("Failed to persist force-submitted quiz result")
		return false
	}
	log.Info().Str("userID", session.userID.String()).Time("deadline", session.deadline).
		Msg("Quiz session force-submitted at deadline")
	return true
}

// persistLocked scores the session and stores the ScoreRecord. The session is
// marked submitted only after the write succeeds.
func (s *quizSessionService) persistLocked(session *quizSession) (*model.ScoreRecord, error) {
	record := &model.ScoreRecord{
		UserID:          session.userID,
		QuizDate:        s.now(),
		TotalQuestions:  len(session.questions),
		WindowRelease:   session.windowStart,
		WindowDisappear: session.deadline,
	}
	for i, q := range session.questions {
		answer := session.answers[q.ID] // empty when unanswered
		correct := answer == q.CorrectEN
		if correct {
			record.Score++
		}
		record.Answers = append(record.Answers, model.AnsweredQuestion{
			QuestionID:     q.ID,
			QuestionTextEN: q.TextEN,
			QuestionTextTA: q.TextTA,
			UserAnswer:     answer,
			CorrectAnswer:  q.CorrectEN,
			IsCorrect:      correct,
			Position:       i,
		})
	}
	if err := s.scoreRepo.Create(record); err != nil {
		return nil, err
	}
	session.submitted = true
	return record, nil
}

func sessionDTO(session *quizSession) *dto.QuizSessionDTO {
	var question dto.QuizQuestionDTO
	copier.Copy(&question, &session.questions[session.index])
	return &dto.QuizSessionDTO{
		CurrentIndex:   session.index,
		TotalQuestions: len(session.questions),
		Answered:       len(session.answers),
		Deadline:       session.deadline,
		Question:       question,
	}
}

func answeredDTOs(answers []model.AnsweredQuestion) []dto.AnsweredQuestionDTO {
	out := make([]dto.AnsweredQuestionDTO, 0, len(answers))
	for _, a := range answers {
		var item dto.AnsweredQuestionDTO
		copier.Copy(&item, &a)
		out = append(out, item)
	}
	return out
}
