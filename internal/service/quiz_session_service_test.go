package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ilamaran/vinavidai/internal/model"
)

// publishedQuestion builds a published question active in [release, disappear)
// whose correct answer is "Option A".
func publishedQuestion(n int, release, disappear time.Time) *model.Question {
	return &model.Question{
		ID:            uuid.New(),
		TextEN:        fmt.Sprintf("Question %d?", n),
		TextTA:        fmt.Sprintf("கேள்வி %d?", n),
		OptionsEN:     []string{"Option A", "Option B", "Option C", "Option D"},
		OptionsTA:     []string{"விருப்பம் அ", "விருப்பம் ஆ", "விருப்பம் இ", "விருப்பம் ஈ"},
		CorrectEN:     "Option A",
		CorrectTA:     "விருப்பம் அ",
		Status:        model.QuestionStatusPublished,
		ReleaseDate:   &release,
		DisappearDate: &disappear,
	}
}

type sessionFixture struct {
	svc       QuizSessionService
	questions []*model.Question
	scoreRepo *fakeScoreRepo
	clock     *fakeClock
}

// newSessionFixture seeds count published questions in the window
// [2024-01-01T00:00Z, 2024-01-02T00:00Z) with the clock at noon.
func newSessionFixture(t *testing.T, count int) *sessionFixture {
	t.Helper()
	questionRepo := newFakeQuestionRepo()
	release := ts("2024-01-01T00:00:00Z")
	disappear := ts("2024-01-02T00:00:00Z")

	var questions []*model.Question
	for i := 0; i < count; i++ {
		q := publishedQuestion(i+1, release, disappear)
		if err := questionRepo.Create(q); err != nil {
			t.Fatalf("seed question failed: %v", err)
		}
		questions = append(questions, q)
	}

	scoreRepo := newFakeScoreRepo()
	clock := newFakeClock(ts("2024-01-01T12:00:00Z"))
	svc := NewQuizSessionServiceWithClock(NewActiveQuizService(questionRepo, scoreRepo), scoreRepo, clock.Now)
	return &sessionFixture{svc: svc, questions: questions, scoreRepo: scoreRepo, clock: clock}
}

func (fx *sessionFixture) answerAndAdvance(t *testing.T, userID uuid.UUID, answers []string) {
	t.Helper()
	for i, answer := range answers {
		if _, err := fx.svc.Answer(userID, fx.questions[i].ID, answer); err != nil {
			t.Fatalf("answer question %d failed: %v", i+1, err)
		}
		if i < len(fx.questions)-1 {
			if _, err := fx.svc.Advance(userID); err != nil {
				t.Fatalf("advance from question %d failed: %v", i+1, err)
			}
		}
	}
}

func TestFullSessionAllCorrect(t *testing.T) {
	fx := newSessionFixture(t, 5)
	userID := uuid.New()

	session, err := fx.svc.Start(userID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if session.TotalQuestions != 5 || session.CurrentIndex != 0 {
		t.Fatalf("unexpected initial session: %+v", session)
	}
	if session.Question.TextEN != fx.questions[0].TextEN {
		t.Fatalf("session must begin at the first question, got %q", session.Question.TextEN)
	}

	fx.answerAndAdvance(t, userID, []string{"Option A", "Option A", "Option A", "Option A", "Option A"})

	result, err := fx.svc.Submit(userID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 5 || result.TotalQuestions != 5 {
		t.Fatalf("expected 5/5, got %d/%d", result.Score, result.TotalQuestions)
	}
	if len(result.Answers) != 5 {
		t.Fatalf("expected 5 answered questions, got %d", len(result.Answers))
	}
	for i, a := range result.Answers {
		if !a.IsCorrect || a.QuestionID != fx.questions[i].ID {
			t.Fatalf("answer %d: %+v", i, a)
		}
	}
	if len(fx.scoreRepo.records) != 1 {
		t.Fatalf("expected exactly one score record, got %d", len(fx.scoreRepo.records))
	}
}

func TestSessionScoresMixedAnswers(t *testing.T) {
	fx := newSessionFixture(t, 3)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fx.answerAndAdvance(t, userID, []string{"Option A", "Option B", "Option A"})

	result, err := fx.svc.Submit(userID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}
	if result.Answers[1].IsCorrect {
		t.Fatalf("wrong answer recorded as correct: %+v", result.Answers[1])
	}
}

func TestStartWithoutActiveQuiz(t *testing.T) {
	fx := newSessionFixture(t, 2)
	fx.clock.Set(ts("2024-01-05T00:00:00Z"))

	if _, err := fx.svc.Start(uuid.New()); !errors.Is(err, model.ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz, got %v", err)
	}
}

func TestStartAfterCompletionIsDistinctFromNoQuiz(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fx.answerAndAdvance(t, userID, []string{"Option A", "Option A"})
	if _, err := fx.svc.Submit(userID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// The quiz is still live, so the completed user gets ErrQuizCompleted
	// while a fresh user can start normally.
	if _, err := fx.svc.Start(userID); !errors.Is(err, model.ErrQuizCompleted) {
		t.Fatalf("expected ErrQuizCompleted, got %v", err)
	}
	if _, err := fx.svc.Start(uuid.New()); err != nil {
		t.Fatalf("other users must still be able to start: %v", err)
	}
}

func TestStartTwiceFailsWhileInProgress(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Start(userID); !errors.Is(err, model.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
}

func TestAnswerRejectsUnknownQuestionAndOption(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, uuid.New(), "Option A"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown question, got %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option Z"); !model.IsValidation(err) {
		t.Fatalf("expected validation error for unknown option, got %v", err)
	}
}

func TestAnswerAllowsRevision(t *testing.T) {
	fx := newSessionFixture(t, 1)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option B"); err != nil {
		t.Fatalf("first answer failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option A"); err != nil {
		t.Fatalf("revised answer failed: %v", err)
	}

	result, err := fx.svc.Submit(userID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("the last answer must win, got score %d", result.Score)
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Advance(userID); !errors.Is(err, model.ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
}

func TestAdvancePastLastQuestion(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fx.answerAndAdvance(t, userID, []string{"Option A", "Option A"})

	if _, err := fx.svc.Advance(userID); !model.IsValidation(err) {
		t.Fatalf("advancing past the last question must fail, got %v", err)
	}
}

func TestSubmitRequiresAllAnswers(t *testing.T) {
	fx := newSessionFixture(t, 3)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option A"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	if _, err := fx.svc.Submit(userID); !errors.Is(err, model.ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	if len(fx.scoreRepo.records) != 0 {
		t.Fatalf("partial submit must not persist anything")
	}
}

func TestSubmitIsNotRepeatable(t *testing.T) {
	fx := newSessionFixture(t, 1)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fx.answerAndAdvance(t, userID, []string{"Option A"})
	if _, err := fx.svc.Submit(userID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := fx.svc.Submit(userID); !errors.Is(err, model.ErrSessionSubmitted) {
		t.Fatalf("expected ErrSessionSubmitted, got %v", err)
	}
	if len(fx.scoreRepo.records) != 1 {
		t.Fatalf("repeat submit must not create a second record, got %d", len(fx.scoreRepo.records))
	}
}

func TestSubmitFailureKeepsSessionInProgress(t *testing.T) {
	fx := newSessionFixture(t, 1)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fx.answerAndAdvance(t, userID, []string{"Option A"})

	fx.scoreRepo.createErr = errors.New("database down")
	if _, err := fx.svc.Submit(userID); err == nil {
		t.Fatalf("expected submit to fail while the store is down")
	}

	// The session survived the failed write, so a retry succeeds with the
	// same answers.
	fx.scoreRepo.createErr = nil
	result, err := fx.svc.Submit(userID)
	if err != nil {
		t.Fatalf("retry submit failed: %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("answers were lost across the retry, got score %d", result.Score)
	}
	if len(fx.scoreRepo.records) != 1 {
		t.Fatalf("expected one record after retry, got %d", len(fx.scoreRepo.records))
	}
}

func TestDeadlineForcesSubmit(t *testing.T) {
	fx := newSessionFixture(t, 5)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option A"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := fx.svc.Advance(userID); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[1].ID, "Option A"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	fx.clock.Set(ts("2024-01-02T00:00:00Z"))

	// Any interaction past the deadline settles the session.
	if _, err := fx.svc.Answer(userID, fx.questions[2].ID, "Option A"); !errors.Is(err, model.ErrSessionSubmitted) {
		t.Fatalf("expected ErrSessionSubmitted past the deadline, got %v", err)
	}

	if len(fx.scoreRepo.records) != 1 {
		t.Fatalf("expected a force-submitted record, got %d", len(fx.scoreRepo.records))
	}
	record := fx.scoreRepo.records[0]
	if record.Score != 2 || record.TotalQuestions != 5 {
		t.Fatalf("expected 2/5 from the answers given before the deadline, got %d/%d", record.Score, record.TotalQuestions)
	}
	for _, a := range record.Answers[2:] {
		if a.UserAnswer != "" || a.IsCorrect {
			t.Fatalf("unanswered question must count as wrong: %+v", a)
		}
	}
}

func TestSweepExpiredForcesSubmitAndRetries(t *testing.T) {
	fx := newSessionFixture(t, 2)
	userID := uuid.New()

	if _, err := fx.svc.Start(userID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option A"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	if forced := fx.svc.SweepExpired(); forced != 0 {
		t.Fatalf("nothing should be forced before the deadline, got %d", forced)
	}

	fx.clock.Set(ts("2024-01-02T00:00:00Z"))

	fx.scoreRepo.createErr = errors.New("database down")
	if forced := fx.svc.SweepExpired(); forced != 0 {
		t.Fatalf("a failed persist must not count as forced, got %d", forced)
	}

	// The session is retained and settled on the next sweep.
	fx.scoreRepo.createErr = nil
	if forced := fx.svc.SweepExpired(); forced != 1 {
		t.Fatalf("expected one forced submission, got %d", forced)
	}
	if len(fx.scoreRepo.records) != 1 {
		t.Fatalf("expected one record, got %d", len(fx.scoreRepo.records))
	}
	if fx.scoreRepo.records[0].Score != 1 {
		t.Fatalf("expected score 1 from the single answer, got %d", fx.scoreRepo.records[0].Score)
	}
}

func TestOperationsWithoutSession(t *testing.T) {
	fx := newSessionFixture(t, 1)
	userID := uuid.New()

	if _, err := fx.svc.Answer(userID, fx.questions[0].ID, "Option A"); !errors.Is(err, model.ErrNoSession) {
		t.Fatalf("expected ErrNoSession from answer, got %v", err)
	}
	if _, err := fx.svc.Advance(userID); !errors.Is(err, model.ErrNoSession) {
		t.Fatalf("expected ErrNoSession from advance, got %v", err)
	}
	if _, err := fx.svc.Submit(userID); !errors.Is(err, model.ErrNoSession) {
		t.Fatalf("expected ErrNoSession from submit, got %v", err)
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	fx := newSessionFixture(t, 1)
	first, second := uuid.New(), uuid.New()

	if _, err := fx.svc.Start(first); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Start(second); err != nil {
		t.Fatalf("second user start failed: %v", err)
	}

	if _, err := fx.svc.Answer(first, fx.questions[0].ID, "Option A"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := fx.svc.Submit(second); !errors.Is(err, model.ErrUnanswered) {
		t.Fatalf("second user must not see the first user's answers, got %v", err)
	}
}
