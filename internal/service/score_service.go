package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

const leaderboardSize = 5

// ScoreService folds score records into user-facing history, monthly
// averages, the global leaderboard, and admin dashboard counts.
type ScoreService interface {
	History(userID uuid.UUID) ([]dto.ScoreRecordSummaryDTO, error)
	HistoryDetail(recordID, requesterID uuid.UUID, isAdmin bool) (*dto.ScoreRecordDetailDTO, error)
	MonthlyAverages(userID uuid.UUID) ([]dto.MonthlyAverageDTO, error)
	Leaderboard() ([]dto.LeaderboardEntryDTO, error)
	DashboardStats(now time.Time) (*dto.DashboardStatsDTO, error)
}

type scoreService struct {
	scoreRepo    repository.ScoreRepository
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
}

func NewScoreService(scoreRepo repository.ScoreRepository, userRepo repository.UserRepository, questionRepo repository.QuestionRepository) ScoreService {
	return &scoreService{scoreRepo: scoreRepo, userRepo: userRepo, questionRepo: questionRepo}
}

func (s *scoreService) History(userID uuid.UUID) ([]dto.ScoreRecordSummaryDTO, error) {
	records, err := s.scoreRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching score history: %w", err)
	}
	out := make([]dto.ScoreRecordSummaryDTO, 0, len(records))
	for _, r := range records {
		var item dto.ScoreRecordSummaryDTO
		copier.Copy(&item, &r)
		out = append(out, item)
	}
	return out, nil
}

func (s *scoreService) HistoryDetail(recordID, requesterID uuid.UUID, isAdmin bool) (*dto.ScoreRecordDetailDTO, error) {
	record, err := s.scoreRepo.FindByID(recordID)
	if err != nil {
		return nil, err
	}
	// Records are readable by their owner and by admins only.
	if !isAdmin && record.UserID != requesterID {
		return nil, model.ErrNotFound
	}
	var resp dto.ScoreRecordDetailDTO
	copier.Copy(&resp, record)
	resp.Answers = answeredDTOs(record.Answers)
	return &resp, nil
}

// MonthlyAverages groups the user's records by calendar month and averages
// the percentage score within each month, chronologically.
func (s *scoreService) MonthlyAverages(userID uuid.UUID) ([]dto.MonthlyAverageDTO, error) {
	records, err := s.scoreRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching score history: %w", err)
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		if r.TotalQuestions == 0 {
			continue
		}
		month := r.QuizDate.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		b.sum += float64(r.Score) / float64(r.TotalQuestions) * 100
		b.count++
	}

	out := make([]dto.MonthlyAverageDTO, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, dto.MonthlyAverageDTO{
			Month:        month,
			AverageScore: b.sum / float64(b.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Leaderboard ranks users by total score across all records, top 5. Ties go
// to the user whose first submission came earlier.
func (s *scoreService) Leaderboard() ([]dto.LeaderboardEntryDTO, error) {
	records, err := s.scoreRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching score records: %w", err)
	}

	type entry struct {
		userID uuid.UUID
		total  int
		first  time.Time
	}
	totals := make(map[uuid.UUID]*entry)
	for _, r := range records {
		e, ok := totals[r.UserID]
		if !ok {
			e = &entry{userID: r.UserID, first: r.QuizDate}
			totals[r.UserID] = e
		}
		e.total += r.Score
		if r.QuizDate.Before(e.first) {
			e.first = r.QuizDate
		}
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching leaderboard users: %w", err)
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	// Deleted accounts drop off the board before ranking.
	entries := make([]*entry, 0, len(totals))
	for _, e := range totals {
		if _, ok := usernames[e.userID]; ok {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].first.Before(entries[j].first)
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}

	out := make([]dto.LeaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LeaderboardEntryDTO{Username: usernames[e.userID], TotalScore: e.total})
	}
	return out, nil
}

func (s *scoreService) DashboardStats(now time.Time) (*dto.DashboardStatsDTO, error) {
	stats := &dto.DashboardStatsDTO{}
	var err error
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if stats.TotalQuestions, err = s.questionRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting questions: %w", err)
	}
	if stats.DraftQuestions, err = s.questionRepo.CountByStatus(model.QuestionStatusDraft); err != nil {
		return nil, fmt.Errorf("error counting drafts: %w", err)
	}
	if stats.PublishedQuestions, err = s.questionRepo.CountByStatus(model.QuestionStatusPublished); err != nil {
		return nil, fmt.Errorf("error counting published questions: %w", err)
	}
	active, err := s.questionRepo.FindActive(now)
	if err != nil {
		return nil, fmt.Errorf("error selecting active questions: %w", err)
	}
	stats.ActiveQuestions = int64(len(active))
	if stats.TotalSubmissions, err = s.scoreRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting submissions: %w", err)
	}
	return stats, nil
}
