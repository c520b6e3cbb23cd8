package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// ScheduleService promotes drafts to published by assigning them a visibility
// window. A bulk schedule is all-or-nothing: either every id gets the window
// or none does.
type ScheduleService interface {
	Schedule(ids []uuid.UUID, release, disappear time.Time) error
}

type scheduleService struct {
	questionRepo repository.QuestionRepository
}

func NewScheduleService(questionRepo repository.QuestionRepository) ScheduleService {
	return &scheduleService{questionRepo: questionRepo}
}

func (s *scheduleService) Schedule(ids []uuid.UUID, release, disappear time.Time) error {
	if len(ids) == 0 {
		return model.NewValidationError("at least one question id is required")
	}
	if !release.Before(disappear) {
		return model.NewValidationError("release date must precede disappear date")
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return model.NewValidationError("duplicate question id %s in schedule", id)
		}
		seen[id] = true
	}

	if err := s.questionRepo.PublishBatch(ids, release, disappear); err != nil {
		log.Error().Err(err).Int("count", len(ids)).Msg("Failed to publish question batch")
		return err
	}
	log.Info().Int("count", len(ids)).Time("release", release).Time("disappear", disappear).
		Msg("Question batch published")
	return nil
}
