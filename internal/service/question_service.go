package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// QuestionService manages the question lifecycle. Drafts can be edited in
// place; once published a question's content is frozen and only bulk delete
// remains.
type QuestionService interface {
	CreateDraft(authorID uuid.UUID, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateDraft(id uuid.UUID, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error)
	GetQuestion(id uuid.UUID) (*dto.QuestionResponseDTO, error)
	GetAllQuestions() ([]dto.QuestionResponseDTO, error)
	DeleteQuestions(ids []uuid.UUID) error
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

// validateBilingual checks that both language variants are complete: non-empty
// text, 4 non-empty options, and a correct answer that is one of them.
func validateBilingual(req dto.QuestionCreateDTO) error {
	type variant struct {
		lang    string
		text    string
		options []string
		correct string
	}
	for _, v := range []variant{
		{"en", req.TextEN, req.OptionsEN, req.CorrectEN},
		{"ta", req.TextTA, req.OptionsTA, req.CorrectTA},
	} {
		if strings.TrimSpace(v.text) == "" {
			return model.NewValidationError("question text (%s) must not be empty", v.lang)
		}
		if len(v.options) != 4 {
			return model.NewValidationError("exactly 4 options (%s) are required, got %d", v.lang, len(v.options))
		}
		found := false
		for _, opt := range v.options {
			if strings.TrimSpace(opt) == "" {
				return model.NewValidationError("options (%s) must not contain empty entries", v.lang)
			}
			if opt == v.correct {
				found = true
			}
		}
		if !found {
			return model.NewValidationError("correct answer (%s) must equal one of the options", v.lang)
		}
	}
	return nil
}

func (s *questionService) CreateDraft(authorID uuid.UUID, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if err := validateBilingual(req); err != nil {
		return nil, err
	}

	question := model.Question{
		TextEN:    req.TextEN,
		TextTA:    req.TextTA,
		OptionsEN: req.OptionsEN,
		OptionsTA: req.OptionsTA,
		CorrectEN: req.CorrectEN,
		CorrectTA: req.CorrectTA,
		Status:    model.QuestionStatusDraft,
		AuthorID:  authorID,
	}
	if err := s.repo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create draft question")
		return nil, fmt.Errorf("database error creating question: %w", err)
	}

	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, &question)
	return &resp, nil
}

func (s *questionService) UpdateDraft(id uuid.UUID, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error) {
	if err := validateBilingual(req); err != nil {
		return nil, err
	}

	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if question.Status != model.QuestionStatusDraft {
		return nil, model.ErrQuestionPublished
	}

	question.TextEN = req.TextEN
	question.TextTA = req.TextTA
	question.OptionsEN = req.OptionsEN
	question.OptionsTA = req.OptionsTA
	question.CorrectEN = req.CorrectEN
	question.CorrectTA = req.CorrectTA

	if err := s.repo.Update(question); err != nil {
		log.Error().Err(err).Str("questionID", id.String()).Msg("Failed to update draft question")
		return nil, fmt.Errorf("database error updating question: %w", err)
	}

	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) GetQuestion(id uuid.UUID) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponseDTO
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) GetAllQuestions() ([]dto.QuestionResponseDTO, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	resp := make([]dto.QuestionResponseDTO, 0, len(questions))
	for _, q := range questions {
		var item dto.QuestionResponseDTO
		copier.Copy(&item, &q)
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *questionService) DeleteQuestions(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return model.NewValidationError("at least one question id is required")
	}
	return s.repo.Delete(ids)
}
