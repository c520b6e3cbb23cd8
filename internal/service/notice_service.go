package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/ilamaran/vinavidai/internal/dto"
	"github.com/ilamaran/vinavidai/internal/model"
	"github.com/ilamaran/vinavidai/internal/repository"
)

// NoticeService manages announcements. Dismissal is per-recipient state;
// only the admin hard-delete removes a notice for everyone.
type NoticeService interface {
	CreateNotice(req dto.NoticeCreateDTO) (*dto.NoticeResponseDTO, error)
	ListAll() ([]dto.NoticeResponseDTO, error)
	ListForUser(userID uuid.UUID) ([]dto.NoticeResponseDTO, error)
	Dismiss(noticeID, userID uuid.UUID) error
	DeleteNotice(id uuid.UUID) error
}

type noticeService struct {
	noticeRepo repository.NoticeRepository
	userRepo   repository.UserRepository
}

func NewNoticeService(noticeRepo repository.NoticeRepository, userRepo repository.UserRepository) NoticeService {
	return &noticeService{noticeRepo: noticeRepo, userRepo: userRepo}
}

func (s *noticeService) CreateNotice(req dto.NoticeCreateDTO) (*dto.NoticeResponseDTO, error) {
	if req.Recipient != model.NoticeRecipientGlobal {
		userID, err := uuid.Parse(req.Recipient)
		if err != nil {
			return nil, model.NewValidationError("recipient must be %q or a user id", model.NoticeRecipientGlobal)
		}
		if _, err := s.userRepo.FindByID(userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewValidationError("recipient user %s does not exist", userID)
			}
			return nil, fmt.Errorf("error checking recipient: %w", err)
		}
	}

	notice := model.Notice{
		Title:     req.Title,
		Content:   req.Content,
		Recipient: req.Recipient,
		ImageURL:  req.ImageURL,
	}
	if err := s.noticeRepo.Create(&notice); err != nil {
		log.Error().Err(err).Msg("Failed to create notice")
		return nil, fmt.Errorf("database error creating notice: %w", err)
	}
	var resp dto.NoticeResponseDTO
	copier.Copy(&resp, &notice)
	return &resp, nil
}

func (s *noticeService) ListAll() ([]dto.NoticeResponseDTO, error) {
	notices, err := s.noticeRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching notices: %w", err)
	}
	return noticeDTOs(notices), nil
}

func (s *noticeService) ListForUser(userID uuid.UUID) ([]dto.NoticeResponseDTO, error) {
	notices, err := s.noticeRepo.FindVisibleToUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching notices: %w", err)
	}
	return noticeDTOs(notices), nil
}

func (s *noticeService) Dismiss(noticeID, userID uuid.UUID) error {
	notice, err := s.noticeRepo.FindByID(noticeID)
	if err != nil {
		return err
	}
	if notice.Recipient != model.NoticeRecipientGlobal && notice.Recipient != userID.String() {
		return model.ErrNotFound
	}
	return s.noticeRepo.Dismiss(noticeID, userID)
}

func (s *noticeService) DeleteNotice(id uuid.UUID) error {
	return s.noticeRepo.Delete(id)
}

func noticeDTOs(notices []model.Notice) []dto.NoticeResponseDTO {
	out := make([]dto.NoticeResponseDTO, 0, len(notices))
	for _, n := range notices {
		var item dto.NoticeResponseDTO
		copier.Copy(&item, &n)
		out = append(out, item)
	}
	return out
}
