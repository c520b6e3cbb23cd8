package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ilamaran/vinavidai/internal/model"
)

type NoticeRepository interface {
	Create(notice *model.Notice) error
	FindByID(id uuid.UUID) (*model.Notice, error)
	FindAll() ([]model.Notice, error)
	// FindVisibleToUser returns global notices plus those addressed to the
	// user, excluding ones the user has dismissed.
	FindVisibleToUser(userID uuid.UUID) ([]model.Notice, error)
	Dismiss(noticeID, userID uuid.UUID) error
	Delete(id uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(notice *model.Notice) error {
	return r.db.Create(notice).Error
}

func (r *noticeRepository) FindByID(id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.First(&notice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) FindAll() ([]model.Notice, error) {
	var notices []model.Notice
	if err := r.db.Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) FindVisibleToUser(userID uuid.UUID) ([]model.Notice, error) {
	var notices []model.Notice
	err := r.db.
		Where("recipient IN ?", []string{model.NoticeRecipientGlobal, userID.String()}).
		Where("id NOT IN (?)", r.db.Model(&model.NoticeDismissal{}).
			Select("notice_id").
			Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&notices).Error
	if err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) Dismiss(noticeID, userID uuid.UUID) error {
	dismissal := model.NoticeDismissal{NoticeID: noticeID, UserID: userID}
	err := r.db.Create(&dismissal).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Dismissing twice is a no-op.
		return nil
	}
	return err
}

func (r *noticeRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Notice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
