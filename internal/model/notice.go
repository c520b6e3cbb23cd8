package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoticeRecipientGlobal targets a notice at every user.
const NoticeRecipientGlobal = "global"

type Notice struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Recipient string         `gorm:"not null;index" json:"recipient"` // "global" or a user ID
	ImageURL  *string        `json:"image_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NoticeDismissal marks a notice as dismissed by one user. Dismissal never
// deletes the notice record itself.
type NoticeDismissal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NoticeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notice_dismissal" json:"notice_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notice_dismissal" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *NoticeDismissal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
