package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistEntry is one signup. Entries are only ever created; the store owns them afterwards.
type WaitlistEntry struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null;uniqueIndex" json:"email"`
	SignedUpAt time.Time `gorm:"not null" json:"signed_up_at"`
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
