package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is attached to a post by reference. Creation does not check that
// the referenced post exists; read paths only ever filter by value, so a
// dangling reference is harmless.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Sender    string    `gorm:"size:36;not null;index" json:"sender"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
