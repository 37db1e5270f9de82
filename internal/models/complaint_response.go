package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintResponse is a message attached to a complaint by an agency or admin.
type ComplaintResponse struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	ComplaintID string `gorm:"type:text;not null;index" json:"complaintId"`
	UserID      string `gorm:"type:text;not null;index" json:"userId"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// UserRole is the responder's role when the response was written. It is a
	// snapshot and does not follow later changes to User.Role.
	UserRole  Role      `gorm:"type:text;not null" json:"userRole"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *ComplaintResponse) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
