package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agency is an organizational unit that owns categories and receives complaints.
type Agency struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Categories []Category  `gorm:"foreignKey:AgencyID;constraint:OnDelete:RESTRICT" json:"categories,omitempty"`
	Complaints []Complaint `gorm:"foreignKey:AssignedToAgencyID;constraint:OnDelete:SET NULL" json:"complaints,omitempty"`
}

func (a *Agency) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
