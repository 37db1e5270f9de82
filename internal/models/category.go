package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category classifies complaint subject matter. Every category belongs to exactly one agency.
type Category struct {
	ID          string  `gorm:"primaryKey;type:text" json:"id"`
	Name        string  `gorm:"type:text;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	AgencyID    string  `gorm:"type:text;not null;index" json:"agencyId"`
	Agency      *Agency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Complaints []Complaint `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"complaints,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
