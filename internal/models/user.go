package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is anyone who signs in: citizens filing complaints, agency staff and admins.
type User struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	Name     string `gorm:"type:text;not null" json:"name"`
	Email    string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:text;not null" json:"-"` // bcrypt hash
	Role     Role   `gorm:"type:text;not null" json:"role"`
	// AgencyID links an agency-role user to the agency they act for.
	AgencyID *string `gorm:"type:text;index" json:"agencyId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Complaints []Complaint         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"complaints,omitempty"`
	Responses  []ComplaintResponse `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"responses,omitempty"`
}

// BeforeCreate is a GORM hook that generates a UUID when no ID was set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleCitizen
	}
	return
}
