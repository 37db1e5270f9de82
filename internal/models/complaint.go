package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Complaint is an issue filed by a citizen. CategoryID and UserID are fixed
// at creation; later writes only touch status, assignment and content.
type Complaint struct {
	ID          string  `gorm:"primaryKey;type:text" json:"id"`
	Title       string  `gorm:"type:text;not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Status      Status  `gorm:"type:text;not null;index" json:"status"`
	Location    *string `gorm:"type:text" json:"location,omitempty"`
	// Attachments holds URLs of photos or documents supplied with the complaint.
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`

	CategoryID string    `gorm:"type:text;not null;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	UserID string `gorm:"type:text;not null;index" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	AssignedToAgencyID *string `gorm:"type:text;index" json:"assignedToAgencyId,omitempty"`
	Agency             *Agency `gorm:"foreignKey:AssignedToAgencyID" json:"agency,omitempty"`

	Responses []ComplaintResponse `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}
