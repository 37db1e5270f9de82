package models

import "time"

// EventType names what happened to a complaint.
type EventType string

const (
	EventCreated       EventType = "created"
	EventStatusChanged EventType = "status_changed"
	EventAssigned      EventType = "assigned"
	EventResponseAdded EventType = "response_added"
)

// ComplaintEvent is pushed to live dashboards and admin notifications.
type ComplaintEvent struct {
	Type               EventType `json:"type"`
	ComplaintID        string    `json:"complaint_id"`
	Title              string    `json:"title"`
	Status             Status    `json:"status"`
	UserID             string    `json:"user_id"`
	AssignedToAgencyID *string   `json:"assigned_to_agency_id,omitempty"`
	At                 time.Time `json:"at"`
}

// NewComplaintEvent snapshots c into an event of type t.
func NewComplaintEvent(t EventType, c *Complaint, at time.Time) ComplaintEvent {
	return ComplaintEvent{
		Type:               t,
		ComplaintID:        c.ID,
		Title:              c.Title,
		Status:             c.Status,
		UserID:             c.UserID,
		AssignedToAgencyID: c.AssignedToAgencyID,
		At:                 at,
	}
}
