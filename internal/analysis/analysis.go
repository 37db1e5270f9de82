// Package analysis derives the dashboard view of complaints for a caller:
// the role-scoped subset, its status histogram, resolution rate, and the
// active and recent subsets. Everything here is pure computation over
// complaints that were already fetched.
package analysis

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrUnknownRole = errors.New("analysis: unknown viewer role")

// Viewer identifies who is looking. For RoleAgency, ID is the agency the
// caller acts for; otherwise it is the caller's user ID.
type Viewer struct {
	Role models.Role
	ID   string
}

// ViewerFor builds the viewer for an authenticated user.
func ViewerFor(u *models.User) Viewer {
	if u.Role == models.RoleAgency && u.AgencyID != nil {
		return Viewer{Role: u.Role, ID: *u.AgencyID}
	}
	return Viewer{Role: u.Role, ID: u.ID}
}

// CanSee reports whether v may see a complaint owned by ownerID and
// assigned to assignedAgencyID.
func CanSee(v Viewer, ownerID string, assignedAgencyID *string) (bool, error) {
	switch v.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleAgency:
		return assignedAgencyID != nil && *assignedAgencyID == v.ID, nil
	case models.RoleCitizen:
		return ownerID == v.ID, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, v.Role)
	}
}

// Scope returns the complaints v can see, in input order.
func Scope(v Viewer, complaints []models.Complaint) ([]models.Complaint, error) {
	scoped := make([]models.Complaint, 0, len(complaints))
	for _, c := range complaints {
		ok, err := CanSee(v, c.UserID, c.AssignedToAgencyID)
		if err != nil {
			return nil, err
		}
		if ok {
			scoped = append(scoped, c)
		}
	}
	return scoped, nil
}

// StatusCounts is the six-bucket status histogram.
type StatusCounts struct {
	Pending     int `json:"pending"`
	UnderReview int `json:"under_review"`
	Assigned    int `json:"assigned"`
	InProgress  int `json:"in_progress"`
	Resolved    int `json:"resolved"`
	Closed      int `json:"closed"`
}

// Add counts one complaint with status s.
func (sc *StatusCounts) Add(s models.Status) error {
	switch s {
	case models.StatusPending:
		sc.Pending++
	case models.StatusUnderReview:
		sc.UnderReview++
	case models.StatusAssigned:
		sc.Assigned++
	case models.StatusInProgress:
		sc.InProgress++
	case models.StatusResolved:
		sc.Resolved++
	case models.StatusClosed:
		sc.Closed++
	default:
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(s))
	}
	return nil
}

// Get returns the bucket for s, 0 for an unknown status.
func (sc StatusCounts) Get(s models.Status) int {
	switch s {
	case models.StatusPending:
		return sc.Pending
	case models.StatusUnderReview:
		return sc.UnderReview
	case models.StatusAssigned:
		return sc.Assigned
	case models.StatusInProgress:
		return sc.InProgress
	case models.StatusResolved:
		return sc.Resolved
	case models.StatusClosed:
		return sc.Closed
	}
	return 0
}

func (sc StatusCounts) Total() int {
	return sc.Pending + sc.UnderReview + sc.Assigned + sc.InProgress + sc.Resolved + sc.Closed
}

// ResolutionRate is round(100*resolved/total), or 0 when total is 0.
func ResolutionRate(resolved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(resolved) * 100 / float64(total)))
}

// Summary is the dashboard view for one viewer.
type Summary struct {
	Viewer         Viewer             `json:"-"`
	Complaints     []models.Complaint `json:"complaints"`
	Total          int                `json:"total"`
	StatusCounts   StatusCounts       `json:"statusCounts"`
	ResolvedCount  int                `json:"resolvedCount"`
	ResolutionRate int                `json:"resolutionRate"`
	Active         []models.Complaint `json:"active"`
	Recent         []models.Complaint `json:"recent"`
}

// Summarize scopes complaints to v once and derives every figure from that
// subset. Recent means created at or after now minus 30 calendar days.
func Summarize(v Viewer, complaints []models.Complaint, now time.Time) (*Summary, error) {
	scoped, err := Scope(v, complaints)
	if err != nil {
		return nil, err
	}

	since := now.AddDate(0, 0, -config.RecentWindowDays)
	sum := &Summary{
		Viewer:     v,
		Complaints: scoped,
		Total:      len(scoped),
		Active:     []models.Complaint{},
		Recent:     []models.Complaint{},
	}

	for _, c := range scoped {
		if err := sum.StatusCounts.Add(c.Status); err != nil {
			return nil, fmt.Errorf("complaint %s: %w", c.ID, err)
		}
		if c.Status.Closed() {
			sum.ResolvedCount++
		} else {
			sum.Active = append(sum.Active, c)
		}
		if !c.CreatedAt.Before(since) {
			sum.Recent = append(sum.Recent, c)
		}
	}

	sum.ResolutionRate = ResolutionRate(sum.ResolvedCount, sum.Total)
	return sum, nil
}
