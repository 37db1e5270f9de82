// Package complaint provides the workflows around complaints: submission,
// status changes, agency assignment and responses, with the visibility
// rules of the analysis package applied to every caller.
package complaint

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("complaint: not found")
	ErrForbidden    = errors.New("complaint: forbidden")
	ErrInvalidInput = errors.New("complaint: invalid input")
)

// Notifier receives every complaint event after it has been stored.
type Notifier interface {
	NotifyComplaintEvent(ctx context.Context, event models.ComplaintEvent) error
}

// Notifiers fans an event out to several notifiers, all of which are tried.
type Notifiers []Notifier

func (ns Notifiers) NotifyComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyComplaintEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
	Log      *zap.Logger
	Now      func() time.Time
}

// NewService creates a new complaint service. notifier may be nil.
func NewService(s storage.Storage, notifier Notifier, log *zap.Logger) *Service {
	return &Service{Storage: s, Notifier: notifier, Log: log, Now: time.Now}
}

// SubmitInput is what a citizen provides when filing a complaint.
type SubmitInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	CategoryID  string   `json:"categoryId" binding:"required"`
	Location    string   `json:"location"`
	Attachments []string `json:"attachments"`
}

// Submit files a new pending complaint on behalf of user.
func (s *Service) Submit(ctx context.Context, user *models.User, in SubmitInput) (*models.Complaint, error) {
	title := cleanText(in.Title)
	description := cleanText(in.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}

	category, err := s.Storage.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.CategoryID)
	}

	c := &models.Complaint{
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		CategoryID:  category.ID,
		UserID:      user.ID,
		Attachments: cleanAttachments(in.Attachments),
	}
	if loc := cleanText(in.Location); loc != "" {
		c.Location = &loc
	}

	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	metrics.ComplaintsSubmittedTotal.Inc()
	s.Log.Info("complaint submitted",
		zap.String("complaint_id", c.ID),
		zap.String("user_id", user.ID),
		zap.String("category_id", category.ID),
	)

	s.emit(ctx, models.NewComplaintEvent(models.EventCreated, c, s.Now()))
	return c, nil
}

// Get returns the complaint with its relations if v may see it.
func (s *Service) Get(ctx context.Context, v analysis.Viewer, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	ok, err := analysis.CanSee(v, c.UserID, c.AssignedToAgencyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return c, nil
}

// List returns one page of the complaints v can see.
func (s *Service) List(ctx context.Context, v analysis.Viewer, filter storage.ComplaintFilter) ([]models.Complaint, error) {
	switch v.Role {
	case models.RoleAdmin:
	case models.RoleAgency:
		filter.AgencyID = v.ID
	case models.RoleCitizen:
		filter.UserID = v.ID
	default:
		return nil, analysis.ErrUnknownRole
	}
	return s.Storage.ListComplaints(ctx, filter)
}

// ChangeStatus moves a complaint to status. Admins may change any complaint,
// agencies only the ones assigned to them.
func (s *Service) ChangeStatus(ctx context.Context, v analysis.Viewer, id string, status models.Status) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrUnknownStatus)
	}
	if v.Role != models.RoleAdmin && v.Role != models.RoleAgency {
		return nil, ErrForbidden
	}
	if _, err := s.Get(ctx, v, id); err != nil {
		return nil, err
	}

	updated, err := s.Storage.UpdateComplaintStatus(ctx, id, status)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	metrics.ComplaintStatusChangesTotal.WithLabelValues(string(status)).Inc()
	s.Log.Info("complaint status changed",
		zap.String("complaint_id", id),
		zap.String("status", string(status)),
		zap.String("by_role", string(v.Role)),
	)

	s.emit(ctx, models.NewComplaintEvent(models.EventStatusChanged, updated, s.Now()))
	return updated, nil
}

// Assign hands a complaint to an agency. Admin only.
func (s *Service) Assign(ctx context.Context, v analysis.Viewer, id, agencyID string) (*models.Complaint, error) {
	if v.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	agency, err := s.Storage.GetAgencyByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, fmt.Errorf("%w: unknown agency %q", ErrInvalidInput, agencyID)
	}

	updated, err := s.Storage.AssignComplaintToAgency(ctx, id, agency.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Log.Info("complaint assigned",
		zap.String("complaint_id", id),
		zap.String("agency_id", agency.ID),
	)

	s.emit(ctx, models.NewComplaintEvent(models.EventAssigned, updated, s.Now()))
	return updated, nil
}

// Respond attaches a message from responder. The responder's current role
// is copied onto the response.
func (s *Service) Respond(ctx context.Context, responder *models.User, complaintID, message string) (*models.ComplaintResponse, error) {
	message = cleanText(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	c, err := s.Get(ctx, analysis.ViewerFor(responder), complaintID)
	if err != nil {
		return nil, err
	}

	r := &models.ComplaintResponse{
		ComplaintID: c.ID,
		UserID:      responder.ID,
		UserRole:    responder.Role,
		Message:     message,
	}
	if err := s.Storage.AddResponse(ctx, r); err != nil {
		return nil, err
	}
	metrics.ComplaintResponsesTotal.WithLabelValues(string(responder.Role)).Inc()

	s.emit(ctx, models.NewComplaintEvent(models.EventResponseAdded, c, s.Now()))
	return r, nil
}

// Responses lists the responses on a complaint v can see.
func (s *Service) Responses(ctx context.Context, v analysis.Viewer, complaintID string) ([]models.ComplaintResponse, error) {
	if _, err := s.Get(ctx, v, complaintID); err != nil {
		return nil, err
	}
	return s.Storage.GetResponsesByComplaint(ctx, complaintID)
}

// Dashboard loads the complaints relevant to v and summarizes them.
func (s *Service) Dashboard(ctx context.Context, v analysis.Viewer) (*analysis.Summary, error) {
	var (
		complaints []models.Complaint
		err        error
	)
	switch v.Role {
	case models.RoleAdmin:
		complaints, err = s.Storage.GetAllComplaints(ctx)
	case models.RoleAgency:
		complaints, err = s.Storage.GetComplaintsByAgency(ctx, v.ID)
	case models.RoleCitizen:
		complaints, err = s.Storage.GetComplaintsByUser(ctx, v.ID)
	default:
		return nil, analysis.ErrUnknownRole
	}
	if err != nil {
		return nil, err
	}
	return analysis.Summarize(v, complaints, s.Now())
}

// emit publishes the event and notifies admins. Failures are logged only;
// the write that produced the event has already succeeded.
func (s *Service) emit(ctx context.Context, event models.ComplaintEvent) {
	if err := s.Storage.PublishComplaintEvent(ctx, event); err != nil {
		s.Log.Warn("publish complaint event failed",
			zap.String("complaint_id", event.ComplaintID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyComplaintEvent(ctx, event); err != nil {
		s.Log.Warn("notify complaint event failed",
			zap.String("complaint_id", event.ComplaintID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
