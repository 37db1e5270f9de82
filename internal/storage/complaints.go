package storage

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadResponses(db *gorm.DB) *gorm.DB {
	return db.Order("created_at asc")
}

// withComplaintRelations eagerly attaches category, submitter, assigned
// agency and responses with their responders.
func withComplaintRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("User").
		Preload("Agency").
		Preload("Responses", preloadResponses).
		Preload("Responses.User")
}

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.DB.WithContext(ctx).Omit(clause.Associations).Create(complaint).Error
}

func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	return findOne[models.Complaint](withComplaintRelations(s.DB.WithContext(ctx)).Where("id = ?", id))
}

func (s *Service) UpdateComplaintStatus(ctx context.Context, id string, status models.Status) (*models.Complaint, error) {
	return s.updateComplaint(ctx, id, map[string]interface{}{"status": status})
}

func (s *Service) AssignComplaintToAgency(ctx context.Context, complaintID, agencyID string) (*models.Complaint, error) {
	return s.updateComplaint(ctx, complaintID, map[string]interface{}{"assigned_to_agency_id": agencyID})
}

// updateComplaint is a single-row UPDATE ... RETURNING; category_id and
// user_id are never part of fields.
func (s *Service) updateComplaint(ctx context.Context, id string, fields map[string]interface{}) (*models.Complaint, error) {
	var complaint models.Complaint
	res := s.DB.WithContext(ctx).
		Model(&complaint).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &complaint, nil
}

// GetComplaintsByUser returns the complaints a user submitted, newest first.
func (s *Service) GetComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Agency").
		Preload("Responses", preloadResponses).
		Preload("Responses.User").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// GetComplaintsByAgency returns the complaints assigned to an agency, newest first.
func (s *Service) GetComplaintsByAgency(ctx context.Context, agencyID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := withComplaintRelations(s.DB.WithContext(ctx)).
		Where("assigned_to_agency_id = ?", agencyID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (s *Service) GetAllComplaints(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := withComplaintRelations(s.DB.WithContext(ctx)).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// ListComplaints is the paginated listing behind the API.
func (s *Service) ListComplaints(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Agency")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.AgencyID != "" {
		q = q.Where("assigned_to_agency_id = ?", filter.AgencyID)
	}

	take := filter.Take
	if take <= 0 {
		take = config.DefaultPageSize
	}
	if take > config.MaxPageSize {
		take = config.MaxPageSize
	}

	var complaints []models.Complaint
	err := q.Order("created_at desc").
		Offset(filter.Skip).
		Limit(take).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}
