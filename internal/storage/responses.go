package storage

import (
	"complaintdesk/backend/internal/models"
	"context"

	"gorm.io/gorm/clause"
)

// AddResponse stores a response. UserRole must already hold the snapshot.
func (s *Service) AddResponse(ctx context.Context, response *models.ComplaintResponse) error {
	return s.DB.WithContext(ctx).Omit(clause.Associations).Create(response).Error
}

// GetResponsesByComplaint returns responses oldest first with their responders attached.
func (s *Service) GetResponsesByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintResponse, error) {
	var responses []models.ComplaintResponse
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
