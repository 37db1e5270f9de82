package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
)

func (s *Service) CreateAgency(ctx context.Context, agency *models.Agency) error {
	return s.DB.WithContext(ctx).Create(agency).Error
}

func (s *Service) GetAgencyByID(ctx context.Context, id string) (*models.Agency, error) {
	return findOne[models.Agency](s.DB.WithContext(ctx).Where("id = ?", id))
}

func (s *Service) GetAllAgencies(ctx context.Context) ([]models.Agency, error) {
	var agencies []models.Agency
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&agencies).Error; err != nil {
		return nil, err
	}
	return agencies, nil
}

// UpsertAgency creates the agency under its fixed ID unless a row with that ID exists.
func (s *Service) UpsertAgency(ctx context.Context, agency *models.Agency) (*models.Agency, error) {
	var out models.Agency
	err := s.DB.WithContext(ctx).
		Where("id = ?", agency.ID).
		Attrs(*agency).
		FirstOrCreate(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.DB.WithContext(ctx).Create(category).Error
}

func (s *Service) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return findOne[models.Category](s.DB.WithContext(ctx).Where("id = ?", id))
}

func (s *Service) GetCategoriesByAgency(ctx context.Context, agencyID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.DB.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpsertCategory creates the category under its fixed ID unless a row with that ID exists.
func (s *Service) UpsertCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	var out models.Category
	err := s.DB.WithContext(ctx).
		Where("id = ?", category.ID).
		Attrs(*category).
		FirstOrCreate(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
