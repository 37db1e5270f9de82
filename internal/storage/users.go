package storage

import (
	"complaintdesk/backend/internal/models"
	"context"

	"gorm.io/gorm/clause"
)

// CreateUser inserts a new user. A duplicate email surfaces as the driver's
// unique-violation error.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](s.DB.WithContext(ctx).Where("email = ?", email))
}

func (s *Service) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](s.DB.WithContext(ctx).Where("id = ?", id))
}

// UpsertUserByEmail creates the user when the email is unknown and otherwise
// returns the existing row untouched.
func (s *Service) UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	var out models.User
	err := s.DB.WithContext(ctx).
		Where("email = ?", user.Email).
		Attrs(*user).
		FirstOrCreate(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserRole changes a user's role and agency link.
func (s *Service) UpdateUserRole(ctx context.Context, id string, role models.Role, agencyID *string) (*models.User, error) {
	var user models.User
	res := s.DB.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":      role,
			"agency_id": agencyID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &user, nil
}
