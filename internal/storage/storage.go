// Package storage is the repository layer: one function per data-store
// operation over PostgreSQL (gorm) plus the Redis-backed cache and
// complaint event channel.
package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned by updates that address a row that does not exist.
// Single-record lookups return (nil, nil) instead.
var ErrNotFound = errors.New("storage: not found")

// ComplaintFilter narrows ListComplaints. Empty fields do not filter.
type ComplaintFilter struct {
	Status   models.Status
	UserID   string
	AgencyID string
	Skip     int
	Take     int
}

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role, agencyID *string) (*models.User, error)

	CreateAgency(ctx context.Context, agency *models.Agency) error
	GetAgencyByID(ctx context.Context, id string) (*models.Agency, error)
	GetAllAgencies(ctx context.Context) ([]models.Agency, error)
	UpsertAgency(ctx context.Context, agency *models.Agency) (*models.Agency, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetCategoriesByAgency(ctx context.Context, agencyID string) ([]models.Category, error)
	UpsertCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status models.Status) (*models.Complaint, error)
	AssignComplaintToAgency(ctx context.Context, complaintID, agencyID string) (*models.Complaint, error)
	GetComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error)
	GetComplaintsByAgency(ctx context.Context, agencyID string) ([]models.Complaint, error)
	GetAllComplaints(ctx context.Context) ([]models.Complaint, error)
	ListComplaints(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error)

	AddResponse(ctx context.Context, response *models.ComplaintResponse) error
	GetResponsesByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintResponse, error)

	GetCached(ctx context.Context, key string) ([]byte, bool, error)
	SetCached(ctx context.Context, key string, value []byte, ttl time.Duration) error
	PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error
}

// Service implements Storage. Both handles are constructed by the caller;
// Redis may be nil, in which case caching and events are disabled.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the tables for all five record types.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Agency{},
		&models.User{},
		&models.Category{},
		&models.Complaint{},
		&models.ComplaintResponse{},
	)
}

// findOne runs a First query and maps gorm.ErrRecordNotFound to (nil, nil).
func findOne[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
