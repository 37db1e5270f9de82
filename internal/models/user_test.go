package models_test

import (
	"complaintdesk/backend/internal/models"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{
		Name:  "Test User",
		Email: "user@example.com",
		Role:  models.RoleCitizen,
	}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsedUUID, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsedUUID)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Email: "admin@example.com", Role: models.RoleAdmin}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID, "BeforeCreate should preserve existing ID")
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserBeforeCreate_DefaultsToCitizen(t *testing.T) {
	user := &models.User{Email: "someone@example.com"}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, models.RoleCitizen, user.Role)
}

// TestBeforeCreate_MultipleEntities verifies unique UUIDs are generated across entity types.
func TestBeforeCreate_MultipleEntities(t *testing.T) {
	agency := &models.Agency{Name: "Ministry of Health"}
	category := &models.Category{Name: "Vaccination"}
	complaint := &models.Complaint{Title: "Queue"}
	response := &models.ComplaintResponse{Message: "On it"}

	assert.NoError(t, agency.BeforeCreate(nil))
	assert.NoError(t, category.BeforeCreate(nil))
	assert.NoError(t, complaint.BeforeCreate(nil))
	assert.NoError(t, response.BeforeCreate(nil))

	ids := map[string]bool{agency.ID: true, category.ID: true, complaint.ID: true, response.ID: true}
	assert.Len(t, ids, 4, "All generated IDs should be unique")
	for id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
}

func TestComplaintBeforeCreate_DefaultsToPending(t *testing.T) {
	c := &models.Complaint{Title: "Long wait times"}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, models.StatusPending, c.Status)

	c = &models.Complaint{Title: "Portal broken", Status: models.StatusInProgress}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, models.StatusInProgress, c.Status)
}

func TestCategoryBeforeCreate_KeepsFixedID(t *testing.T) {
	c := &models.Category{ID: "1", Name: "COVID-19 Testing", AgencyID: "1"}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, "1", c.ID)
}

// TestUserStructTags verifies that struct tags are correctly defined for GORM and JSON.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")
	assert.Contains(t, idField.Tag.Get("json"), "id")

	emailField, found := userType.FieldByName("Email")
	assert.True(t, found)
	assert.Contains(t, emailField.Tag.Get("gorm"), "uniqueIndex", "Email should have unique index")

	pwField, found := userType.FieldByName("Password")
	assert.True(t, found)
	assert.Equal(t, "-", pwField.Tag.Get("json"), "Password hash must never be serialized")
}

func TestComplaintStructTags(t *testing.T) {
	complaintType := reflect.TypeOf(models.Complaint{})

	attachments, found := complaintType.FieldByName("Attachments")
	assert.True(t, found)
	assert.Contains(t, attachments.Tag.Get("gorm"), "type:text[]", "Attachments should use PostgreSQL array type")

	agency, found := complaintType.FieldByName("Agency")
	assert.True(t, found)
	assert.Contains(t, agency.Tag.Get("gorm"), "foreignKey:AssignedToAgencyID")
}

func TestNewComplaintEvent(t *testing.T) {
	agencyID := "1"
	c := &models.Complaint{ID: "c1", Title: "Queue", Status: models.StatusAssigned, UserID: "u1", AssignedToAgencyID: &agencyID}

	ev := models.NewComplaintEvent(models.EventAssigned, c, c.CreatedAt)

	assert.Equal(t, models.EventAssigned, ev.Type)
	assert.Equal(t, "c1", ev.ComplaintID)
	assert.Equal(t, models.StatusAssigned, ev.Status)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, &agencyID, ev.AssignedToAgencyID)
}

// BenchmarkUserBeforeCreate measures UUID generation performance.
func BenchmarkUserBeforeCreate(b *testing.B) {
	user := &models.User{Email: "benchmark@example.com"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user.ID = ""
		_ = user.BeforeCreate(nil)
	}
}
