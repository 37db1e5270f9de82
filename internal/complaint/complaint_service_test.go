package complaint_test

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"complaintdesk/backend/internal/storage/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newService(st *mocks.Storage, n complaint.Notifier) *complaint.Service {
	svc := complaint.NewService(st, n, zap.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

var (
	citizen     = &models.User{ID: "u1", Role: models.RoleCitizen}
	otherUser   = &models.User{ID: "u2", Role: models.RoleCitizen}
	admin       = &models.User{ID: "admin", Role: models.RoleAdmin}
	agencyUser  = &models.User{ID: "staff", Role: models.RoleAgency, AgencyID: strPtr("1")}
	adminViewer = analysis.ViewerFor(admin)
)

func TestSubmit_CreatesPendingComplaint(t *testing.T) {
	st := new(mocks.Storage)
	notifier := new(MockNotifier)
	svc := newService(st, notifier)

	st.On("GetCategoryByID", mock.Anything, "1").Return(&models.Category{ID: "1", AgencyID: "1"}, nil)
	st.On("CreateComplaint", mock.Anything, mock.MatchedBy(func(c *models.Complaint) bool {
		return c.Status == models.StatusPending && c.UserID == "u1" && c.CategoryID == "1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Complaint).ID = "c1"
	}).Return(nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.MatchedBy(func(ev models.ComplaintEvent) bool {
		return ev.Type == models.EventCreated && ev.ComplaintID == "c1" && ev.At.Equal(fixedNow)
	})).Return(nil)
	notifier.On("NotifyComplaintEvent", mock.Anything, mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	c, err := svc.Submit(context.Background(), citizen, complaint.SubmitInput{
		Title:       "  Long wait <b>times</b> ",
		Description: "Over four hours <script>alert(1)</script>",
		CategoryID:  "1",
		Location:    "Kyiv",
		Attachments: []string{"https://example.com/a.jpg", "javascript:alert(1)", " "},
	})
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Long wait times", c.Title)
	assert.Equal(t, "Over four hours", c.Description)
	require.NotNil(t, c.Location)
	assert.Equal(t, "Kyiv", *c.Location)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, []string(c.Attachments))
	st.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmit_KeepsPunctuation(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)

	st.On("GetCategoryByID", mock.Anything, "1").Return(&models.Category{ID: "1"}, nil)
	st.On("CreateComplaint", mock.Anything, mock.Anything).Return(nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.Submit(context.Background(), citizen, complaint.SubmitInput{
		Title: "Tom & Jerry's \"clinic\"", Description: "5 > 4", CategoryID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry's \"clinic\"", c.Title)
	assert.Equal(t, "5 > 4", c.Description)
	assert.Nil(t, c.Location)
}

func TestSubmit_EntityEncodedMarkupIsStripped(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)

	st.On("GetCategoryByID", mock.Anything, "1").Return(&models.Category{ID: "1"}, nil)
	st.On("CreateComplaint", mock.Anything, mock.Anything).Return(nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.Submit(context.Background(), citizen, complaint.SubmitInput{
		Title:       "&lt;script&gt;alert(1)&lt;/script&gt;Broken lamp",
		Description: "&amp;lt;img src=x onerror=alert(1)&amp;gt;Dark street",
		CategoryID:  "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Broken lamp", c.Title)
	assert.Equal(t, "Dark street", c.Description)

	_, err = svc.Submit(context.Background(), citizen, complaint.SubmitInput{
		Title: "&lt;script&gt;alert(1)&lt;/script&gt;", Description: "d", CategoryID: "1",
	})
	assert.ErrorIs(t, err, complaint.ErrInvalidInput, "nothing left after stripping")
}

func TestSubmit_Validation(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)

	_, err := svc.Submit(context.Background(), citizen, complaint.SubmitInput{Title: "<i></i>", Description: "x", CategoryID: "1"})
	assert.ErrorIs(t, err, complaint.ErrInvalidInput)

	st.On("GetCategoryByID", mock.Anything, "404").Return(nil, nil)
	_, err = svc.Submit(context.Background(), citizen, complaint.SubmitInput{Title: "t", Description: "d", CategoryID: "404"})
	assert.ErrorIs(t, err, complaint.ErrInvalidInput)
	st.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything)
}

func TestSubmit_StoreErrorPropagates(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	storeErr := errors.New("connection refused")

	st.On("GetCategoryByID", mock.Anything, "1").Return(&models.Category{ID: "1"}, nil)
	st.On("CreateComplaint", mock.Anything, mock.Anything).Return(storeErr)

	_, err := svc.Submit(context.Background(), citizen, complaint.SubmitInput{Title: "t", Description: "d", CategoryID: "1"})
	assert.ErrorIs(t, err, storeErr)
	st.AssertNotCalled(t, "PublishComplaintEvent", mock.Anything, mock.Anything)
}

func TestGet_Visibility(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	c := &models.Complaint{ID: "c1", UserID: "u1", AssignedToAgencyID: strPtr("1"), Status: models.StatusPending}
	st.On("GetComplaintByID", mock.Anything, "c1").Return(c, nil)
	st.On("GetComplaintByID", mock.Anything, "missing").Return(nil, nil)

	ctx := context.Background()
	_, err := svc.Get(ctx, analysis.ViewerFor(citizen), "c1")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, analysis.ViewerFor(agencyUser), "c1")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, adminViewer, "c1")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, analysis.ViewerFor(otherUser), "c1")
	assert.ErrorIs(t, err, complaint.ErrForbidden)
	_, err = svc.Get(ctx, adminViewer, "missing")
	assert.ErrorIs(t, err, complaint.ErrNotFound)
}

func TestChangeStatus(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	c := &models.Complaint{ID: "c1", UserID: "u1", AssignedToAgencyID: strPtr("1"), Status: models.StatusAssigned}
	updated := &models.Complaint{ID: "c1", UserID: "u1", AssignedToAgencyID: strPtr("1"), Status: models.StatusInProgress}

	st.On("GetComplaintByID", mock.Anything, "c1").Return(c, nil)
	st.On("UpdateComplaintStatus", mock.Anything, "c1", models.StatusInProgress).Return(updated, nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.MatchedBy(func(ev models.ComplaintEvent) bool {
		return ev.Type == models.EventStatusChanged && ev.Status == models.StatusInProgress
	})).Return(errors.New("redis down"))

	got, err := svc.ChangeStatus(context.Background(), analysis.ViewerFor(agencyUser), "c1", models.StatusInProgress)
	require.NoError(t, err, "publish failures must not fail the write")
	assert.Equal(t, models.StatusInProgress, got.Status)
	st.AssertExpectations(t)
}

func TestChangeStatus_Forbidden(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	c := &models.Complaint{ID: "c1", UserID: "u1", AssignedToAgencyID: strPtr("2"), Status: models.StatusAssigned}
	st.On("GetComplaintByID", mock.Anything, "c1").Return(c, nil)

	_, err := svc.ChangeStatus(context.Background(), analysis.ViewerFor(citizen), "c1", models.StatusClosed)
	assert.ErrorIs(t, err, complaint.ErrForbidden)

	_, err = svc.ChangeStatus(context.Background(), analysis.ViewerFor(agencyUser), "c1", models.StatusClosed)
	assert.ErrorIs(t, err, complaint.ErrForbidden)

	_, err = svc.ChangeStatus(context.Background(), adminViewer, "c1", models.Status("reopened"))
	assert.ErrorIs(t, err, complaint.ErrInvalidInput)

	st.AssertNotCalled(t, "UpdateComplaintStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_RowVanished(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	st.On("GetComplaintByID", mock.Anything, "c1").Return(&models.Complaint{ID: "c1", Status: models.StatusPending}, nil)
	st.On("UpdateComplaintStatus", mock.Anything, "c1", models.StatusClosed).Return(nil, storage.ErrNotFound)

	_, err := svc.ChangeStatus(context.Background(), adminViewer, "c1", models.StatusClosed)
	assert.ErrorIs(t, err, complaint.ErrNotFound)
}

func TestAssign(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	updated := &models.Complaint{ID: "c1", AssignedToAgencyID: strPtr("1"), Status: models.StatusPending}

	st.On("GetAgencyByID", mock.Anything, "1").Return(&models.Agency{ID: "1"}, nil)
	st.On("GetAgencyByID", mock.Anything, "9").Return(nil, nil)
	st.On("AssignComplaintToAgency", mock.Anything, "c1", "1").Return(updated, nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Assign(context.Background(), adminViewer, "c1", "1")
	require.NoError(t, err)
	assert.Equal(t, "1", *got.AssignedToAgencyID)

	_, err = svc.Assign(context.Background(), adminViewer, "c1", "9")
	assert.ErrorIs(t, err, complaint.ErrInvalidInput)

	_, err = svc.Assign(context.Background(), analysis.ViewerFor(agencyUser), "c1", "1")
	assert.ErrorIs(t, err, complaint.ErrForbidden)
}

func TestRespond_SnapshotsRole(t *testing.T) {
	st := new(mocks.Storage)
	notifier := new(MockNotifier)
	svc := newService(st, notifier)
	c := &models.Complaint{ID: "c1", UserID: "u1", AssignedToAgencyID: strPtr("1"), Status: models.StatusInProgress}

	st.On("GetComplaintByID", mock.Anything, "c1").Return(c, nil)
	st.On("AddResponse", mock.Anything, mock.MatchedBy(func(r *models.ComplaintResponse) bool {
		return r.UserRole == models.RoleAgency && r.UserID == "staff" && r.Message == "We are on it"
	})).Return(nil)
	st.On("PublishComplaintEvent", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyComplaintEvent", mock.Anything, mock.Anything).Return(errors.New("telegram down"))

	r, err := svc.Respond(context.Background(), agencyUser, "c1", " We are on it ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgency, r.UserRole)

	_, err = svc.Respond(context.Background(), otherUser, "c1", "hello")
	assert.ErrorIs(t, err, complaint.ErrForbidden)

	_, err = svc.Respond(context.Background(), admin, "c1", "   ")
	assert.ErrorIs(t, err, complaint.ErrInvalidInput)
}

func TestList_ScopesFilterByRole(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	st.On("ListComplaints", mock.Anything, storage.ComplaintFilter{AgencyID: "1", Take: 10}).Return([]models.Complaint{}, nil)
	st.On("ListComplaints", mock.Anything, storage.ComplaintFilter{UserID: "u1", Status: models.StatusPending}).Return([]models.Complaint{}, nil)
	st.On("ListComplaints", mock.Anything, storage.ComplaintFilter{UserID: "smuggled"}).Return([]models.Complaint{}, nil)

	ctx := context.Background()
	_, err := svc.List(ctx, analysis.ViewerFor(agencyUser), storage.ComplaintFilter{Take: 10})
	require.NoError(t, err)
	_, err = svc.List(ctx, analysis.ViewerFor(citizen), storage.ComplaintFilter{UserID: "u2", Status: models.StatusPending})
	require.NoError(t, err)
	_, err = svc.List(ctx, adminViewer, storage.ComplaintFilter{UserID: "smuggled"})
	require.NoError(t, err)
	st.AssertExpectations(t)
}

func TestDashboard_LoadsByRole(t *testing.T) {
	st := new(mocks.Storage)
	svc := newService(st, nil)
	complaints := []models.Complaint{
		{ID: "1", Status: models.StatusPending, AssignedToAgencyID: strPtr("1"), CreatedAt: fixedNow},
		{ID: "2", Status: models.StatusResolved, AssignedToAgencyID: strPtr("1"), CreatedAt: fixedNow.AddDate(0, -2, 0)},
	}
	st.On("GetComplaintsByAgency", mock.Anything, "1").Return(complaints, nil)
	st.On("GetAllComplaints", mock.Anything).Return(nil, errors.New("timeout"))

	sum, err := svc.Dashboard(context.Background(), analysis.ViewerFor(agencyUser))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 50, sum.ResolutionRate)
	assert.Len(t, sum.Active, 1)
	assert.Len(t, sum.Recent, 1)

	_, err = svc.Dashboard(context.Background(), adminViewer)
	assert.EqualError(t, err, "timeout")
}

func TestNotifiers_TriesEveryNotifier(t *testing.T) {
	first, second := new(MockNotifier), new(MockNotifier)
	failure := errors.New("chat not found")
	first.On("NotifyComplaintEvent", mock.Anything, mock.Anything).Return(failure)
	second.On("NotifyComplaintEvent", mock.Anything, mock.Anything).Return(nil)

	err := complaint.Notifiers{first, second}.NotifyComplaintEvent(context.Background(), models.ComplaintEvent{ComplaintID: "c1"})
	assert.ErrorIs(t, err, failure)
	second.AssertCalled(t, "NotifyComplaintEvent", mock.Anything, mock.Anything)

	assert.NoError(t, complaint.Notifiers{}.NotifyComplaintEvent(context.Background(), models.ComplaintEvent{}))
}
