package analysis_test

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/models"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func complaint(id string, status models.Status) models.Complaint {
	return models.Complaint{ID: id, Status: status, UserID: "citizen-1", CreatedAt: now}
}

func TestSummarize_AdminExample(t *testing.T) {
	complaints := []models.Complaint{
		complaint("1", models.StatusPending),
		complaint("2", models.StatusResolved),
		complaint("3", models.StatusClosed),
		complaint("4", models.StatusInProgress),
		complaint("5", models.StatusResolved),
	}

	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleAdmin, ID: "admin-1"}, complaints, now)
	require.NoError(t, err)

	assert.Equal(t, analysis.StatusCounts{Pending: 1, Resolved: 2, Closed: 1, InProgress: 1}, sum.StatusCounts)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 3, sum.ResolvedCount)
	assert.Equal(t, 60, sum.ResolutionRate)
	assert.Len(t, sum.Active, 2)
	assert.Len(t, sum.Recent, 5)
}

func TestSummarize_AgencyExample(t *testing.T) {
	complaints := []models.Complaint{
		{ID: "1", Status: models.StatusAssigned, AssignedToAgencyID: strPtr("A1"), CreatedAt: now},
		{ID: "2", Status: models.StatusInProgress, AssignedToAgencyID: strPtr("A1"), CreatedAt: now},
		{ID: "3", Status: models.StatusResolved, AssignedToAgencyID: strPtr("A1"), CreatedAt: now},
		{ID: "4", Status: models.StatusPending, AssignedToAgencyID: strPtr("A2"), CreatedAt: now},
		{ID: "5", Status: models.StatusPending, CreatedAt: now},
	}

	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleAgency, ID: "A1"}, complaints, now)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, []string{"1", "2", "3"}, ids(sum.Complaints))
	assert.Equal(t, 33, sum.ResolutionRate)
	assert.Equal(t, []string{"1", "2"}, ids(sum.Active))
}

func TestSummarize_CitizenSeesOwnComplaints(t *testing.T) {
	complaints := []models.Complaint{
		{ID: "1", Status: models.StatusPending, UserID: "u1", CreatedAt: now},
		{ID: "2", Status: models.StatusClosed, UserID: "u2", CreatedAt: now},
		{ID: "3", Status: models.StatusClosed, UserID: "u1", CreatedAt: now},
	}

	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleCitizen, ID: "u1"}, complaints, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, ids(sum.Complaints))
	assert.Equal(t, 50, sum.ResolutionRate)
}

func TestSummarize_EmptyScope(t *testing.T) {
	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleAgency, ID: "nobody"}, []models.Complaint{
		complaint("1", models.StatusResolved),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, 0, sum.ResolutionRate)
	assert.Empty(t, sum.Active)
	assert.Empty(t, sum.Recent)
	assert.NotNil(t, sum.Active)
}

func TestSummarize_RecentWindow(t *testing.T) {
	boundary := now.AddDate(0, 0, -30)
	complaints := []models.Complaint{
		{ID: "old", Status: models.StatusPending, CreatedAt: boundary.Add(-time.Second)},
		{ID: "edge", Status: models.StatusPending, CreatedAt: boundary},
		{ID: "new", Status: models.StatusPending, CreatedAt: now.Add(-time.Hour)},
	}

	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleAdmin}, complaints, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"edge", "new"}, ids(sum.Recent), "lower bound is inclusive")
}

func TestSummarize_UnknownStatus(t *testing.T) {
	complaints := []models.Complaint{
		complaint("1", models.StatusPending),
		complaint("2", models.Status("archived")),
	}

	sum, err := analysis.Summarize(analysis.Viewer{Role: models.RoleAdmin}, complaints, now)
	assert.Nil(t, sum)
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}

func TestSummarize_UnknownRole(t *testing.T) {
	_, err := analysis.Summarize(analysis.Viewer{Role: "guest"}, []models.Complaint{complaint("1", models.StatusPending)}, now)
	assert.ErrorIs(t, err, analysis.ErrUnknownRole)
}

func TestResolutionRate(t *testing.T) {
	assert.Equal(t, 0, analysis.ResolutionRate(0, 0))
	assert.Equal(t, 0, analysis.ResolutionRate(0, 7))
	assert.Equal(t, 100, analysis.ResolutionRate(4, 4))
	assert.Equal(t, 67, analysis.ResolutionRate(2, 3))
	assert.Equal(t, 33, analysis.ResolutionRate(1, 3))
	assert.Equal(t, 50, analysis.ResolutionRate(1, 2))
	assert.Equal(t, 13, analysis.ResolutionRate(1, 8), "12.5 rounds up")
}

func TestViewerFor(t *testing.T) {
	agencyUser := &models.User{ID: "u9", Role: models.RoleAgency, AgencyID: strPtr("1")}
	assert.Equal(t, analysis.Viewer{Role: models.RoleAgency, ID: "1"}, analysis.ViewerFor(agencyUser))

	unlinked := &models.User{ID: "u8", Role: models.RoleAgency}
	assert.Equal(t, analysis.Viewer{Role: models.RoleAgency, ID: "u8"}, analysis.ViewerFor(unlinked))

	citizen := &models.User{ID: "u1", Role: models.RoleCitizen}
	assert.Equal(t, analysis.Viewer{Role: models.RoleCitizen, ID: "u1"}, analysis.ViewerFor(citizen))
}

func TestStatusCounts_AddAndGet(t *testing.T) {
	var sc analysis.StatusCounts
	for _, s := range models.AllStatuses() {
		require.NoError(t, sc.Add(s))
		assert.Equal(t, 1, sc.Get(s))
	}
	assert.Equal(t, 6, sc.Total())
	assert.ErrorIs(t, sc.Add(""), models.ErrUnknownStatus)
	assert.Equal(t, 6, sc.Total())
}

// TestSummarize_Properties checks the partition invariants over random complaint sets.
func TestSummarize_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := models.AllStatuses()
	agencies := []string{"A1", "A2", "A3"}
	users := []string{"u1", "u2", "u3"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(40)
		complaints := make([]models.Complaint, n)
		for j := range complaints {
			c := models.Complaint{
				ID:        fmt.Sprintf("c%d", j),
				Status:    statuses[rng.Intn(len(statuses))],
				UserID:    users[rng.Intn(len(users))],
				CreatedAt: now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour),
			}
			if rng.Intn(4) > 0 {
				c.AssignedToAgencyID = strPtr(agencies[rng.Intn(len(agencies))])
			}
			complaints[j] = c
		}

		viewers := []analysis.Viewer{
			{Role: models.RoleAdmin, ID: "admin"},
			{Role: models.RoleAgency, ID: agencies[rng.Intn(len(agencies))]},
			{Role: models.RoleCitizen, ID: users[rng.Intn(len(users))]},
		}
		for _, v := range viewers {
			sum, err := analysis.Summarize(v, complaints, now)
			require.NoError(t, err)

			// scope: subset, each visible complaint exactly once
			want := 0
			for _, c := range complaints {
				ok, _ := analysis.CanSee(v, c.UserID, c.AssignedToAgencyID)
				if ok {
					want++
				}
			}
			assert.Equal(t, want, sum.Total)
			seen := map[string]int{}
			for _, c := range sum.Complaints {
				seen[c.ID]++
			}
			for id, count := range seen {
				assert.Equal(t, 1, count, id)
			}

			assert.Equal(t, sum.Total, sum.StatusCounts.Total())
			assert.Equal(t, sum.Total, len(sum.Active)+sum.ResolvedCount)
			assert.Equal(t, sum.StatusCounts.Resolved+sum.StatusCounts.Closed, sum.ResolvedCount)
			assert.Equal(t, analysis.ResolutionRate(sum.ResolvedCount, sum.Total), sum.ResolutionRate)

			since := now.AddDate(0, 0, -30)
			for _, c := range sum.Recent {
				assert.Contains(t, seen, c.ID)
				assert.False(t, c.CreatedAt.Before(since))
			}
		}
	}
}

func ids(cs []models.Complaint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
