// Package seed fills an empty database with fixture data for local
// development. Users, agencies and categories are upserted and safe to
// re-run; complaints and responses are plain inserts and duplicate on every
// run.
package seed

import (
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	UserEmail     = "user@example.com"
	UserPassword  = "user123"
)

// Result holds the records written by Run.
type Result struct {
	Admin      *models.User
	Citizen    *models.User
	Agencies   []*models.Agency
	Categories []*models.Category
	Complaints []*models.Complaint
	Responses  []*models.ComplaintResponse
}

// Run writes the fixtures. The first failing write aborts the run; anything
// written before it stays.
func Run(ctx context.Context, st storage.Storage, log *zap.Logger) (*Result, error) {
	res := &Result{}
	var err error

	if res.Admin, err = upsertUser(ctx, st, "Admin User", AdminEmail, AdminPassword, models.RoleAdmin); err != nil {
		return nil, err
	}
	if res.Citizen, err = upsertUser(ctx, st, "Test User", UserEmail, UserPassword, models.RoleCitizen); err != nil {
		return nil, err
	}
	log.Info("seeded users", zap.String("admin_id", res.Admin.ID), zap.String("citizen_id", res.Citizen.ID))

	health, err := st.UpsertAgency(ctx, &models.Agency{
		ID:          "1",
		Name:        "Ministry of Health",
		Description: "Responsible for public health and healthcare services",
	})
	if err != nil {
		return nil, fmt.Errorf("seed: agency 1: %w", err)
	}
	education, err := st.UpsertAgency(ctx, &models.Agency{
		ID:          "2",
		Name:        "Ministry of Education",
		Description: "Responsible for education policies and services",
	})
	if err != nil {
		return nil, fmt.Errorf("seed: agency 2: %w", err)
	}
	res.Agencies = []*models.Agency{health, education}
	log.Info("seeded agencies", zap.Int("count", len(res.Agencies)))

	categories := []*models.Category{
		{ID: "1", Name: "COVID-19 Testing", Description: "Issues related to COVID-19 testing facilities and procedures", AgencyID: health.ID},
		{ID: "2", Name: "Vaccination", Description: "Issues related to COVID-19 vaccination programs", AgencyID: health.ID},
		{ID: "3", Name: "Online Learning", Description: "Issues related to online education during the pandemic", AgencyID: education.ID},
	}
	res.Categories = make([]*models.Category, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			saved, err := st.UpsertCategory(gctx, c)
			if err != nil {
				return fmt.Errorf("seed: category %s: %w", c.ID, err)
			}
			res.Categories[i] = saved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("seeded categories", zap.Int("count", len(res.Categories)))

	res.Complaints = []*models.Complaint{
		{
			Title:              "Long wait times at testing center",
			Description:        "The wait time at the local testing center is too long, often exceeding 4 hours.",
			Status:             models.StatusPending,
			UserID:             res.Citizen.ID,
			CategoryID:         res.Categories[0].ID,
			AssignedToAgencyID: &health.ID,
		},
		{
			Title:              "Vaccination appointment issues",
			Description:        "Having trouble scheduling a vaccination appointment through the online portal.",
			Status:             models.StatusInProgress,
			UserID:             res.Citizen.ID,
			CategoryID:         res.Categories[1].ID,
			AssignedToAgencyID: &health.ID,
		},
	}
	g, gctx = errgroup.WithContext(ctx)
	for _, c := range res.Complaints {
		g.Go(func() error {
			if err := st.CreateComplaint(gctx, c); err != nil {
				return fmt.Errorf("seed: complaint %q: %w", c.Title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("seeded complaints", zap.Int("count", len(res.Complaints)))

	res.Responses = []*models.ComplaintResponse{
		{
			ComplaintID: res.Complaints[0].ID,
			UserID:      res.Admin.ID,
			UserRole:    models.RoleAdmin,
			Message:     "We are working on increasing testing capacity. Thank you for your patience.",
		},
		{
			ComplaintID: res.Complaints[1].ID,
			UserID:      res.Admin.ID,
			UserRole:    models.RoleAdmin,
			Message:     "Please try using our mobile app for scheduling. If issues persist, contact our support line.",
		},
	}
	g, gctx = errgroup.WithContext(ctx)
	for _, r := range res.Responses {
		g.Go(func() error {
			if err := st.AddResponse(gctx, r); err != nil {
				return fmt.Errorf("seed: response on %s: %w", r.ComplaintID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("seeded responses", zap.Int("count", len(res.Responses)))

	return res, nil
}

// upsertUser creates the user when the email is new. Existing users are
// returned unchanged, including their password.
func upsertUser(ctx context.Context, st storage.Storage, name, email, password string, role models.Role) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password for %s: %w", email, err)
	}
	u, err := st.UpsertUserByEmail(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("seed: user %s: %w", email, err)
	}
	return u, nil
}
