package main

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"fmt"
	"log"
	"os"
)

// cliViewer acts with admin rights on behalf of the operator.
var cliViewer = analysis.Viewer{Role: models.RoleAdmin, ID: "admin-cli"}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: set-role, set-status, assign, summary")
		os.Exit(1)
	}

	cfg, _, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	complaints := complaint.NewService(storageSvc, nil, logger.New("warn", cfg.Environment))
	ctx := context.Background()

	command := os.Args[1]

	switch command {
	case "set-role":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			fmt.Println("Usage: admin set-role <email> <citizen|agency|admin> [agency_id]")
			os.Exit(1)
		}
		role, err := models.ParseRole(os.Args[3])
		if err != nil {
			fmt.Println("Invalid role. Use citizen, agency or admin.")
			os.Exit(1)
		}
		var agencyID *string
		if len(os.Args) == 5 {
			agencyID = &os.Args[4]
		}
		user, err := setRole(ctx, storageSvc, os.Args[2], role, agencyID)
		if err != nil {
			log.Fatalf("Error updating role: %v", err)
		}
		fmt.Printf("User %s is now %s.\n", user.Email, user.Role)
	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status>")
			os.Exit(1)
		}
		status, err := models.ParseStatus(os.Args[3])
		if err != nil {
			fmt.Println("Invalid status. Use one of: pending, under_review, assigned, in_progress, resolved, closed.")
			os.Exit(1)
		}
		if _, err := complaints.ChangeStatus(ctx, cliViewer, os.Args[2], status); err != nil {
			log.Fatalf("Error changing status: %v", err)
		}
		fmt.Printf("Complaint %s is now %s.\n", os.Args[2], status.Label())
	case "assign":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin assign <complaint_id> <agency_id>")
			os.Exit(1)
		}
		if _, err := complaints.Assign(ctx, cliViewer, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error assigning complaint: %v", err)
		}
		fmt.Printf("Complaint %s has been assigned to agency %s.\n", os.Args[2], os.Args[3])
	case "summary":
		sum, err := complaints.Dashboard(ctx, cliViewer)
		if err != nil {
			log.Fatalf("Error building summary: %v", err)
		}
		printSummary(sum)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func setRole(ctx context.Context, s storage.Storage, email string, role models.Role, agencyID *string) (*models.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %q", email)
	}
	if role != models.RoleAgency {
		agencyID = nil
	}
	return s.UpdateUserRole(ctx, user.ID, role, agencyID)
}

func printSummary(sum *analysis.Summary) {
	fmt.Printf("Total complaints: %d\n", sum.Total)
	fmt.Printf("Resolution rate:  %d%%\n", sum.ResolutionRate)
	fmt.Printf("Active:           %d\n", len(sum.Active))
	fmt.Printf("Last 30 days:     %d\n", len(sum.Recent))
	for _, st := range models.AllStatuses() {
		fmt.Printf("  %-12s %d\n", st.Label(), sum.StatusCounts.Get(st))
	}
}
