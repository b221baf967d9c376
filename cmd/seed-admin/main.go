// seed-admin creates or updates the concierge console user (username: laikaConcierge).
// Concierge users can act across organizations; an organization must exist so
// history hooks have a tenant to attach to.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

const (
	conciergeUsername = "laikaConcierge"
	conciergePassword = "L@ikaConcierge1"
	conciergeName     = "Laika Concierge"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	// History hooks require organization + user info in context. Attach the
	// first organization in the DB, creating one when the DB is empty.
	var org models.Organization
	err := db.WithContext(ctx).Model(&models.Organization{}).Select("id").First(&org).Error
	if err == gorm.ErrRecordNotFound {
		org = models.Organization{
			ID:       uuid.New(),
			Name:     "Laika",
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&org).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create organization: %v\n", err)
			os.Exit(1)
		}
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup organization: %v\n", err)
		os.Exit(1)
	}

	organizationID := org.ID.String()
	ctx = utils.SetOrganizationIdInContext(ctx, organizationID)
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")
	ctx = utils.SetUsernameInContext(ctx, conciergeUsername)
	ctx = utils.SetIsAdminInContext(ctx, true)
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	hashed, err := utils.HashPassword(conciergePassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", conciergeUsername).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username:       conciergeUsername,
			FirstName:      conciergeName,
			Password:       hashedStr,
			IsActive:       utils.NewTrue(),
			IsSuperAdmin:   utils.NewTrue(),
			Role:           models.UserRoleConcierge,
			OrganizationId: organizationID,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create concierge user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created concierge user %q (organization %s)\n", conciergeUsername, organizationID)
		return
	}

	updates := map[string]interface{}{
		"password":        hashedStr,
		"is_active":       true,
		"is_super_admin":  true,
		"role":            models.UserRoleConcierge,
		"organization_id": organizationID,
	}
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update concierge user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated concierge user %q (organization %s)\n", conciergeUsername, organizationID)
}
