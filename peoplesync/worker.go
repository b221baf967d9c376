package peoplesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunOnce executes one incremental people sync for an organization. HRIS
// people are upserted into the users table so the People source generator
// sees an up-to-date directory. Synced people get a random unusable password;
// they become login users only when someone sets a real one.
func RunOnce(ctx context.Context, organizationId string) error {
	logger := config.GetLogger()
	if organizationId == "" {
		return errors.New("organization id is required")
	}

	client, err := newHRISClient(os.Getenv("HRIS_API_KEY"))
	if err != nil {
		return err
	}

	ctx = utils.SetOrganizationIdInContext(ctx, organizationId)
	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "System")
	db := config.GetDB().WithContext(ctx)

	state, err := models.GetOrCreateDirectorySyncState(ctx, organizationId)
	if err != nil {
		return err
	}
	cursorState := DecodeCursorState(state.CursorStateJSON)

	now := time.Now().UTC()
	run := models.DirectorySyncRun{
		OrganizationId: organizationId,
		Status:         models.DirectorySyncStatusRunning,
		StartedAt:      &now,
		TriggeredBy:    "schedule",
	}
	if err := db.Create(&run).Error; err != nil {
		return err
	}

	synced, errCount, syncErr := syncPeople(ctx, db, client, organizationId, &cursorState)

	finished := time.Now().UTC()
	status := models.DirectorySyncStatusSuccess
	var lastError *string
	if syncErr != nil {
		status = models.DirectorySyncStatusFailed
		msg := syncErr.Error()
		lastError = &msg
	} else if errCount > 0 {
		status = models.DirectorySyncStatusPartial
	}

	_ = db.Model(&models.DirectorySyncRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
		"status":         status,
		"finished_at":    &finished,
		"records_synced": synced,
		"error_count":    errCount,
		"last_error":     lastError,
	}).Error

	stateUpdates := map[string]interface{}{
		"cursor_state_json": EncodeCursorState(cursorState),
		"last_sync_at":      &finished,
	}
	if syncErr == nil {
		stateUpdates["last_success_at"] = &finished
	}
	_ = db.Model(&models.DirectorySyncState{}).Where("id = ?", state.ID).Updates(stateUpdates).Error

	logger.WithFields(logrus.Fields{
		"field":           "PeopleSync",
		"organization_id": organizationId,
		"run_id":          run.ID,
		"status":          status,
		"records_synced":  synced,
		"error_count":     errCount,
	}).Info("people sync finished")

	return syncErr
}

func syncPeople(ctx context.Context, db *gorm.DB, client *hrisClient, organizationId string, cursorState *CursorState) (int, int, error) {
	pageSize := 100
	if v := strings.TrimSpace(os.Getenv("HRIS_PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			pageSize = n
		}
	}

	synced := 0
	errCount := 0
	cursor := cursorState.People.Cursor
	updatedSince := cursorState.People.UpdatedSince
	maxUpdatedAt := updatedSince

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		if updatedSince != "" {
			params.Set("updated_since", updatedSince)
		}

		resp, err := client.getList(ctx, "/v1/people", params)
		if err != nil {
			return synced, errCount, err
		}

		for _, raw := range resp.records() {
			var person hrisPerson
			if err := json.Unmarshal(raw, &person); err != nil {
				errCount++
				continue
			}
			if err := upsertPerson(ctx, db, organizationId, person); err != nil {
				errCount++
				continue
			}
			synced++
			if person.UpdatedAt > maxUpdatedAt {
				maxUpdatedAt = person.UpdatedAt
			}
		}

		if !resp.hasMore() {
			break
		}
		cursor = resp.NextCursor
	}

	// Advance the incremental window only after a full pass.
	cursorState.People = CursorEntry{UpdatedSince: maxUpdatedAt, Cursor: ""}
	return synced, errCount, nil
}

func upsertPerson(ctx context.Context, db *gorm.DB, organizationId string, person hrisPerson) error {
	if person.Email == "" {
		return fmt.Errorf("person %s has no email", person.ID)
	}
	if person.FirstName == "" {
		return fmt.Errorf("person %s has no first name", person.ID)
	}

	employmentType := normalizeEmploymentType(person.EmploymentType)
	startDate := parseDate(person.StartDate)
	endDate := parseDate(person.EndDate)

	var existing models.User
	err := db.Where("organization_id = ? AND email = ?", organizationId, person.Email).Take(&existing).Error
	if err == nil {
		return db.Model(&models.User{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"first_name":      person.FirstName,
			"last_name":       person.LastName,
			"phone":           person.Phone,
			"title":           person.Title,
			"employment_type": employmentType,
			"start_date":      startDate,
			"end_date":        endDate,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Random unusable password; the person can't log in until one is set.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		OrganizationId: organizationId,
		Username:       person.Email,
		FirstName:      person.FirstName,
		LastName:       person.LastName,
		Email:          utils.NilIfEmpty(person.Email),
		Phone:          person.Phone,
		Password:       string(hashed),
		Title:          person.Title,
		EmploymentType: employmentType,
		StartDate:      startDate,
		EndDate:        endDate,
		Role:           models.UserRoleAuditee,
		IsActive:       utils.NewFalse(),
	}
	return db.Create(&user).Error
}

func normalizeEmploymentType(raw string) *models.EmploymentType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")) {
	case "full-time", "fulltime", "ft":
		v := models.EmploymentTypeFullTime
		return &v
	case "part-time", "parttime", "pt":
		v := models.EmploymentTypePartTime
		return &v
	case "contractor", "contract":
		v := models.EmploymentTypeContractor
		return &v
	case "intern", "internship":
		v := models.EmploymentTypeIntern
		return &v
	}
	return nil
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Run periodically syncs every active organization. Interval comes from
// HRIS_SYNC_INTERVAL_MINUTES (default 60).
func Run(ctx context.Context) {
	logger := config.GetLogger()
	interval := 60 * time.Minute
	if v := strings.TrimSpace(os.Getenv("HRIS_SYNC_INTERVAL_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Minute
		}
	}

	for {
		db := config.GetDB()
		var orgIds []string
		if err := db.WithContext(ctx).Model(&models.Organization{}).
			Where("is_active = ?", true).
			Pluck("id", &orgIds).Error; err != nil {
			config.LogError(logger, "worker.go", "Run", "list organizations", nil, err)
		}
		for _, orgId := range orgIds {
			if err := RunOnce(ctx, orgId); err != nil {
				config.LogError(logger, "worker.go", "Run", "sync organization "+orgId, nil, err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}
