package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PopulationCompletenessAccuracy is one C&A file on a population: either the
// generated snapshot of the population's rows or a file the auditee added.
// Deletes are soft so auditors keep an audit trail.
type PopulationCompletenessAccuracy struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	PopulationId   int       `gorm:"index;not null" json:"population_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	FileKey        string    `gorm:"size:255;not null" json:"file_key"`
	FileUrl        string    `json:"file_url"`
	IsGenerated    *bool     `gorm:"not null;default:false" json:"is_generated"`
	IsDeleted      *bool     `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (obj PopulationCompletenessAccuracy) GetId() int {
	return obj.ID
}

func (obj PopulationCompletenessAccuracy) GetOrganizationId() string {
	return obj.OrganizationId
}

// MaxCompletenessAccuracyFiles caps the live files per population.
const MaxCompletenessAccuracyFiles = 5

// checkFileCapacity rejects additions that would push a population past the
// live-file cap. Soft-deleted files do not count against it.
func checkFileCapacity(liveCount int, adding int) error {
	if liveCount+adding > MaxCompletenessAccuracyFiles {
		return utils.ErrorMaxFilesExceeded
	}
	return nil
}

// nextAvailableName resolves a name collision against the live files by
// appending "(n)" before the extension: report.pdf, report(1).pdf, ...
func nextAvailableName(name string, taken map[string]bool) string {
	if !taken[strings.ToLower(name)] {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s(%d)%s", base, i, ext)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

func liveCompletenessAccuracyNames(tx *gorm.DB, populationId int) (map[string]bool, int, error) {
	var names []string
	if err := tx.Model(&PopulationCompletenessAccuracy{}).
		Where("population_id = ? AND is_deleted = ?", populationId, false).
		Pluck("name", &names).Error; err != nil {
		return nil, 0, err
	}
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[strings.ToLower(n)] = true
	}
	return taken, len(names), nil
}

func GetCompletenessAccuracyFiles(ctx context.Context, populationId int) ([]*PopulationCompletenessAccuracy, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	db := config.GetDB()
	var results []*PopulationCompletenessAccuracy
	err := db.WithContext(ctx).Model(&PopulationCompletenessAccuracy{}).
		Where("organization_id = ? AND population_id = ? AND is_deleted = ?", organizationId, populationId, false).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// buildCompletenessAccuracyWorkbook renders the population's rows into a
// single-sheet workbook in schema column order.
func buildCompletenessAccuracyWorkbook(schema *Schema, rows []*PopulationData) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := schema.SheetName
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := schema.Headers()
	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(headers))
		for j, h := range headers {
			cells[j] = row.Data[h]
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// GenerateCompletenessAccuracyArtifact snapshots the population's current
// rows into "Completeness and Accuracy - <display id>.xlsx". A previously
// generated artifact is replaced; user-added files are left alone.
func GenerateCompletenessAccuracyArtifact(ctx context.Context, populationId int) (*PopulationCompletenessAccuracy, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	population, err := utils.FetchModel[AuditPopulation](ctx, organizationId, populationId)
	if err != nil {
		return nil, utils.ErrorPopulationNotFound
	}
	schema, err := population.Schema()
	if err != nil {
		return nil, err
	}
	rows, err := fetchPopulationRows(ctx, organizationId, populationId)
	if err != nil {
		return nil, err
	}

	workbook, err := buildCompletenessAccuracyWorkbook(schema, rows)
	if err != nil {
		return nil, err
	}

	objectKey := populationObjectKey(populationId, ".xlsx")
	if err := utils.UploadBytesToGCS(ctx, objectKey, workbook.Bytes(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		return nil, err
	}

	artifactName := fmt.Sprintf("Completeness and Accuracy - %s.xlsx", population.DisplayId)

	db := config.GetDB()
	var artifact PopulationCompletenessAccuracy
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// retire the previous generated artifact
		if err := tx.Model(&PopulationCompletenessAccuracy{}).
			Where("population_id = ? AND is_generated = ? AND is_deleted = ?", populationId, true, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		taken, count, err := liveCompletenessAccuracyNames(tx, populationId)
		if err != nil {
			return err
		}
		if err := checkFileCapacity(count, 1); err != nil {
			return err
		}

		artifact = PopulationCompletenessAccuracy{
			OrganizationId: organizationId,
			PopulationId:   populationId,
			Name:           nextAvailableName(artifactName, taken),
			FileKey:        objectKey,
			FileUrl:        getCloudURL(objectKey),
			IsGenerated:    utils.NewTrue(),
			IsDeleted:      utils.NewFalse(),
		}
		return tx.Create(&artifact).Error
	})
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

// AddCompletenessAccuracyFiles stores auditee-provided C&A files. Archives
// are rejected, empty files are rejected, name collisions get a "(n)"
// suffix, and the live-file cap holds across the whole batch.
func AddCompletenessAccuracyFiles(ctx context.Context, populationId int, files []*graphql.Upload) ([]*PopulationCompletenessAccuracy, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}
	if len(files) == 0 {
		return nil, utils.ErrorNoFilesFound
	}

	population, err := utils.FetchModelForChange[AuditPopulation](ctx, organizationId, populationId)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if ext == ".zip" || ext == ".tar" || ext == ".gz" || ext == ".rar" || ext == ".7z" {
			return nil, utils.ErrorUnsupportedFileType
		}
		if file.Size == 0 {
			return nil, utils.ErrorEmptyFile
		}
	}

	db := config.GetDB()
	var results []*PopulationCompletenessAccuracy
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, count, err := liveCompletenessAccuracyNames(tx, population.ID)
		if err != nil {
			return err
		}
		if err := checkFileCapacity(count, len(files)); err != nil {
			return err
		}

		for _, file := range files {
			ext := filepath.Ext(file.Filename)
			objectKey := populationObjectKey(population.ID, ext)
			if err := utils.UploadFileToGCS(ctx, objectKey, file.File); err != nil {
				return err
			}

			name := nextAvailableName(file.Filename, taken)
			taken[strings.ToLower(name)] = true

			record := &PopulationCompletenessAccuracy{
				OrganizationId: organizationId,
				PopulationId:   population.ID,
				Name:           name,
				FileKey:        objectKey,
				FileUrl:        getCloudURL(objectKey),
				IsGenerated:    utils.NewFalse(),
				IsDeleted:      utils.NewFalse(),
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// RenameCompletenessAccuracyFile renames a live file; the new name must be
// unique among the population's live files.
func RenameCompletenessAccuracyFile(ctx context.Context, id int, newName string) (*PopulationCompletenessAccuracy, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, errors.New("name is required")
	}

	record, err := utils.FetchModel[PopulationCompletenessAccuracy](ctx, organizationId, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&PopulationCompletenessAccuracy{}).
			Where("population_id = ? AND is_deleted = ? AND LOWER(name) = ? AND id <> ?",
				record.PopulationId, false, strings.ToLower(newName), record.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return utils.ErrorNameAlreadyExists
		}
		record.Name = newName
		return tx.Save(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteCompletenessAccuracyFile soft-deletes; the stored object is kept.
func DeleteCompletenessAccuracyFile(ctx context.Context, id int) (*PopulationCompletenessAccuracy, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	record, err := utils.FetchModel[PopulationCompletenessAccuracy](ctx, organizationId, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if record.IsDeleted != nil && *record.IsDeleted {
		return record, nil
	}

	db := config.GetDB()
	record.IsDeleted = utils.NewTrue()
	if err := db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
