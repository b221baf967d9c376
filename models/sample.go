package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

// Sample is one population row pulled into the auditor's sample. The row
// itself stays in population_data; the sample row pins it and carries the
// name evidence attachments use.
type Sample struct {
	ID               int             `gorm:"primary_key" json:"id"`
	OrganizationId   string          `gorm:"index;not null" json:"organization_id"`
	PopulationId     int             `gorm:"index;not null" json:"population_id"`
	PopulationDataId int             `gorm:"index;not null" json:"population_data_id"`
	Name             string          `gorm:"size:255" json:"name"`
	PopulationData   *PopulationData `gorm:"foreignKey:PopulationDataId" json:"population_data"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (obj Sample) GetId() int {
	return obj.ID
}

func (obj Sample) GetCursor() string {
	return fmt.Sprint(obj.ID)
}

func (obj Sample) GetOrganizationId() string {
	return obj.OrganizationId
}

func deleteSamples(tx *gorm.DB, populationId int) error {
	if err := tx.Model(&PopulationData{}).
		Where("population_id = ?", populationId).
		Update("is_sample", false).Error; err != nil {
		return err
	}
	return tx.Where("population_id = ?", populationId).Delete(&Sample{}).Error
}

func GetPopulationSamples(ctx context.Context, populationId int) ([]*Sample, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	db := config.GetDB()
	var results []*Sample
	err := db.WithContext(ctx).Model(&Sample{}).
		Preload("PopulationData").
		Where("organization_id = ? AND population_id = ?", organizationId, populationId).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
