package models

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

// PopulationData is one stored population row. Data keys are exactly the
// population schema's field names; values are already normalized. IsSample
// marks rows pulled into the current sample.
type PopulationData struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	PopulationId   int       `gorm:"index;not null" json:"population_id"`
	Data           JSONMap   `gorm:"type:json;not null" json:"data"`
	IsSample       *bool     `gorm:"not null;default:false" json:"is_sample"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (obj PopulationData) GetId() int {
	return obj.ID
}

func (obj PopulationData) GetCursor() string {
	return fmt.Sprint(obj.ID)
}

func (obj PopulationData) GetOrganizationId() string {
	return obj.OrganizationId
}

type PopulationDataConnection struct {
	Edges    []*PopulationDataEdge `json:"edges"`
	PageInfo *PageInfo             `json:"pageInfo"`
}

type PopulationDataEdge Edge[PopulationData]

func insertPopulationRows(tx *gorm.DB, organizationId string, populationId int, rows []JSONMap) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]PopulationData, len(rows))
	for i, row := range rows {
		records[i] = PopulationData{
			OrganizationId: organizationId,
			PopulationId:   populationId,
			Data:           row,
			IsSample:       utils.NewFalse(),
		}
	}
	return tx.CreateInBatches(&records, 500).Error
}

func deletePopulationRows(tx *gorm.DB, populationId int) error {
	return tx.Where("population_id = ?", populationId).Delete(&PopulationData{}).Error
}

// fetchPopulationRows loads every stored row for a population in insertion
// order. Filtering and sampling work over this full set in memory.
func fetchPopulationRows(ctx context.Context, organizationId string, populationId int) ([]*PopulationData, error) {

	db := config.GetDB()
	var results []*PopulationData

	err := db.WithContext(ctx).Model(&PopulationData{}).
		Where("organization_id = ? AND population_id = ?", organizationId, populationId).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetPopulationData returns the population's rows with the saved filters
// applied, optionally narrowed by a substring search on the schema's search
// field.
func GetPopulationData(ctx context.Context, populationId int, search *string) ([]*PopulationData, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, utils.ErrorPopulationNotFound
	}

	population, err := GetAuditeePopulation(ctx, populationId)
	if err != nil {
		return nil, err
	}

	rows, err := fetchPopulationRows(ctx, organizationId, populationId)
	if err != nil {
		return nil, err
	}
	rows = ApplyFilters(rows, population.ConfigurationFilters)

	if search != nil && *search != "" {
		schema, err := population.Schema()
		if err != nil {
			return nil, err
		}
		rows = searchRows(rows, schema.SearchField, *search)
	}
	return rows, nil
}

func searchRows(rows []*PopulationData, searchField string, term string) []*PopulationData {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	matched := make([]*PopulationData, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Data[searchField]), term) {
			matched = append(matched, row)
		}
	}
	return matched
}

// PaginatePopulationData serves the population table view: saved filters and
// search applied first, then an offset-free slice by opaque cursor.
func PaginatePopulationData(ctx context.Context, populationId int, limit *int, after *string, search *string) (*PopulationDataConnection, error) {

	rows, err := GetPopulationData(ctx, populationId, search)
	if err != nil {
		return nil, err
	}

	afterId := 0
	if decoded, err := DecodeCursor(after); err == nil && decoded != "" {
		afterId, _ = strconv.Atoi(decoded)
	}

	pageSize := len(rows)
	if limit != nil && *limit > 0 {
		pageSize = *limit
	}

	edges := make([]*PopulationDataEdge, 0, pageSize)
	hasNextPage := false
	for _, row := range rows {
		if row.ID <= afterId {
			continue
		}
		if len(edges) == pageSize {
			hasNextPage = true
			break
		}
		edges = append(edges, &PopulationDataEdge{
			Node:   row,
			Cursor: EncodeCursor(row.GetCursor()),
		})
	}

	pageInfo := PageInfo{HasNextPage: &hasNextPage}
	if len(edges) > 0 {
		pageInfo.StartCursor = edges[0].Cursor
		pageInfo.EndCursor = edges[len(edges)-1].Cursor
	}
	return &PopulationDataConnection{Edges: edges, PageInfo: &pageInfo}, nil
}
