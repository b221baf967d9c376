package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

type History struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	ActionType     string    `gorm:"size:10;not null" json:"action_type" binding:"required"`
	Before         string    `gorm:"type:text" json:"before"`
	After          string    `gorm:"type:text" json:"after"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	ReferenceID    int       `gorm:"index" json:"reference_id"`
	ReferenceType  string    `gorm:"size:255" json:"reference_type"`
	UserId         int       `gorm:"index;not null" json:"user_id"`
	UserName       string    `gorm:"size:100" json:"user_name"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewHistory struct {
	OrganizationId string `json:"organization_id" binding:"required"`
	ActionType     string `json:"action_type" binding:"required"`
	Before         string `json:"before"`
	After          string `json:"after"`
	Description    string `json:"description"`
	ReferenceID    int    `json:"reference_id"`
	ReferenceType  string `json:"reference_type"`
	UserId         int    `json:"user_id"`
	UserName       string `json:"user_name"`
}

func createHistory(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) (err error) {

	var history History

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)

	ctx := tx.Statement.Context
	// get organizationId, userId, userName from context
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return errors.New("organization id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok {
		return errors.New("user name is required")
	}

	history.OrganizationId = organizationId
	history.ActionType = actionType
	history.Before = string(b)
	history.After = string(a)
	history.Description = description
	history.ReferenceID = referenceId
	history.ReferenceType = referenceType
	history.UserId = userId
	history.UserName = userName

	err = tx.Create(&history).Error
	return err
}

func SaveHistoryCreate(tx *gorm.DB, id int, obj interface{}, description string) error {
	return createHistory(tx, "CREATE", id, tx.Statement.Table, nil, obj, description)
}

func SaveHistoryUpdate(tx *gorm.DB, id int, currentValue interface{}, description string) error {

	var newValue = tx.Statement.Dest

	return createHistory(tx, "UPDATE", id, tx.Statement.Table, currentValue, newValue, description)
}

func SaveHistoryDelete(tx *gorm.DB, id int, obj interface{}, description string) error {
	return createHistory(tx, "DELETE", id, tx.Statement.Table, obj, nil, description)
}

type HistoriesConnection struct {
	Edges    []*HistoriesEdge `json:"edges"`
	PageInfo *PageInfo        `json:"pageInfo"`
}

type HistoriesEdge Edge[History]

func (obj History) GetId() int {
	return obj.ID
}

func (h History) GetCursor() string {
	return h.CreatedAt.String()
}

func GetHistory(ctx context.Context, id int) (*History, error) {

	db := config.GetDB()
	var result History

	fieldNames, err := utils.GetQueryFields(ctx, &History{})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Select(fieldNames).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetHistories(ctx context.Context, referenceId *int, referenceType *string, userId *int) ([]*History, error) {

	db := config.GetDB()
	var results []*History

	fieldNames, err := utils.GetQueryFields(ctx, &History{})
	if err != nil {
		return nil, err
	}

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if referenceId != nil && *referenceId > 0 {
		dbCtx = dbCtx.Where("reference_id = ?", referenceId)
	}
	if referenceType != nil && len(*referenceType) > 0 {
		dbCtx = dbCtx.Where("reference_type = ?", referenceType)
	}
	if userId != nil && *userId > 0 {
		dbCtx = dbCtx.Where("user_id = ?", userId)
	}
	err = dbCtx.Select(fieldNames).Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func PaginateHistory(ctx context.Context,
	limit *int,
	after *string,
	referenceType *string,
	referenceID *int,
	userID *int,
	actionType *string,
) (*HistoriesConnection, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	pageSize := 20
	if limit != nil && *limit > 0 {
		pageSize = *limit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("organization_id = ?", organizationId)
	if referenceType != nil && *referenceType != "" {
		dbCtx.Where("reference_type = ?", *referenceType)
	}
	if referenceID != nil && *referenceID > 0 {
		dbCtx.Where("reference_id = ?", *referenceID)
	}
	if userID != nil && *userID > 0 {
		dbCtx.Where("user_id = ?", *userID)
	}
	if actionType != nil && *actionType != "" {
		dbCtx.Where("action_type = ?", *actionType)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[History](dbCtx, pageSize, after, "created_at", "<")
	if err != nil {
		return nil, err
	}

	results := make([]*HistoriesEdge, len(edges))
	for i, edge := range edges {
		e := HistoriesEdge(edge)
		results[i] = &e
	}
	return &HistoriesConnection{Edges: results, PageInfo: pageInfo}, nil
}
