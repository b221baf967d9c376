package models

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
)

// Attachment is a stored file tied to an audit object. SampleId is set when
// the file belongs to one sample inside an evidence request; such files are
// only visible through that sample.
type Attachment struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	FileKey        string    `gorm:"size:255;not null" json:"file_key"`
	FileUrl        string    `json:"file_url"`
	ContentType    string    `gorm:"size:100" json:"content_type"`
	ReferenceType  string    `gorm:"size:255;index" json:"reference_type"`
	ReferenceID    int       `gorm:"index" json:"reference_id"`
	SampleId       *int      `gorm:"index" json:"sample_id"`
	IsDeleted      *bool     `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAttachment struct {
	Upload        graphql.Upload `json:"upload"`
	ReferenceType string         `json:"referenceType"`
	ReferenceID   int            `json:"referenceId"`
	SampleId      *int           `json:"sampleId"`
}

func (obj Attachment) GetId() int {
	return obj.ID
}

func (obj Attachment) GetOrganizationId() string {
	return obj.OrganizationId
}

func getCloudURL(objectKey string) string {
	return utils.BuildObjectAccessURL(objectKey)
}

// attachment reference types
func validateReferenceType(ctx context.Context, organizationId string, referenceType string, referenceId int) error {
	db := config.GetDB()
	validReferenceTypes := map[string]bool{
		"audit_populations": true,
		"evidences":         true,
		"samples":           true,
	}
	if ok := validReferenceTypes[referenceType]; !ok {
		return errors.New("invalid reference type")
	}

	// check if it exists
	var count int64
	if err := db.WithContext(ctx).Table(referenceType).Where("organization_id = ? AND id = ?", organizationId, referenceId).Count(&count).Error; err != nil {
		return err
	}
	if count <= 0 {
		return utils.ErrorRecordNotFound
	}

	return nil
}

func CreateAttachment(ctx context.Context, file graphql.Upload, referenceType string, referenceId int, sampleId *int) (*Attachment, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	// validate if the reference exists
	if err := validateReferenceType(ctx, organizationId, referenceType, referenceId); err != nil {
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		return nil, errors.New("file has no extension")
	}
	objectKey := path.Join(organizationId, referenceType, uuid.New().String()+ext)

	err := utils.UploadFileToGCS(ctx, objectKey, file.File)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to storage provider: %v", err)
	}

	result := Attachment{
		OrganizationId: organizationId,
		Name:           file.Filename,
		FileKey:        objectKey,
		FileUrl:        getCloudURL(objectKey),
		ContentType:    file.ContentType,
		ReferenceType:  referenceType,
		ReferenceID:    referenceId,
		SampleId:       sampleId,
		IsDeleted:      utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateAttachmentFromKey records a file that already landed in storage via
// the signed-upload flow. The caller has verified the object key prefix.
func CreateAttachmentFromKey(ctx context.Context, objectKey string, name string, contentType string, referenceType string, referenceId int, sampleId *int) (*Attachment, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	if err := validateReferenceType(ctx, organizationId, referenceType, referenceId); err != nil {
		return nil, err
	}
	if name == "" {
		name = path.Base(objectKey)
	}

	result := Attachment{
		OrganizationId: organizationId,
		Name:           name,
		FileKey:        objectKey,
		FileUrl:        getCloudURL(objectKey),
		ContentType:    contentType,
		ReferenceType:  referenceType,
		ReferenceID:    referenceId,
		SampleId:       sampleId,
		IsDeleted:      utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAttachments lists the live files on a reference. Sample-scoped files
// only show up when that sample is asked for.
func GetAttachments(ctx context.Context, referenceType string, referenceId int, sampleId *int) ([]*Attachment, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	db := config.GetDB()
	var results []*Attachment

	dbCtx := db.WithContext(ctx).Model(&Attachment{}).
		Where("organization_id = ? AND reference_type = ? AND reference_id = ? AND is_deleted = ?",
			organizationId, referenceType, referenceId, false)
	if sampleId != nil {
		dbCtx = dbCtx.Where("sample_id = ?", *sampleId)
	} else {
		dbCtx = dbCtx.Where("sample_id IS NULL")
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteAttachment(ctx context.Context, id int) (*Attachment, error) {

	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return nil, errors.New("organization id is required")
	}

	result, err := utils.FetchModel[Attachment](ctx, organizationId, id)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	result.IsDeleted = utils.NewTrue()
	if err := db.WithContext(ctx).Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
