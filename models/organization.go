package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
)

type Organization struct {
	ID               uuid.UUID `gorm:"primary_key" json:"id"`
	Name             string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	LogoUrl          string    `json:"logo_url"`
	Website          string    `gorm:"size:255" json:"website"`
	Address          string    `gorm:"type:text" json:"address"`
	Country          string    `gorm:"size:100" json:"country"`
	Timezone         string    `gorm:"size:50" json:"timezone"`
	SuperAdminUserId int       `gorm:"default:0" json:"super_admin_user_id"`
	IsActive         *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrganization struct {
	Name     string `json:"name" binding:"required"`
	LogoUrl  string `json:"logo_url"`
	Website  string `json:"website"`
	Address  string `json:"address"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

func (organization *Organization) StoreRedis() error {
	return config.SetRedisObject("Organization:"+fmt.Sprint(organization.ID), organization, 0)
}

func (organization *Organization) RemoveRedis() error {
	return config.RemoveRedisKey("Organization:" + fmt.Sprint(organization.ID))
}

// redis first, then db; caches on miss
func GetOrganizationById(ctx context.Context, id string) (*Organization, error) {

	db := config.GetDB()
	var result Organization

	exists, err := config.GetRedisObject("Organization:"+id, &result)
	if err != nil {
		return nil, err
	}
	if exists {
		return &result, nil
	}

	if err := db.WithContext(ctx).Model(&Organization{}).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := result.StoreRedis(); err != nil {
		return nil, err
	}
	return &result, nil
}

func CreateOrganization(ctx context.Context, input *NewOrganization) (*Organization, error) {

	db := config.GetDB()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("organization name is required")
	}

	organization := Organization{
		ID:       uuid.New(),
		Name:     name,
		LogoUrl:  input.LogoUrl,
		Website:  input.Website,
		Address:  input.Address,
		Country:  input.Country,
		Timezone: input.Timezone,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&organization).Error; err != nil {
		return nil, err
	}
	return &organization, nil
}

func (input *Organization) UpdateOrganization(ctx context.Context, id string) (*Organization, error) {

	db := config.GetDB()
	var result Organization

	if err := db.WithContext(ctx).Model(&Organization{}).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	result.Name = input.Name
	result.LogoUrl = input.LogoUrl
	result.Website = input.Website
	result.Address = input.Address
	result.Country = input.Country
	result.Timezone = input.Timezone

	if err := db.WithContext(ctx).Save(&result).Error; err != nil {
		return nil, err
	}
	if err := result.RemoveRedis(); err != nil {
		return nil, err
	}
	return &result, nil
}
