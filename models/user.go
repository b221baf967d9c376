package models

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// User is both a login principal and a directory person. The directory
// columns (Title, EmploymentType, StartDate, EndDate) feed the People source
// generator; EndDate set means terminated.
type User struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrganizationId string          `gorm:"index" json:"organization_id"`
	Username       string          `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	FirstName      string          `gorm:"size:100;not null" json:"first_name" binding:"required"`
	LastName       string          `gorm:"size:100" json:"last_name"`
	Email          *string         `gorm:"size:100;unique" json:"email"`
	Phone          string          `gorm:"size:20" json:"phone"`
	ImageUrl       string          `json:"image_url"`
	Password       string          `gorm:"size:255;not null" json:"password"`
	Title          string          `gorm:"size:100" json:"title"`
	EmploymentType *EmploymentType `gorm:"size:20" json:"employment_type"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Role           UserRole        `gorm:"type:enum('auditee', 'auditor', 'concierge');default:auditee" json:"role"`
	IsSuperAdmin   *bool           `gorm:"not null;default:false" json:"is_super_admin"`
	IsActive       *bool           `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	OrganizationId string          `json:"organization_id"`
	Username       string          `json:"username" binding:"required"`
	FirstName      string          `json:"first_name" binding:"required"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	ImageUrl       string          `json:"image_url"`
	Password       string          `json:"password" binding:"required"`
	Title          string          `json:"title"`
	EmploymentType *EmploymentType `json:"employment_type"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Role           UserRole        `json:"role" binding:"required"`
	IsActive       *bool           `json:"is_active" binding:"required"`
}

/*
caches:
	User:$username
	OrgUserList:$organizationId
*/

func (user User) GetOrganizationId() string {
	return user.OrganizationId
}

func (user User) FullName() string {
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

func (user User) RemoveAllRedis() error {
	return config.RemoveRedisKey("OrgUserList:" + user.OrganizationId)
}

type LoginInfo struct {
	Token            string   `json:"token"`
	ApiToken         string   `json:"api_token"`
	Name             string   `json:"name"`
	Role             UserRole `json:"role"`
	OrganizationId   string   `json:"organization_id"`
	OrganizationName string   `json:"organization_name"`
	Timezone         string   `json:"timezone"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	err := config.RemoveRedisKey("Token:" + fmt.Sprint(token))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error

		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)

	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return &result, errors.New("invalid username or password")
	}

	isActive := *user.IsActive
	if !isActive {
		return &result, errors.New("user is disabled")
	}

	// generate token & response
	token := uuid.New()
	result.Token = token.String()
	result.ApiToken, err = utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return &result, err
	}
	result.Name = user.FullName()
	result.Role = user.Role
	result.OrganizationId = user.OrganizationId

	if user.OrganizationId != "" {
		organization, err := GetOrganizationById(ctx, user.OrganizationId)
		if err != nil {
			return nil, err
		}
		result.OrganizationName = organization.Name
		result.Timezone = organization.Timezone
	}

	// store token in redis
	token_lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		return &result, err
	}

	if err := config.SetRedisValue("Token:"+token.String(), user.Username, time.Duration(token_lifespan)*time.Hour); err != nil {
		return &result, err
	}

	return &result, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return &User{}, errors.New("invalid email address")
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return &User{}, err
	}
	if count > 0 {
		return &User{}, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return &User{}, err
	}
	input.Email = strings.ToLower(input.Email)

	user := User{
		Username:       html.EscapeString(strings.TrimSpace(input.Username)),
		OrganizationId: input.OrganizationId,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          utils.NilIfEmpty(input.Email),
		Phone:          input.Phone,
		ImageUrl:       input.ImageUrl,
		Password:       string(hashedPassword),
		Title:          input.Title,
		EmploymentType: input.EmploymentType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Role:           input.Role,
		IsSuperAdmin:   utils.NewFalse(),
		IsActive:       input.IsActive,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return &User{}, err
	}
	if err := user.RemoveAllRedis(); err != nil {
		return &user, err
	}
	user.Password = ""
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).First(&result, id).Error

	if err != nil {
		return &result, utils.ErrorRecordNotFound
	}

	result.PrepareGive()

	return &result, nil
}

// GetUsersInOrg lists the organization directory. The super admin is a
// servicing account, not a person, so it is excluded when asked.
func GetUsersInOrg(ctx context.Context, organizationId string, excludeSuperAdmin bool) ([]*User, error) {

	db := config.GetDB()
	var results []*User

	dbCtx := db.WithContext(ctx).Model(&User{}).Where("organization_id = ?", organizationId)
	if excludeSuperAdmin {
		dbCtx = dbCtx.Where("is_super_admin = ?", false)
	}
	if err := dbCtx.Order("id").Find(&results).Error; err != nil {
		return nil, err
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}
	return results, nil
}

func GetUserByEmail(ctx context.Context, organizationId string, email string) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).Model(&User{}).
		Where("organization_id = ? AND email = ?", organizationId, strings.ToLower(email)).
		Take(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	result.PrepareGive()
	return &result, nil
}

// DirectoryUserExists backs USER cell validation against the org directory.
func DirectoryUserExists(ctx context.Context, organizationId string) func(email string) bool {
	return func(email string) bool {
		user, err := GetUserByEmail(ctx, organizationId, email)
		return err == nil && user != nil
	}
}

func (input *User) UpdateUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()
	var result User

	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Not("id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	result.Username = input.Username
	result.FirstName = input.FirstName
	result.LastName = input.LastName
	result.Email = input.Email
	result.Phone = input.Phone
	result.ImageUrl = input.ImageUrl
	result.Title = input.Title
	result.EmploymentType = input.EmploymentType
	result.StartDate = input.StartDate
	result.EndDate = input.EndDate
	result.Role = input.Role
	result.IsActive = input.IsActive

	if err := db.WithContext(ctx).Save(&result).Error; err != nil {
		return nil, err
	}
	if err := result.RemoveInstanceRedis(); err != nil {
		return &result, err
	}
	if err := result.RemoveAllRedis(); err != nil {
		return &result, err
	}
	result.PrepareGive()
	return &result, nil
}

func ClearRedis(ctx context.Context) (string, error) {
	err := config.ClearRedis(ctx)
	if err != nil {
		return "Failed to clear redis", nil
	}
	return "OK", nil
}
