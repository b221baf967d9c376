package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/99designs/gqlgen/graphql"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
	"github.com/laikahq/audit_backend/config"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm/schema"
)

var CountryCode = "US"

func IsValidEmail(email string) bool {
	// Basic email validation regex pattern
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil // Phone number is valid for the specified country code
}

func GenerateUniqueFilename() string {

	timestamp := time.Now().UnixNano()

	random := rand.Intn(1000)

	uniqueFilename := fmt.Sprintf("%d_%d", timestamp, random)

	return uniqueFilename
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func GetQueryFields(ctx context.Context, model interface{}) (fieldNames []string, err error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return
	}
	m := make(map[string]string)
	for _, field := range s.Fields {
		dbName := field.DBName
		modelName := strings.ToLower(field.Name)
		m[modelName] = dbName
	}

	fields := graphql.CollectFieldsCtx(ctx, nil)
	for _, column := range fields {
		if !strings.HasPrefix(column.Name, "__") {
			colName := strings.ToLower(column.Name)
			if len(column.Selections) == 0 {
				fieldNames = append(fieldNames, m[colName])
			} else {
				dbName := m[colName+"id"]
				if len(dbName) > 0 {
					colName += "id"
				}
				fieldNames = append(fieldNames, m[colName])
			}
		}
	}
	return
}

func GetPaginatedQueryFields(ctx context.Context, model interface{}) (fieldNames []string, err error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return
	}
	m := make(map[string]string)
	for _, field := range s.Fields {
		dbName := field.DBName
		modelName := strings.ToLower(field.Name)
		m[modelName] = dbName
	}

	fields := graphql.CollectFieldsCtx(ctx, nil)
	for _, column := range fields {
		if column.Name == "edges" {
			edgesFields := graphql.CollectFields(graphql.GetOperationContext(ctx), column.Selections, nil)
			nodeFields := graphql.CollectFields(graphql.GetOperationContext(ctx), edgesFields[0].Selections, nil)
			for _, nodeColumn := range nodeFields {
				if !strings.HasPrefix(nodeColumn.Name, "__") {
					colName := strings.ToLower(nodeColumn.Name)
					if len(nodeColumn.Selections) == 0 {
						fieldNames = append(fieldNames, m[colName])
					} else {
						dbName := m[colName+"id"]
						if len(dbName) > 0 {
							colName += "id"
						}
						fieldNames = append(fieldNames, m[colName])
					}
				}
			}
			break
		}
	}
	return
}

func SplitQueryPath(path string) (module string, action string, err error) {
	var capitalIndex int
	for i, r := range path {
		if unicode.IsUpper(r) {
			capitalIndex = i
			break
		}
	}
	if capitalIndex == 0 {
		err = errors.New("invalid query")
		return
	}
	action = path[:capitalIndex]
	module = path[capitalIndex:]
	return
}

// returns slice removing duplicate elements
func UniqueSlice[T comparable](slice []T) []T {
	inResult := make(map[T]bool)
	var result []T
	for _, elm := range slice {
		if _, ok := inResult[elm]; !ok {
			// if not exists in map, append it, otherwise do nothing
			inResult[elm] = true
			result = append(result, elm)
		}
	}
	return result
}

// safely dereference pointer of type T, nil pointer return zero value or optional default
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

// return nil if boolean expression is true, else the given default
func NilOrElse[T any](b bool, elseValue T) *T {
	if b {
		return nil
	}
	return &elseValue
}

func NilIfEmpty[T comparable](ptr T) *T {
	var defaultZero T
	if ptr == defaultZero {
		return nil
	}
	return &ptr
}

// turn auditPopulation to AuditPopulation
func UppercaseFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// turn ToggleActive to toggleActive
func LowercaseFirst(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// mergeSlices merges two integer slices and removes duplicates
func MergeIntSlices(slice1, slice2 []int) []int {
	elementMap := make(map[int]bool)
	mergedSlice := []int{}

	// Add elements from the first slice to the map
	for _, elem := range slice1 {
		if !elementMap[elem] {
			elementMap[elem] = true
			mergedSlice = append(mergedSlice, elem)
		}
	}

	// Add elements from the second slice to the map
	for _, elem := range slice2 {
		if !elementMap[elem] {
			elementMap[elem] = true
			mergedSlice = append(mergedSlice, elem)
		}
	}

	return mergedSlice
}

func AreIntSlicesEqual(slice1, slice2 []int) bool {
	if len(slice1) != len(slice2) {
		return false
	}

	// Create copies of the slices to avoid modifying the original slices
	s1 := append([]int(nil), slice1...)
	s2 := append([]int(nil), slice2...)

	// Sort the slices
	sort.Ints(s1)
	sort.Ints(s2)

	// Compare the sorted slices
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}

	return true
}

func OrganizationLock(ctx context.Context, organizationId string, lockType string, moduleName string, functionName string) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when Redis lock isn't initialized yet.
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", organizationId, errors.New("redis lock is nil"))
		return errors.New("service not ready (redis lock not initialized)")
	}
	// Try to obtain a lock for the organization
	lockKey := fmt.Sprintf("%s:%s", lockType, organizationId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for organization", organizationId, err)
		return errors.New("could not obtain lock for organization")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for organization", organizationId, err)
		return err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	return nil
}
