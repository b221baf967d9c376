package models

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/utils"
	"gorm.io/gorm"
)

// EnqueuePopulationJob implements the transactional outbox: it writes the job
// record inside the caller's DB transaction but does NOT publish to Pub/Sub.
// Publishing is performed asynchronously by the outbox dispatcher after commit.
func EnqueuePopulationJob(ctx context.Context, tx *gorm.DB, organizationId string, populationId int, jobType PopulationJobType, payload interface{}) error {

	var payloadInByte []byte
	var err error

	if payload != nil {
		payloadInByte, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	record := PopulationJobRecord{
		OrganizationId: organizationId,
		PopulationId:   populationId,
		JobType:        jobType,
		Payload:        payloadInByte,
		EnqueuedAt:     time.Now().UTC(),
		IsProcessed:    false,
		PublishStatus:  OutboxPublishStatusPending,
		CorrelationId:  correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// ToJSONWithoutField converts an object to JSON after temporarily removing a specified field
func ToJSONWithoutField(obj interface{}, fieldName string) ([]byte, error) {
	// Get the value of the object
	val := reflect.ValueOf(obj)

	// If the value is an interface, get the concrete value it holds
	if val.Kind() == reflect.Interface {
		val = val.Elem()
	}

	// If the value is not a pointer, create a pointer to it
	if val.Kind() != reflect.Ptr {
		valPtr := reflect.New(val.Type())
		valPtr.Elem().Set(val)
		val = valPtr
	}

	// Dereference the pointer
	val = val.Elem()

	// Ensure the value is a struct
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct, got %v", val.Kind())
	}

	// Find the field by name
	field := val.FieldByName(fieldName)
	var err error
	var jsonData []byte
	if field.IsValid() {
		// Store the original value of the field
		originalValue := reflect.New(field.Type()).Elem()
		originalValue.Set(field)

		// Clear the field value
		field.Set(reflect.Zero(field.Type()))

		// Convert the object to JSON
		jsonData, err = json.Marshal(val.Interface())

		// Restore the original value
		field.Set(originalValue)
	} else {
		jsonData, err = json.Marshal(val.Interface())
	}
	if err != nil {
		return nil, err
	}
	return jsonData, nil
}

// storage keys for population blobs: population/<id>/<uuid><ext>
func populationObjectKey(populationId int, ext string) string {
	return fmt.Sprintf("population/%d/%s%s", populationId, uuid.NewString(), ext)
}
