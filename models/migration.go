package models

import (
	"log"
	"os"

	"github.com/laikahq/audit_backend/config"
)

func MigrateTable() {
	if os.Getenv("SKIP_MIGRATIONS") == "true" {
		return
	}

	db := config.GetDB()

	err := db.AutoMigrate(
		&Organization{}, &User{},
		&Audit{},
		&AuditPopulation{}, &PopulationData{}, &PopulationCompletenessAccuracy{},
		&Sample{},
		&Evidence{}, &PopulationEvidence{},
		&Attachment{},
		&Comment{}, &History{},
		&PopulationJobRecord{}, &IdempotencyKey{},
		&DirectorySyncState{}, &DirectorySyncRun{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
