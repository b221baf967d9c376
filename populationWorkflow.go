package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/utils"
	"github.com/laikahq/audit_backend/workflow"
	"github.com/sirupsen/logrus"
)

var (
	organizationMutexMap = make(map[string]*sync.Mutex)
	globalMutex          = &sync.Mutex{}
)

// RunPopulationWorkflow is the pull-based alternative to the /pubsub push
// endpoint. It subscribes to the population job topic and processes one
// message per organization at a time.
func RunPopulationWorkflow(ctx context.Context) error {
	logger := config.GetLogger()
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}
	topic, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_TOPIC"))
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, os.Getenv("PUBSUB_SUBSCRIPTION"), topic)
	if err != nil {
		return err
	}
	// Specify the number of concurrent processes
	sub.ReceiveSettings.MaxOutstandingMessages = 10

	callback := func(ctx context.Context, msg *pubsub.Message) {
		m := config.PopulationJobMessage{}
		err := json.Unmarshal(msg.Data, &m)
		if err != nil {
			config.LogError(logger, "populationWorkflow.go", "RunPopulationWorkflow", "Unmarshaling pubsub message", msg.Data, err)
			// Poisoned payload: ack so it does not redeliver forever.
			msg.Ack()
			return
		}
		if m.OrganizationId == "" || m.JobType == "" {
			config.LogError(logger, "populationWorkflow.go", "RunPopulationWorkflow", "Invalid pubsub message (missing required fields)", m, nil)
			msg.Ack()
			return
		}

		// Get or create the mutex for the current OrganizationId
		globalMutex.Lock()
		mutex, exists := organizationMutexMap[m.OrganizationId]
		if !exists {
			mutex = &sync.Mutex{}
			organizationMutexMap[m.OrganizationId] = mutex
		}
		globalMutex.Unlock()

		// Lock the specific organization mutex
		mutex.Lock()
		defer mutex.Unlock()

		correlationID := m.CorrelationId
		if correlationID == "" {
			correlationID = msg.ID
		}
		ctx = utils.SetOrganizationIdInContext(ctx, m.OrganizationId)
		ctx = utils.SetUserIdInContext(ctx, 0)
		ctx = utils.SetUserNameInContext(ctx, "System")
		ctx = utils.SetCorrelationIdInContext(ctx, correlationID)
		if err := workflow.HandlePopulationJob(ctx, m); err != nil {
			logger.WithFields(logrus.Fields{
				"field":           "PopulationWorkflow",
				"organization_id": m.OrganizationId,
				"job_type":        m.JobType,
				"population_id":   m.PopulationId,
				"message_id":      msg.ID,
				"correlation_id":  correlationID,
			}).Error("pubsub processing failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	// Receive blocks until ctx is done.
	if err := sub.Receive(ctx, callback); err != nil {
		config.LogError(logger, "populationWorkflow.go", "RunPopulationWorkflow", "Failed to receive messages", nil, err)
		return err
	}
	return nil
}
