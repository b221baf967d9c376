package middlewares

import (
	"context"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap the per-request data loaders injected via middleware.
type Loaders struct {
	userLoader       *dataloader.Loader[int, *models.User]
	auditLoader      *dataloader.Loader[int, *models.Audit]
	populationLoader *dataloader.Loader[int, *models.AuditPopulation]
	sampleLoader     *dataloader.Loader[int, *models.Sample]

	evidenceSampleLoader       *dataloader.Loader[int, []*models.PopulationEvidence]
	populationAttachmentLoader *dataloader.Loader[int, []*models.Attachment]
	evidenceAttachmentLoader   *dataloader.Loader[int, []*models.Attachment]
}

func NewLoaders(conn *gorm.DB) *Loaders {
	userReader := &userReader{db: conn}
	auditReader := &auditReader{db: conn}
	populationReader := &populationReader{db: conn}
	sampleReader := &sampleReader{db: conn}
	evidenceSampleReader := &evidenceSampleReader{db: conn}

	populationAttachmentReader := &attachmentReader{db: conn, referenceType: "audit_populations"}
	evidenceAttachmentReader := &attachmentReader{db: conn, referenceType: "evidences"}

	return &Loaders{
		userLoader:       dataloader.NewBatchedLoader(userReader.getUsers, dataloader.WithWait[int, *models.User](time.Millisecond)),
		auditLoader:      dataloader.NewBatchedLoader(auditReader.getAudits, dataloader.WithWait[int, *models.Audit](time.Millisecond)),
		populationLoader: dataloader.NewBatchedLoader(populationReader.getPopulations, dataloader.WithWait[int, *models.AuditPopulation](time.Millisecond)),
		sampleLoader:     dataloader.NewBatchedLoader(sampleReader.getSamples, dataloader.WithWait[int, *models.Sample](time.Millisecond)),

		evidenceSampleLoader:       dataloader.NewBatchedLoader(evidenceSampleReader.getEvidenceSamples, dataloader.WithWait[int, []*models.PopulationEvidence](time.Millisecond)),
		populationAttachmentLoader: dataloader.NewBatchedLoader(populationAttachmentReader.getAttachments, dataloader.WithWait[int, []*models.Attachment](time.Millisecond)),
		evidenceAttachmentLoader:   dataloader.NewBatchedLoader(evidenceAttachmentReader.getAttachments, dataloader.WithWait[int, []*models.Attachment](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// T must be struct
// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []int) (loaderResults []*dataloader.Result[[]*T]) {
	resultMap := make(map[int][]*T)
	for _, result := range results {
		// creating a new variable every turn, to avoid pointing to the address of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
