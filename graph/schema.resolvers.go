package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.41

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/laikahq/audit_backend/middlewares"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
)

// Audit is the resolver for the audit field.
func (r *auditPopulationResolver) Audit(ctx context.Context, obj *models.AuditPopulation) (*models.Audit, error) {
	return middlewares.GetAuditLoaded(ctx, obj.AuditId)
}

// Configuration is the resolver for the configuration field.
func (r *auditPopulationResolver) Configuration(ctx context.Context, obj *models.AuditPopulation) ([]*models.ConfigurationQuestion, error) {
	panic(fmt.Errorf("not implemented: Configuration - configuration"))
}

// ConfigurationFilters is the resolver for the configurationFilters field.
func (r *auditPopulationResolver) ConfigurationFilters(ctx context.Context, obj *models.AuditPopulation) ([]*models.ConfigurationFilter, error) {
	panic(fmt.Errorf("not implemented: ConfigurationFilters - configurationFilters"))
}

// Attachments is the resolver for the attachments field.
func (r *auditPopulationResolver) Attachments(ctx context.Context, obj *models.AuditPopulation) ([]*models.Attachment, error) {
	return middlewares.GetPopulationAttachmentsLoaded(ctx, obj.ID)
}

// Samples is the resolver for the samples field.
func (r *evidenceResolver) Samples(ctx context.Context, obj *models.Evidence) ([]*models.PopulationEvidence, error) {
	return middlewares.GetEvidenceSamplesLoaded(ctx, obj.ID)
}

// Attachments is the resolver for the attachments field.
func (r *evidenceResolver) Attachments(ctx context.Context, obj *models.Evidence) ([]*models.Attachment, error) {
	return middlewares.GetEvidenceAttachmentsLoaded(ctx, obj.ID)
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, username string, password string) (*models.LoginInfo, error) {
	return models.Login(ctx, username, password)
}

// Logout is the resolver for the logout field.
func (r *mutationResolver) Logout(ctx context.Context) (bool, error) {
	return models.Logout(ctx)
}

// ClearRedis is the resolver for the clearRedis field.
func (r *mutationResolver) ClearRedis(ctx context.Context) (string, error) {
	return models.ClearRedis(ctx)
}

// CreateOrganization is the resolver for the createOrganization field.
func (r *mutationResolver) CreateOrganization(ctx context.Context, input models.NewOrganization) (*models.Organization, error) {
	return models.CreateOrganization(ctx, &input)
}

// UpdateOrganization is the resolver for the updateOrganization field.
func (r *mutationResolver) UpdateOrganization(ctx context.Context, id uuid.UUID, input models.NewOrganization) (*models.Organization, error) {
	organization := models.Organization{
		Name:     input.Name,
		LogoUrl:  input.LogoUrl,
		Website:  input.Website,
		Address:  input.Address,
		Country:  input.Country,
		Timezone: input.Timezone,
	}
	return organization.UpdateOrganization(ctx, id.String())
}

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	return models.CreateUser(ctx, &input)
}

// UpdateUser is the resolver for the updateUser field.
func (r *mutationResolver) UpdateUser(ctx context.Context, id int, input models.NewUser) (*models.User, error) {
	user := models.User{
		Username:       input.Username,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          utils.NilIfEmpty(input.Email),
		Phone:          input.Phone,
		ImageUrl:       input.ImageUrl,
		Title:          input.Title,
		EmploymentType: input.EmploymentType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Role:           input.Role,
		IsActive:       input.IsActive,
	}
	return user.UpdateUser(ctx, id)
}

// CreateAudit is the resolver for the createAudit field.
func (r *mutationResolver) CreateAudit(ctx context.Context, input models.NewAudit) (*models.Audit, error) {
	return models.CreateAudit(ctx, &input)
}

// UpdateAudit is the resolver for the updateAudit field.
func (r *mutationResolver) UpdateAudit(ctx context.Context, id int, input models.NewAudit) (*models.Audit, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	audit := models.Audit{
		OrganizationId: organizationId,
		Name:           input.Name,
		AuditFirm:      input.AuditFirm,
		AuditType:      input.AuditType,
		AsOfDate:       input.AsOfDate,
		Configuration:  input.Configuration,
	}
	return audit.UpdateAudit(ctx, id)
}

// CreateAuditPopulation is the resolver for the createAuditPopulation field.
func (r *mutationResolver) CreateAuditPopulation(ctx context.Context, input models.NewAuditPopulation) (*models.AuditPopulation, error) {
	return models.CreateAuditPopulation(ctx, &input)
}

// UploadAuditeePopulationFile is the resolver for the uploadAuditeePopulationFile field.
func (r *mutationResolver) UploadAuditeePopulationFile(ctx context.Context, populationID int, file graphql.Upload) (*models.PopulationUploadResult, error) {
	content, err := io.ReadAll(file.File)
	if err != nil {
		return nil, err
	}
	return models.UploadAuditeePopulationFile(ctx, populationID, file.Filename, content)
}

// CreateAuditeeManualSourcePopulation is the resolver for the createAuditeeManualSourcePopulation field.
func (r *mutationResolver) CreateAuditeeManualSourcePopulation(ctx context.Context, populationID int) (*models.AuditPopulation, error) {
	return models.CreateAuditeeManualSourcePopulation(ctx, populationID)
}

// CreateAuditeeLaikaSourcePopulation is the resolver for the createAuditeeLaikaSourcePopulation field.
func (r *mutationResolver) CreateAuditeeLaikaSourcePopulation(ctx context.Context, populationID int, source string) (*models.AuditPopulation, error) {
	return models.CreateAuditeeLaikaSourcePopulation(ctx, populationID, source)
}

// ResetAuditeePopulationSource is the resolver for the resetAuditeePopulationSource field.
func (r *mutationResolver) ResetAuditeePopulationSource(ctx context.Context, populationID int) (*models.AuditPopulation, error) {
	return models.ResetAuditeePopulationSource(ctx, populationID)
}

// SaveAuditeePopulationConfiguration is the resolver for the saveAuditeePopulationConfiguration field.
func (r *mutationResolver) SaveAuditeePopulationConfiguration(ctx context.Context, populationID int, questions []*models.ConfigurationQuestion) (*models.AuditPopulation, error) {
	saved := make(models.QuestionList, 0, len(questions))
	for _, question := range questions {
		if question == nil {
			continue
		}
		saved = append(saved, *question)
	}
	return models.SaveAuditeePopulationConfiguration(ctx, populationID, saved)
}

// UpdateAuditeePopulation is the resolver for the updateAuditeePopulation field.
func (r *mutationResolver) UpdateAuditeePopulation(ctx context.Context, id int, input models.UpdateAuditPopulationInput) (*models.AuditPopulation, error) {
	return models.UpdateAuditeePopulation(ctx, id, &input)
}

// AddAuditeePopulationCompletenessAccuracy is the resolver for the addAuditeePopulationCompletenessAccuracy field.
func (r *mutationResolver) AddAuditeePopulationCompletenessAccuracy(ctx context.Context, populationID int, files []*graphql.Upload) ([]*models.PopulationCompletenessAccuracy, error) {
	return models.AddCompletenessAccuracyFiles(ctx, populationID, files)
}

// UpdateAuditeePopulationCompletenessAccuracy is the resolver for the updateAuditeePopulationCompletenessAccuracy field.
func (r *mutationResolver) UpdateAuditeePopulationCompletenessAccuracy(ctx context.Context, id int, name string) (*models.PopulationCompletenessAccuracy, error) {
	return models.RenameCompletenessAccuracyFile(ctx, id, name)
}

// DeleteAuditeePopulationCompletenessAccuracy is the resolver for the deleteAuditeePopulationCompletenessAccuracy field.
func (r *mutationResolver) DeleteAuditeePopulationCompletenessAccuracy(ctx context.Context, id int) (*models.PopulationCompletenessAccuracy, error) {
	return models.DeleteCompletenessAccuracyFile(ctx, id)
}

// CreateAuditorPopulationSample is the resolver for the createAuditorPopulationSample field.
func (r *mutationResolver) CreateAuditorPopulationSample(ctx context.Context, populationID int, selectedIds []int, size *int, seed *int) ([]*models.Sample, error) {
	return models.CreateAuditorPopulationSample(ctx, populationID, selectedIds, size, seedValue(seed))
}

// AddAuditorPopulationSample is the resolver for the addAuditorPopulationSample field.
func (r *mutationResolver) AddAuditorPopulationSample(ctx context.Context, populationID int, seed *int) (*models.Sample, error) {
	return models.AddAuditorPopulationSample(ctx, populationID, seedValue(seed))
}

// DeleteAuditorPopulationSample is the resolver for the deleteAuditorPopulationSample field.
func (r *mutationResolver) DeleteAuditorPopulationSample(ctx context.Context, populationID int, sampleIds []int) (bool, error) {
	return models.DeleteAuditorPopulationSamples(ctx, populationID, sampleIds)
}

// CreateEvidence is the resolver for the createEvidence field.
func (r *mutationResolver) CreateEvidence(ctx context.Context, input models.NewEvidence) (*models.Evidence, error) {
	return models.CreateEvidence(ctx, &input)
}

// UpdateEvidence is the resolver for the updateEvidence field.
func (r *mutationResolver) UpdateEvidence(ctx context.Context, id int, input models.UpdateEvidenceInput) (*models.Evidence, error) {
	return models.UpdateEvidence(ctx, id, &input)
}

// AttachSampleToEvidenceRequest is the resolver for the attachSampleToEvidenceRequest field.
func (r *mutationResolver) AttachSampleToEvidenceRequest(ctx context.Context, evidenceID int, populationID int) (*models.Evidence, error) {
	return models.AttachSamplesToEvidenceRequest(ctx, evidenceID, populationID)
}

// UploadSampleAttachment is the resolver for the uploadSampleAttachment field.
func (r *mutationResolver) UploadSampleAttachment(ctx context.Context, evidenceID int, sampleID int, file graphql.Upload) (*models.Attachment, error) {
	return models.UploadSampleAttachment(ctx, evidenceID, sampleID, file)
}

// CreateAttachment is the resolver for the createAttachment field.
func (r *mutationResolver) CreateAttachment(ctx context.Context, input models.NewAttachment) (*models.Attachment, error) {
	return models.CreateAttachment(ctx, input.Upload, input.ReferenceType, input.ReferenceID, input.SampleId)
}

// DeleteAttachment is the resolver for the deleteAttachment field.
func (r *mutationResolver) DeleteAttachment(ctx context.Context, id int) (*models.Attachment, error) {
	return models.DeleteAttachment(ctx, id)
}

// CreateComment is the resolver for the createComment field.
func (r *mutationResolver) CreateComment(ctx context.Context, input models.NewComment) (*models.Comment, error) {
	return models.CreateComment(ctx, &input)
}

// DeleteComment is the resolver for the deleteComment field.
func (r *mutationResolver) DeleteComment(ctx context.Context, id int) (*models.Comment, error) {
	return models.DeleteComment(ctx, id)
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*models.User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	user, err := middlewares.GetUserLoaded(ctx, userId)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context, excludeSuperAdmin *bool) ([]*models.User, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	exclude := true
	if excludeSuperAdmin != nil {
		exclude = *excludeSuperAdmin
	}
	return models.GetUsersInOrg(ctx, organizationId, exclude)
}

// Organization is the resolver for the organization field.
func (r *queryResolver) Organization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return models.GetOrganizationById(ctx, id.String())
}

// Audit is the resolver for the audit field.
func (r *queryResolver) Audit(ctx context.Context, id int) (*models.Audit, error) {
	return models.GetAudit(ctx, id)
}

// Population is the resolver for the population field.
func (r *queryResolver) Population(ctx context.Context, id int) (*models.AuditPopulation, error) {
	return models.GetAuditeePopulation(ctx, id)
}

// Populations is the resolver for the populations field.
func (r *queryResolver) Populations(ctx context.Context, auditID int) ([]*models.AuditPopulation, error) {
	return models.GetAuditeePopulations(ctx, auditID)
}

// PaginatePopulationData is the resolver for the paginatePopulationData field.
func (r *queryResolver) PaginatePopulationData(ctx context.Context, populationID int, limit *int, after *string, search *string) (*models.PopulationDataConnection, error) {
	return models.PaginatePopulationData(ctx, populationID, limit, after, search)
}

// PopulationSamples is the resolver for the populationSamples field.
func (r *queryResolver) PopulationSamples(ctx context.Context, populationID int) ([]*models.Sample, error) {
	return models.GetPopulationSamples(ctx, populationID)
}

// PopulationCompletenessAccuracyFiles is the resolver for the populationCompletenessAccuracyFiles field.
func (r *queryResolver) PopulationCompletenessAccuracyFiles(ctx context.Context, populationID int) ([]*models.PopulationCompletenessAccuracy, error) {
	return models.GetCompletenessAccuracyFiles(ctx, populationID)
}

// LaikaSourceDataExists is the resolver for the laikaSourceDataExists field.
func (r *queryResolver) LaikaSourceDataExists(ctx context.Context, populationID int, source string) (bool, error) {
	return models.LaikaSourceDataExists(ctx, populationID, source)
}

// Evidence is the resolver for the evidence field.
func (r *queryResolver) Evidence(ctx context.Context, id int) (*models.Evidence, error) {
	return models.GetEvidence(ctx, id)
}

// EvidenceSamples is the resolver for the evidenceSamples field.
func (r *queryResolver) EvidenceSamples(ctx context.Context, evidenceID int) ([]*models.PopulationEvidence, error) {
	return models.GetEvidenceSamples(ctx, evidenceID)
}

// Attachments is the resolver for the attachments field.
func (r *queryResolver) Attachments(ctx context.Context, referenceType string, referenceID int, sampleID *int) ([]*models.Attachment, error) {
	return models.GetAttachments(ctx, referenceType, referenceID, sampleID)
}

// Comments is the resolver for the comments field.
func (r *queryResolver) Comments(ctx context.Context, referenceID *int, referenceType *string, userID *int) ([]*models.Comment, error) {
	return models.GetComments(ctx, referenceID, referenceType, userID)
}

// PaginateHistory is the resolver for the paginateHistory field.
func (r *queryResolver) PaginateHistory(ctx context.Context, limit *int, after *string, referenceType *string, referenceID *int, userID *int, actionType *string) (*models.HistoriesConnection, error) {
	return models.PaginateHistory(ctx, limit, after, referenceType, referenceID, userID, actionType)
}

// Configuration is the resolver for the configuration field.
func (r *newAuditPopulationResolver) Configuration(ctx context.Context, obj *models.NewAuditPopulation, data []*models.ConfigurationQuestion) error {
	panic(fmt.Errorf("not implemented: Configuration - configuration"))
}

// AuditPopulation returns AuditPopulationResolver implementation.
func (r *Resolver) AuditPopulation() AuditPopulationResolver { return &auditPopulationResolver{r} }

// Evidence returns EvidenceResolver implementation.
func (r *Resolver) Evidence() EvidenceResolver { return &evidenceResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// NewAuditPopulation returns NewAuditPopulationResolver implementation.
func (r *Resolver) NewAuditPopulation() NewAuditPopulationResolver {
	return &newAuditPopulationResolver{r}
}

type auditPopulationResolver struct{ *Resolver }
type evidenceResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type newAuditPopulationResolver struct{ *Resolver }
