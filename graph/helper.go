package graph

import (
	"context"
	"errors"

	"github.com/laikahq/audit_backend/utils"
)

func organizationIdFromContext(ctx context.Context) (string, error) {
	organizationId, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || organizationId == "" {
		return "", errors.New("organization id is required")
	}
	return organizationId, nil
}

// graphql Int arguments arrive as *int; the sampler seeds with *int64
func seedValue(seed *int) *int64 {
	if seed == nil {
		return nil
	}
	value := int64(*seed)
	return &value
}
