package models

// Allowed graphql paths per role. Roles are static in this system (auditee,
// auditor, concierge), so the maps live in code instead of a role table.
// Concierge admins are resolved through GetConciergePaths plus the default
// set; everyone authenticated gets the default set.

// GetDefaultAllowedPaths returns the read paths every authenticated user may
// hit. Writes that any role may perform (comments, plain attachments) live
// here too; organization scoping still applies inside the models.
func GetDefaultAllowedPaths() map[string]bool {
	return map[string]bool{
		"me":           true,
		"logout":       true,
		"organization": true,
		"users":        true,
		"audit":        true,

		"population":                          true,
		"populations":                         true,
		"paginatePopulationData":              true,
		"populationSamples":                   true,
		"populationCompletenessAccuracyFiles": true,
		"laikaSourceDataExists":               true,

		"evidence":        true,
		"evidenceSamples": true,

		"attachments":      true,
		"createAttachment": true,
		"deleteAttachment": true,

		"comments":      true,
		"createComment": true,
		"deleteComment": true,

		"paginateHistory": true,
	}
}

// GetAuditeePaths covers the population room from the client side: sourcing,
// configuration, completeness files and sample evidence uploads.
func GetAuditeePaths() map[string]bool {
	return map[string]bool{
		"uploadAuditeePopulationFile":         true,
		"createAuditeeManualSourcePopulation": true,
		"createAuditeeLaikaSourcePopulation":  true,
		"resetAuditeePopulationSource":        true,
		"saveAuditeePopulationConfiguration":  true,
		"updateAuditeePopulation":             true,

		"addAuditeePopulationCompletenessAccuracy":    true,
		"updateAuditeePopulationCompletenessAccuracy": true,
		"deleteAuditeePopulationCompletenessAccuracy": true,

		"uploadSampleAttachment": true,
		"updateEvidence":         true,
	}
}

// GetAuditorPaths covers sampling and the evidence room from the audit firm
// side. Auditors also move populations through submitted/accepted, which is
// the same updateAuditeePopulation path the auditee uses.
func GetAuditorPaths() map[string]bool {
	return map[string]bool{
		"createAuditPopulation":   true,
		"updateAuditeePopulation": true,

		"createAuditorPopulationSample": true,
		"addAuditorPopulationSample":    true,
		"deleteAuditorPopulationSample": true,
		"createEvidence":                true,
		"updateEvidence":                true,
		"attachSampleToEvidenceRequest": true,
	}
}

// GetConciergePaths is the admin surface on top of both role sets: tenant and
// directory management plus operational paths.
func GetConciergePaths() map[string]bool {
	paths := map[string]bool{
		"createOrganization": true,
		"updateOrganization": true,
		"createUser":         true,
		"updateUser":         true,
		"createAudit":        true,
		"updateAudit":        true,
		"clearRedis":         true,
	}
	for path := range GetAuditeePaths() {
		paths[path] = true
	}
	for path := range GetAuditorPaths() {
		paths[path] = true
	}
	return paths
}

// GetRolePaths resolves the path map for a role. Unknown roles get nothing
// beyond the default set.
func GetRolePaths(role UserRole) map[string]bool {
	switch role {
	case UserRoleAuditee:
		return GetAuditeePaths()
	case UserRoleAuditor:
		return GetAuditorPaths()
	case UserRoleConcierge:
		return GetConciergePaths()
	}
	return map[string]bool{}
}
