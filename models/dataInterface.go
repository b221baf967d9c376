package models

// Identifier is satisfied by models with an integer primary key; composite
// cursors pair it with GetCursor for stable ordering.
type Identifier interface {
	GetId() int
}

type Node interface {
	Cursor
	Identifier
}

// Data is what single-object dataloaders require: a key and a placeholder
// value for misses.
type Data interface {
	Identifier
	GetDefault(id int) interface{}
}

// RelatedData is what one-to-many dataloaders require: the foreign key the
// batch is grouped by.
type RelatedData interface {
	GetReferenceId() int
}

func (obj User) GetId() int {
	return obj.ID
}

func (obj User) GetDefault(id int) interface{} {
	return User{ID: id}
}

func (obj Audit) GetId() int {
	return obj.ID
}

func (obj Audit) GetDefault(id int) interface{} {
	return Audit{ID: id}
}

func (obj AuditPopulation) GetDefault(id int) interface{} {
	return AuditPopulation{ID: id}
}

func (obj Sample) GetDefault(id int) interface{} {
	return Sample{ID: id}
}

func (obj Attachment) GetReferenceId() int {
	return obj.ReferenceID
}

func (obj PopulationEvidence) GetReferenceId() int {
	return obj.EvidenceId
}
