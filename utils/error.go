package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Lookup failures surfaced to API callers with stable messages.
var (
	ErrorPopulationNotFound = errors.New("population not found")
	ErrorAuditNotFound      = errors.New("audit not found")
)

// Sampling pre-conditions.
var (
	ErrorInvalidSampleSize = errors.New("invalid sample size")
	ErrorNoAvailableItems  = errors.New("no available items")
)

// Lifecycle violations.
var ErrorPopulationFrozen = errors.New("population is not open for changes")

// Ingest / artifact validation.
var (
	ErrorIncorrectTemplate   = errors.New("incorrect template")
	ErrorMissingSection      = errors.New("missing section")
	ErrorEmptyFile           = errors.New("empty file")
	ErrorUnsupportedFileType = errors.New("unsupported file type")
	ErrorNoFilesFound        = errors.New("no files found")
	ErrorMaxFilesExceeded    = errors.New("maximum number of files exceeded")
	ErrorNameAlreadyExists   = errors.New("name already exists")
)

// Row validation.
var (
	ErrorRequiredField       = errors.New("required field is missing")
	ErrorUnknownUser         = errors.New("unknown user")
	ErrorInvalidEnumeration  = errors.New("value is not in the allowed set")
	ErrorInvalidDate         = errors.New("invalid date")
	ErrorRowValidationFailed = errors.New("row validation failed")
)

// Evidence bridge.
var ErrorEvidenceNotOpen = errors.New("evidence request is not open")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
