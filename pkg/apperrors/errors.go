package apperrors

import "errors"

var (
	// ErrNotFound is returned when a name, id or part reference does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTaxonomy is returned when a mandatory classification is missing or unknown.
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
	// ErrDuplicateEdge marks an assembly edge that already exists. AddChild reports it as
	// AlreadyExists instead of returning it.
	ErrDuplicateEdge = errors.New("assembly edge already exists")
	// ErrCycleDetected is returned by cycle-checked graphs when an edge would close a loop.
	ErrCycleDetected = errors.New("assembly edge would create a cycle")
	// ErrStoreUnavailable wraps failures to open or reach the catalog store.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	ErrDuplicateImage    = errors.New("image already added to this part")
	ErrInvalidPartNumber = errors.New("invalid part number")
	ErrInvalidPartType   = errors.New("invalid part type")
)
