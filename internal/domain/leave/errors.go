package leave

import "errors"

var (
	ErrAmbiguousEmployee = errors.New("employee name matches more than one usage row")
	ErrAppendFailed      = errors.New("failed to append leave log row")
	ErrStoreUnavailable  = errors.New("leave store unavailable")
	ErrMissingColumn     = errors.New("worksheet is missing a required column")
	ErrWorksheetNotFound = errors.New("worksheet not found")
)
