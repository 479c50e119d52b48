package content

import "errors"

var (
	ErrContentNotFound = errors.New("content not found")
	ErrEditConflict    = errors.New("unable to update the content due to an edit conflict, please try again")
	ErrInvalidKind     = errors.New("content kind must be either movie or series")
	ErrEmptyBatch      = errors.New("at least one content is required")
)
