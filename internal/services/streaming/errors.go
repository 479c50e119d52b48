package streaming

import "errors"

var (
	ErrStreamingTypeNotFound  = errors.New("streaming type not found")
	ErrStreamingTypeNameTaken = errors.New("streaming type with that name already exists")
	ErrEditConflict           = errors.New("unable to update the streaming type due to an edit conflict, please try again")

	ErrGenreRequired       = errors.New("at least one genre is required")
	ErrNothingToAdd        = errors.New("all genres are already supported")
	ErrMissingGenreID      = errors.New("genre refId is required")
	ErrInvalidIDFormat     = errors.New("genre refId is not a valid identifier")
	ErrGenreRefMismatch    = errors.New("genre refId does not belong to the genre with that id")
	ErrDuplicateGenreName  = errors.New("genre name is listed more than once")
	ErrDuplicateCategoryID = errors.New("genre id is listed more than once with different names")
)
