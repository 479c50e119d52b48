package main

import (
	"errors"
	"net/http"
	"streamcatalog/proj/internal/clients/tmdb"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/services/auth"
	"streamcatalog/proj/internal/services/content"
	"streamcatalog/proj/internal/services/genres"
	"streamcatalog/proj/internal/services/streaming"
	"streamcatalog/proj/internal/services/users"
)

var (
	badRequestErrors = []error{
		genres.ErrInvalidGenreShape,
		genres.ErrInvalidGenreName,
		fields.ErrInvalidRuntimeFormat,
		content.ErrInvalidKind,
		content.ErrEmptyBatch,
		streaming.ErrGenreRequired,
		streaming.ErrNothingToAdd,
		streaming.ErrMissingGenreID,
		streaming.ErrInvalidIDFormat,
		streaming.ErrGenreRefMismatch,
		streaming.ErrDuplicateGenreName,
		streaming.ErrDuplicateCategoryID,
		genres.ErrMetadataDisabled,
	}
	notFoundErrors = []error{
		genres.ErrGenreNotFound,
		content.ErrContentNotFound,
		streaming.ErrStreamingTypeNotFound,
		users.ErrUserNotFound,
		users.ErrContentNotFound,
		auth.ErrUserNotFound,
	}
	conflictErrors = []error{
		genres.ErrGenreAlreadyExists,
		genres.ErrGenreInUse,
		content.ErrEditConflict,
		streaming.ErrStreamingTypeNameTaken,
		streaming.ErrEditConflict,
		auth.ErrUserAlreadyExists,
	}
	unauthorizedErrors = []error{
		auth.ErrInvalidCredentials,
		auth.ErrInvalidToken,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// serviceError translates errors returned by the services into responses.
// Anything it does not know about is a server error.
func (app *Application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var unknownIDs *genres.UnknownGenreIDsError
	var idMismatch *genres.GenreIDMismatchError
	var nameMismatch *genres.GenreNameMismatchError
	switch {
	case errors.As(err, &unknownIDs):
		app.Http.Response(w, r, envelop{"ids": unknownIDs.IDs}, err.Error(), http.StatusBadRequest)
	case errors.As(err, &idMismatch):
		app.Http.Response(w, r, envelop{
			"candidateId": idMismatch.CandidateID,
			"storedId":    idMismatch.StoredID,
		}, err.Error(), http.StatusBadRequest)
	case errors.As(err, &nameMismatch):
		app.Http.Response(w, r, envelop{
			"candidateName": nameMismatch.CandidateName,
			"storedName":    nameMismatch.StoredName,
		}, err.Error(), http.StatusBadRequest)
	case isAny(err, badRequestErrors):
		app.Http.BadRequest(w, r, err.Error())
	case isAny(err, notFoundErrors):
		app.Http.NotFound(w, r, err.Error())
	case isAny(err, conflictErrors):
		app.Http.Conflict(w, r, err.Error())
	case isAny(err, unauthorizedErrors):
		app.Http.Unauthorized(w, r, err.Error())
	case errors.Is(err, tmdb.ErrUnavailable):
		app.Http.Response(w, r, nil, err.Error(), http.StatusServiceUnavailable)
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
