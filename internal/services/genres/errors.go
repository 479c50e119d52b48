package genres

import (
	"errors"
	"fmt"
	"strconv"
	"streamcatalog/proj/internal/domain/fields"
	"strings"
)

var (
	ErrGenreNotFound      = errors.New("genre not found")
	ErrGenreAlreadyExists = errors.New("genre with that id or name already exists")
	ErrGenreInUse         = errors.New("genre is referenced by content or streaming types")
	ErrInvalidGenreShape  = fields.ErrInvalidGenreShape
	ErrInvalidGenreName   = errors.New("genre name must not be empty")
	ErrMetadataDisabled   = errors.New("metadata provider is not configured")
)

// UnknownGenreIDsError lists every referenced id missing from the genre store.
type UnknownGenreIDsError struct {
	IDs []int
}

func (e *UnknownGenreIDsError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Sprintf("unknown genre ids: %s", strings.Join(ids, ", "))
}

// GenreIDMismatchError: a genre with the same name is already bound under another id.
type GenreIDMismatchError struct {
	CandidateID int
	StoredID    int
}

func (e *GenreIDMismatchError) Error() string {
	return fmt.Sprintf("genre id mismatch: got %d, expected %d", e.CandidateID, e.StoredID)
}

// GenreNameMismatchError: a genre with the same id is already known under another name.
type GenreNameMismatchError struct {
	CandidateName string
	StoredName    string
}

func (e *GenreNameMismatchError) Error() string {
	return fmt.Sprintf("genre name mismatch: got %q, expected %q", e.CandidateName, e.StoredName)
}
