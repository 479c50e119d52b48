package fields

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidGenreShape = errors.New("genre must be either a list of genre ids or a list of {id, name} objects")

type GenreInputKind int

const (
	GenreInputEmpty GenreInputKind = iota
	GenreInputIDs
	GenreInputPairs
)

// GenrePair is the object-shaped variant of a genre input element.
type GenrePair struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreInput is the genre field of content-like write requests. It holds
// exactly one of two variants: a list of bare ids or a list of {id, name} pairs.
type GenreInput struct {
	kind  GenreInputKind
	ids   []int
	pairs []GenrePair
}

func GenreIDs(ids ...int) GenreInput {
	if len(ids) == 0 {
		return GenreInput{}
	}
	return GenreInput{kind: GenreInputIDs, ids: append([]int(nil), ids...)}
}

func GenrePairs(pairs ...GenrePair) GenreInput {
	if len(pairs) == 0 {
		return GenreInput{}
	}
	return GenreInput{kind: GenreInputPairs, pairs: append([]GenrePair(nil), pairs...)}
}

func (in GenreInput) Kind() GenreInputKind { return in.kind }

func (in GenreInput) IsEmpty() bool { return in.kind == GenreInputEmpty }

// IDs returns the ids of either variant in input order, duplicates included.
func (in GenreInput) IDs() []int {
	switch in.kind {
	case GenreInputIDs:
		return append([]int(nil), in.ids...)
	case GenreInputPairs:
		ids := make([]int, 0, len(in.pairs))
		for _, p := range in.pairs {
			ids = append(ids, p.ID)
		}
		return ids
	}
	return nil
}

// Pairs returns the object-shaped elements, or nil for the ids variant.
func (in GenreInput) Pairs() []GenrePair {
	if in.kind != GenreInputPairs {
		return nil
	}
	return append([]GenrePair(nil), in.pairs...)
}

func (in GenreInput) MarshalJSON() ([]byte, error) {
	switch in.kind {
	case GenreInputIDs:
		return json.Marshal(in.ids)
	case GenreInputPairs:
		return json.Marshal(in.pairs)
	}
	return []byte("[]"), nil
}

func (in *GenreInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*in = GenreInput{}
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return ErrInvalidGenreShape
	}
	if len(elems) == 0 {
		*in = GenreInput{}
		return nil
	}
	kind := elementKind(elems[0])
	if kind == GenreInputEmpty {
		return ErrInvalidGenreShape
	}
	parsed := GenreInput{kind: kind}
	for _, elem := range elems {
		if elementKind(elem) != kind {
			return ErrInvalidGenreShape
		}
		switch kind {
		case GenreInputIDs:
			var id int
			if err := json.Unmarshal(elem, &id); err != nil {
				return ErrInvalidGenreShape
			}
			parsed.ids = append(parsed.ids, id)
		case GenreInputPairs:
			pair, err := parsePair(elem)
			if err != nil {
				return err
			}
			parsed.pairs = append(parsed.pairs, pair)
		}
	}
	*in = parsed
	return nil
}

func elementKind(elem json.RawMessage) GenreInputKind {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 {
		return GenreInputEmpty
	}
	switch c := elem[0]; {
	case c == '{':
		return GenreInputPairs
	case c == '-' || (c >= '0' && c <= '9'):
		return GenreInputIDs
	}
	return GenreInputEmpty
}

func parsePair(elem json.RawMessage) (GenrePair, error) {
	var raw struct {
		ID   *int    `json:"id"`
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(elem, &raw); err != nil {
		return GenrePair{}, ErrInvalidGenreShape
	}
	if raw.ID == nil || raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
		return GenrePair{}, ErrInvalidGenreShape
	}
	return GenrePair{ID: *raw.ID, Name: strings.TrimSpace(*raw.Name)}, nil
}
