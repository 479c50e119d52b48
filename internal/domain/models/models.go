package models

import (
	"streamcatalog/proj/internal/domain/fields"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	KindMovie  = "movie"
	KindSeries = "series"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Genre is the single source of truth for an (id, name) pairing.
type Genre struct {
	RefID     uuid.UUID `json:"refId" db:"ref_id"`
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Poster    string    `json:"poster"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

func (g Genre) Reference() GenreReference {
	return GenreReference{
		RefID:  g.RefID.String(),
		ID:     g.ID,
		Name:   g.Name,
		Poster: g.Poster,
	}
}

// GenreReference is a snapshot of a Genre embedded in another record.
// RefID is kept as a string so that malformed identities sent by clients
// can be told apart from missing ones.
type GenreReference struct {
	RefID  string `json:"refId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Poster string `json:"poster,omitempty"`
}

func CloneGenreRefs(refs []GenreReference) []GenreReference {
	if refs == nil {
		return []GenreReference{}
	}
	return append([]GenreReference(nil), refs...)
}

type Content struct {
	ID          int64            `json:"id"`
	Kind        string           `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	ReleaseYear int32            `json:"release_year,omitempty" db:"release_year"`
	Runtime     fields.Runtime   `json:"runtime,omitempty"`
	Seasons     int32            `json:"seasons,omitempty"`
	Poster      string           `json:"poster,omitempty"`
	Genre       []GenreReference `json:"genre"`
	Version     int32            `json:"version"`
	CreatedAt   time.Time        `json:"-" db:"created_at"`
}

type StreamingType struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Thumbnail       string           `json:"thumbnail,omitempty"`
	SupportedGenres []GenreReference `json:"supportedGenres" db:"supported_genres"`
	Version         int32            `json:"version"`
	CreatedAt       time.Time        `json:"-" db:"created_at"`
}

// HasGenreName reports whether a supported genre carries name, ignoring case.
func (s *StreamingType) HasGenreName(name string) bool {
	for _, g := range s.SupportedGenres {
		if strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}

type Preferences struct {
	FavoriteGenres []int `json:"favoriteGenres"`
}

type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash []byte      `json:"-" db:"password_hash"`
	Role         string      `json:"role"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"-" db:"updated_at"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type WatchEntry struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"-" db:"user_id"`
	ContentID      int64     `json:"content_id" db:"content_id"`
	MinutesWatched int32     `json:"minutes_watched" db:"minutes_watched"`
	Completed      bool      `json:"completed"`
	WatchedAt      time.Time `json:"watched_at" db:"watched_at"`
}

type GenreCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Views int    `json:"views"`
}

type WatchStats struct {
	TotalViews       int          `json:"total_views"`
	DistinctContents int          `json:"distinct_contents"`
	TotalMinutes     int64        `json:"total_minutes"`
	Completed        int          `json:"completed"`
	TopGenres        []GenreCount `json:"top_genres"`
}

type AuthTokens struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
