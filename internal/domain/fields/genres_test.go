package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreInputUnmarshal(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		wantKind  GenreInputKind
		wantIDs   []int
		wantPairs []GenrePair
		wantErr   error
	}{
		{name: "null", body: `null`, wantKind: GenreInputEmpty},
		{name: "empty list", body: `[]`, wantKind: GenreInputEmpty},
		{name: "ids", body: `[1, 1, 3]`, wantKind: GenreInputIDs, wantIDs: []int{1, 1, 3}},
		{
			name:      "pairs",
			body:      `[{"id": 1, "name": " Action "}, {"id": 2, "name": "Drama"}]`,
			wantKind:  GenreInputPairs,
			wantIDs:   []int{1, 2},
			wantPairs: []GenrePair{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}},
		},
		{name: "mixed number first", body: `[1, {"id": 2, "name": "Drama"}]`, wantErr: ErrInvalidGenreShape},
		{name: "mixed object first", body: `[{"id": 2, "name": "Drama"}, 1]`, wantErr: ErrInvalidGenreShape},
		{name: "strings", body: `["Action"]`, wantErr: ErrInvalidGenreShape},
		{name: "fractional id", body: `[1.5]`, wantErr: ErrInvalidGenreShape},
		{name: "object without name", body: `[{"id": 2}]`, wantErr: ErrInvalidGenreShape},
		{name: "object with string id", body: `[{"id": "2", "name": "Drama"}]`, wantErr: ErrInvalidGenreShape},
		{name: "object with blank name", body: `[{"id": 2, "name": "  "}]`, wantErr: ErrInvalidGenreShape},
		{name: "not a list", body: `{"id": 2, "name": "Drama"}`, wantErr: ErrInvalidGenreShape},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var in GenreInput
			err := json.Unmarshal([]byte(tc.body), &in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, in.Kind())
			assert.Equal(t, tc.wantIDs, in.IDs())
			assert.Equal(t, tc.wantPairs, in.Pairs())
		})
	}
}

func TestGenreInputInsideStruct(t *testing.T) {
	var body struct {
		Title string     `json:"title"`
		Genre GenreInput `json:"genre"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Alien"}`), &body))
	assert.True(t, body.Genre.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`{"title": "Alien", "genre": [27, 878]}`), &body))
	assert.Equal(t, []int{27, 878}, body.Genre.IDs())
	out, err := json.Marshal(body.Genre)
	require.NoError(t, err)
	assert.JSONEq(t, `[27, 878]`, string(out))
}

func TestRuntime(t *testing.T) {
	out, err := json.Marshal(Runtime(102))
	require.NoError(t, err)
	assert.Equal(t, `"102 mins"`, string(out))

	var r Runtime
	require.NoError(t, json.Unmarshal([]byte(`"95 mins"`), &r))
	assert.Equal(t, Runtime(95), r)
	require.NoError(t, json.Unmarshal([]byte(`120`), &r))
	assert.Equal(t, Runtime(120), r)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"two hours"`), &r), ErrInvalidRuntimeFormat)
}
