package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	f := Filters{Sort: "-Release_Year", SortSafelist: []string{"id", "title", "release_year"}}
	assert.Equal(t, "release_year", f.SortColumn())
	assert.Equal(t, DescSort, f.SortDirection())

	f.Sort = "title"
	assert.Equal(t, AscSort, f.SortDirection())

	f.Sort = "password"
	assert.Panics(t, func() { f.SortColumn() })
}

func TestPaging(t *testing.T) {
	f := Filters{Page: 3, PageSize: 20}
	assert.Equal(t, 20, f.Limit())
	assert.Equal(t, 40, f.Offset())
}

func TestCalculateMetadata(t *testing.T) {
	assert.Equal(t, Metadata{}, CalculateMetadata(0, 1, 20))
	assert.Equal(t, Metadata{
		CurrentPage:  2,
		PageSize:     20,
		FirstPage:    1,
		LastPage:     3,
		TotalRecords: 41,
	}, CalculateMetadata(41, 2, 20))
}
