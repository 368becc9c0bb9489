package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection(t *testing.T) {
	f := Filters{Sort: "-name", SortSafelist: []string{"name"}}
	assert.Equal(t, DescSort, f.SortDirection())
	assert.Equal(t, "name", f.SortColumn())
	f.Sort = "name"
	assert.Equal(t, AscSort, f.SortDirection())
}

func TestSortColumnPanicsOnUnknown(t *testing.T) {
	f := Filters{Sort: "password", SortSafelist: []string{"name"}}
	assert.Panics(t, func() { f.SortColumn() })
}

func TestLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PageSize: 10}
	assert.Equal(t, 10, f.Limit())
	assert.Equal(t, 20, f.Offset())
}
