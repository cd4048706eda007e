package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

func TestCollection_Indexes(t *testing.T) {
	c := NewCollection([]model.RawContact{
		{Source: model.SourceMailFrom, NormalizedName: "jane doe", Email: "jane@x.com"},
		{Source: model.SourceNetworkExport, NormalizedName: "jane doe", Email: "jane@x.com"},
		{Source: model.SourcePhoneBook, NormalizedName: "jane d", Phone: "9876543210"},
	})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{0, 1}, c.ByEmail("jane@x.com"))
	assert.Equal(t, []int{2}, c.ByPhone("9876543210"))
	assert.Equal(t, []int{0, 1}, c.ByName("jane doe"))
	assert.Equal(t, 1, c.Emails())
	assert.Equal(t, 1, c.Phones())
}

func TestCollection_PreservesInputOrder(t *testing.T) {
	contacts := []model.RawContact{
		{OriginalName: "b"},
		{OriginalName: "a"},
	}
	c := NewCollection(contacts)
	assert.Equal(t, "b", c.All()[0].OriginalName)
	assert.Equal(t, "a", c.All()[1].OriginalName)
}

func TestCollection_EmptyFieldsNotIndexed(t *testing.T) {
	c := NewCollection([]model.RawContact{{OriginalName: "X Y"}})
	assert.Empty(t, c.ByEmail(""))
	assert.Empty(t, c.ByPhone(""))
	assert.Empty(t, c.ByName(""))
}
