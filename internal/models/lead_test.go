package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("hanna.tesfaye@example.com"))
	require.True(t, ValidEmail("a-b@mail.example.et"))
	require.False(t, ValidEmail("not-an-email"))
	require.False(t, ValidEmail("missing@tld"))
	require.False(t, ValidEmail(""))
}

func TestValidPhone(t *testing.T) {
	require.True(t, ValidPhone("+251 911 234 567"))
	require.True(t, ValidPhone("(011) 551-2345"))
	require.True(t, ValidPhone(""))
	require.False(t, ValidPhone("call me"))
}

func TestMarkConverted(t *testing.T) {
	l := &Lead{Status: LeadStatusQualified}
	l.MarkConverted("c-1")

	require.Equal(t, LeadStatusConverted, l.Status)
	require.True(t, l.ConvertedToCustomer)
	require.Equal(t, "c-1", l.CustomerID)
	require.NotNil(t, l.ConversionDate)
	require.True(t, l.IsClosed())
}

func TestIsClosed(t *testing.T) {
	require.False(t, (&Lead{Status: LeadStatusNew}).IsClosed())
	require.False(t, (&Lead{Status: LeadStatusQualified}).IsClosed())
	require.True(t, (&Lead{Status: LeadStatusConverted}).IsClosed())
	require.True(t, (&Lead{Status: LeadStatusLost}).IsClosed())
}

func TestFunnelOrderCoversPipeline(t *testing.T) {
	require.Equal(t, LeadStatusNew, FunnelOrder[0])
	require.Equal(t, LeadStatusConverted, FunnelOrder[len(FunnelOrder)-1])
	require.NotContains(t, FunnelOrder, LeadStatusLost)
	for _, s := range FunnelOrder {
		require.True(t, s.Valid())
	}
}

func TestSearchPreferencesMerge(t *testing.T) {
	minPrice := 2_000_000.0
	p := &SearchPreferences{PropertyType: "apartment", MinPrice: &minPrice}

	maxPrice := 8_000_000.0
	p.Merge(SearchPreferences{MaxPrice: &maxPrice, Locations: []string{"Bole"}})

	require.Equal(t, "apartment", p.PropertyType)
	require.Equal(t, minPrice, *p.MinPrice)
	require.Equal(t, maxPrice, *p.MaxPrice)
	require.Equal(t, []string{"Bole"}, p.Locations)

	p.Merge(SearchPreferences{PropertyType: "villa"})
	require.Equal(t, "villa", p.PropertyType)
	require.Equal(t, []string{"Bole"}, p.Locations)
}
