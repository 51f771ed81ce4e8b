package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFilterWidensListingType(t *testing.T) {
	require.Equal(t,
		"(status = 'for_rent' OR listing_type = 'rent' OR listing_type = 'both')",
		statusFilter("for_rent"))
	require.Equal(t,
		"(status = 'for_sale' OR listing_type = 'sale' OR listing_type = 'both')",
		statusFilter("for_sale"))
	require.Equal(t, "status = 'sold'", statusFilter("sold"))
}
