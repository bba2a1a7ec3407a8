package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/ptr"
)

func TestBuildSearchQuery_ActiveOnlyByDefault(t *testing.T) {
	query, args, err := buildSearchQuery(domain.CatalogQuery{})

	require.NoError(t, err)
	assert.Contains(t, query, "FROM services")
	assert.Contains(t, query, "active = $1")
	assert.Contains(t, query, "ORDER BY featured DESC, rating DESC, id ASC")
	assert.Equal(t, []interface{}{true}, args)
}

func TestBuildSearchQuery_TextMatchesTitleOrDescription(t *testing.T) {
	query, args, err := buildSearchQuery(domain.CatalogQuery{Text: "репетитор"})

	require.NoError(t, err)
	assert.Contains(t, query, "title ILIKE")
	assert.Contains(t, query, "description ILIKE")
	assert.Contains(t, args, "%репетитор%")
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	query, args, err := buildSearchQuery(domain.CatalogQuery{
		Text:       "уборка",
		CategoryID: ptr.Ptr(int64(3)),
		MinPrice:   500,
		MaxPrice:   ptr.Ptr(2000.0),
	})

	require.NoError(t, err)
	assert.Contains(t, query, "category_id = ")
	assert.Contains(t, query, "price >= ")
	assert.Contains(t, query, "price <= ")
	// active, два ILIKE паттерна, категория и две границы цены
	assert.Len(t, args, 6)
}

func TestBuildSearchQuery_TextMetacharactersEscaped(t *testing.T) {
	tests := []struct {
		text    string
		pattern string
	}{
		{"100%", `%100\%%`},
		{"a_c", `%a\_c%`},
		{`C:\temp`, `%C:\\temp%`},
		{"50%_off", `%50\%\_off%`},
	}

	for _, tt := range tests {
		_, args, err := buildSearchQuery(domain.CatalogQuery{Text: tt.text})

		require.NoError(t, err, tt.text)
		// active + два одинаковых ILIKE паттерна (title, description)
		require.Len(t, args, 3, tt.text)
		assert.Equal(t, tt.pattern, args[1], tt.text)
		assert.Equal(t, tt.pattern, args[2], tt.text)
	}
}

func TestBuildSearchQuery_ZeroMinPriceOmitted(t *testing.T) {
	query, _, err := buildSearchQuery(domain.CatalogQuery{MinPrice: 0})

	require.NoError(t, err)
	assert.NotContains(t, query, "price >=")
}
