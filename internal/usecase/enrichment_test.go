package usecase_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/usecase"
	mock_usecase "expense-tracker/internal/usecase/mocks"
)

func TestEnrichmentUseCase_Enrich(t *testing.T) {
	sets := []domain.TransactionSet{
		{Currency: "EUR", Transactions: []domain.Transaction{
			{Vendor: "Netflix"},
			{Vendor: " Spotify "},
			{Vendor: "Local Bakery"},
			{Vendor: ""},
		}},
		{Currency: "USD", Transactions: []domain.Transaction{
			{Vendor: "Spotify"},
			{Vendor: "Uber"},
			{Vendor: "Netflix"},
		}},
	}
	table := domain.NewCategoryTable([]domain.VendorCategoryEntry{{Vendor: "Netflix", Category: "Entertainment"}})

	ctrl := gomock.NewController(t)
	lookup := mock_usecase.NewMockBrandLookup(ctrl)

	lookup.EXPECT().ResolveCategory(gomock.Any(), "Spotify").Return("Music", nil).Times(1)
	lookup.EXPECT().ResolveCategory(gomock.Any(), "Local Bakery").Return("", domain.ErrCategoryNotFound).Times(1)
	lookup.EXPECT().ResolveCategory(gomock.Any(), "Uber").Return("", errors.New("connection reset")).Times(1)

	uc := usecase.NewEnrichmentUseCase(lookup, 2)
	enriched, report := uc.Enrich(quietContext(), sets, table)

	assert.Equal(t, 3, report.Looked)
	assert.Equal(t, map[string]string{"Spotify": "Music"}, report.Resolved)
	assert.Equal(t, []string{"Local Bakery"}, report.NotFound)
	assert.Equal(t, []string{"Uber"}, report.Failed)

	category, ok := enriched.Lookup("Spotify")
	require.True(t, ok)
	assert.Equal(t, "Music", category)
	_, ok = enriched.Lookup("Uber")
	assert.False(t, ok)
	assert.Equal(t, 2, enriched.Len())

	// the input table is untouched
	assert.Equal(t, 1, table.Len())
	_, ok = table.Lookup("Spotify")
	assert.False(t, ok)
}

func TestEnrichmentUseCase_NothingToLookUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mock_usecase.NewMockBrandLookup(ctrl)

	table := domain.NewCategoryTable([]domain.VendorCategoryEntry{{Vendor: "Uber", Category: "Transport"}})
	sets := []domain.TransactionSet{{Currency: "USD", Transactions: []domain.Transaction{{Vendor: "Uber"}}}}

	uc := usecase.NewEnrichmentUseCase(lookup, 0)
	enriched, report := uc.Enrich(quietContext(), sets, table)

	assert.Equal(t, 0, report.Looked)
	assert.Empty(t, report.Resolved)
	assert.Equal(t, table.Entries(), enriched.Entries())
}

func TestEnrichmentUseCase_BlankCategoryCountsAsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mock_usecase.NewMockBrandLookup(ctrl)
	lookup.EXPECT().ResolveCategory(gomock.Any(), "Mystery").Return("  ", nil)

	sets := []domain.TransactionSet{{Currency: "USD", Transactions: []domain.Transaction{{Vendor: "Mystery"}}}}

	uc := usecase.NewEnrichmentUseCase(lookup, 1)
	enriched, report := uc.Enrich(quietContext(), sets, domain.CategoryTable{})

	assert.Equal(t, []string{"Mystery"}, report.NotFound)
	assert.Equal(t, 0, enriched.Len())
}
