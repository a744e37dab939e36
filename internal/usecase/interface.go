package usecase

import (
	"context"

	"expense-tracker/internal/domain"
)

// TransactionRepository defines the interface for loading bank exports and the
// vendor table. The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TransactionRepository interface {
	GetTransactionSet(ctx context.Context, source domain.Source) (domain.TransactionSet, error)
	GetVendorCategories(ctx context.Context, path string) ([]domain.VendorCategoryEntry, error)
}

// BrandLookup resolves a category for a vendor from an external service.
// It returns domain.ErrCategoryNotFound when the service has no answer.
type BrandLookup interface {
	ResolveCategory(ctx context.Context, vendor string) (string, error)
}
