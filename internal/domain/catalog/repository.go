package catalog

import "context"

// Repository defines persistence for the permanent menu: items, wines,
// their categories and the allergen reference list.
type Repository interface {
	ListMenuItems(ctx context.Context) ([]*MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*MenuItem, error)
	CreateMenuItem(ctx context.Context, item *MenuItem) error
	UpdateMenuItem(ctx context.Context, item *MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	ListWines(ctx context.Context) ([]*Wine, error)
	GetWine(ctx context.Context, id string) (*Wine, error)
	CreateWine(ctx context.Context, wine *Wine) error
	UpdateWine(ctx context.Context, wine *Wine) error
	DeleteWine(ctx context.Context, id string) error

	ListCategories(ctx context.Context, kind CategoryKind) ([]*Category, error)
	ListAllergens(ctx context.Context) ([]*Allergen, error)
}
