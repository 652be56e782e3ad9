package app

import (
	"context"
	"sync"
	"testing"

	"restaurant_backoffice/internal/domain/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	items []*catalog.MenuItem
	wines []*catalog.Wine

	itemListCalls int
	wineListCalls int
}

func (r *fakeCatalogRepo) ListMenuItems(ctx context.Context) ([]*catalog.MenuItem, error) {
	r.itemListCalls++
	return r.items, nil
}

func (r *fakeCatalogRepo) GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error) {
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) CreateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *fakeCatalogRepo) UpdateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	return nil
}

func (r *fakeCatalogRepo) DeleteMenuItem(ctx context.Context, id string) error { return nil }

func (r *fakeCatalogRepo) ListWines(ctx context.Context) ([]*catalog.Wine, error) {
	r.wineListCalls++
	return r.wines, nil
}

func (r *fakeCatalogRepo) GetWine(ctx context.Context, id string) (*catalog.Wine, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) CreateWine(ctx context.Context, wine *catalog.Wine) error {
	r.wines = append(r.wines, wine)
	return nil
}

func (r *fakeCatalogRepo) UpdateWine(ctx context.Context, wine *catalog.Wine) error { return nil }
func (r *fakeCatalogRepo) DeleteWine(ctx context.Context, id string) error          { return nil }

func (r *fakeCatalogRepo) ListCategories(ctx context.Context, kind catalog.CategoryKind) ([]*catalog.Category, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListAllergens(ctx context.Context) ([]*catalog.Allergen, error) {
	return nil, nil
}

func catalogFixture() (*CatalogService, *fakeCatalogRepo) {
	repo := &fakeCatalogRepo{
		items: []*catalog.MenuItem{
			{ID: "it-1", Name: "Croquetas", Price: 8.5, CategoryID: "cat-1", Active: true, AllergenIDs: []string{"gluten", "lactosa"}},
			{ID: "it-2", Name: "Pulpo a la gallega", Price: 16, CategoryID: "cat-2", Active: true},
		},
		wines: []*catalog.Wine{
			{ID: "w-1", Name: "Rioja Crianza", BottlePrice: 18, CategoryID: "tinto", Active: true},
		},
	}
	return NewCatalogService(repo, testLogger()), repo
}

func TestListMenuItems_ServesSecondReadFromCache(t *testing.T) {
	svc, repo := catalogFixture()
	ctx := context.Background()

	_, err := svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)
	_, err = svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.itemListCalls)
}

func TestApplyMenuItemChange_DoesNotTouchAlreadyReturnedItems(t *testing.T) {
	svc, repo := catalogFixture()
	ctx := context.Background()

	before, err := svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, before, 2)

	svc.ApplyMenuItemChange(map[string]interface{}{
		"id":    "it-1",
		"name":  "Croquetas de jamón",
		"price": 9.0,
	})

	// Earlier callers keep the snapshot they were given.
	for _, it := range before {
		if it.ID == "it-1" {
			assert.Equal(t, "Croquetas", it.Name)
			assert.Equal(t, 8.5, it.Price)
		}
	}

	// The next read sees the patch without going back to the database.
	after, err := svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)
	for _, it := range after {
		if it.ID == "it-1" {
			assert.Equal(t, "Croquetas de jamón", it.Name)
			assert.Equal(t, 9.0, it.Price)
		}
	}
	assert.Equal(t, 1, repo.itemListCalls)
}

func TestApplyMenuItemChange_UnknownRowForcesReload(t *testing.T) {
	svc, repo := catalogFixture()
	ctx := context.Background()

	_, err := svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)

	svc.ApplyMenuItemChange(map[string]interface{}{"id": "it-new", "name": "Gazpacho"})

	_, err = svc.ListMenuItems(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.itemListCalls)
}

func TestApplyWineChange_DoesNotTouchAlreadyReturnedWines(t *testing.T) {
	svc, _ := catalogFixture()
	ctx := context.Background()

	before, err := svc.ListWines(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, before, 1)

	svc.ApplyWineChange(map[string]interface{}{
		"id":           "w-1",
		"bottle_price": 21.0,
	})

	assert.Equal(t, 18.0, before[0].BottlePrice)

	after, err := svc.ListWines(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 21.0, after[0].BottlePrice)
}

func TestListMenuItems_ConcurrentWithChangeEvents(t *testing.T) {
	svc, _ := catalogFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			items, err := svc.ListMenuItems(ctx, ListOptions{Query: "croquetas"})
			assert.NoError(t, err)
			for _, it := range items {
				_ = it.Name
				_ = it.Price
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			svc.ApplyMenuItemChange(map[string]interface{}{
				"id":    "it-1",
				"name":  "Croquetas caseras",
				"price": float64(i),
			})
		}
	}()
	wg.Wait()
}
