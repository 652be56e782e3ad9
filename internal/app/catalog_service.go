package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"restaurant_backoffice/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrUnknownSortField = fmt.Errorf("unknown sort field")

// ListOptions carries the client-side style filter and sort parameters for
// catalog listings.
type ListOptions struct {
	Query      string
	CategoryID string
	SortBy     string // "name" or "price"
	Ascending  bool
}

// CatalogService manages the permanent menu and the wine list. Listings are
// served from an in-memory cache that live database change events patch in
// place, so repeated reads skip the database entirely.
type CatalogService struct {
	repo catalog.Repository
	log  *logrus.Logger

	mu          sync.RWMutex
	items       []*catalog.MenuItem
	wines       []*catalog.Wine
	itemsLoaded bool
	winesLoaded bool
}

func NewCatalogService(repo catalog.Repository, log *logrus.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) ListMenuItems(ctx context.Context, opts ListOptions) ([]*catalog.MenuItem, error) {
	if opts.SortBy != "" && opts.SortBy != catalog.SortByName && opts.SortBy != catalog.SortByPrice {
		return nil, ErrUnknownSortField
	}

	items, err := s.cachedItems(ctx)
	if err != nil {
		return nil, err
	}

	out := catalog.FilterMenuItems(items, opts.Query, opts.CategoryID)
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = catalog.SortByName
	}
	catalog.SortMenuItems(out, sortBy, opts.Ascending)
	return out, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	s.invalidateItems()
	return nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("failed to update menu item %s: %w", item.ID, err)
	}
	s.invalidateItems()
	return nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.invalidateItems()
	return nil
}

func (s *CatalogService) ListWines(ctx context.Context, opts ListOptions) ([]*catalog.Wine, error) {
	if opts.SortBy != "" && opts.SortBy != catalog.SortByName && opts.SortBy != catalog.SortByPrice {
		return nil, ErrUnknownSortField
	}

	wines, err := s.cachedWines(ctx)
	if err != nil {
		return nil, err
	}

	out := catalog.FilterWines(wines, opts.Query, opts.CategoryID)
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = catalog.SortByName
	}
	catalog.SortWines(out, sortBy, opts.Ascending)
	return out, nil
}

func (s *CatalogService) GetWine(ctx context.Context, id string) (*catalog.Wine, error) {
	return s.repo.GetWine(ctx, id)
}

func (s *CatalogService) CreateWine(ctx context.Context, wine *catalog.Wine) error {
	if wine.ID == "" {
		wine.ID = uuid.NewString()
	}
	if strings.TrimSpace(wine.Name) == "" {
		return fmt.Errorf("wine name must not be blank")
	}
	if err := s.repo.CreateWine(ctx, wine); err != nil {
		return fmt.Errorf("failed to create wine: %w", err)
	}
	s.invalidateWines()
	return nil
}

func (s *CatalogService) UpdateWine(ctx context.Context, wine *catalog.Wine) error {
	if strings.TrimSpace(wine.Name) == "" {
		return fmt.Errorf("wine name must not be blank")
	}
	if err := s.repo.UpdateWine(ctx, wine); err != nil {
		return fmt.Errorf("failed to update wine %s: %w", wine.ID, err)
	}
	s.invalidateWines()
	return nil
}

func (s *CatalogService) DeleteWine(ctx context.Context, id string) error {
	if err := s.repo.DeleteWine(ctx, id); err != nil {
		return err
	}
	s.invalidateWines()
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context, kind catalog.CategoryKind) ([]*catalog.Category, error) {
	return s.repo.ListCategories(ctx, kind)
}

func (s *CatalogService) ListAllergens(ctx context.Context) ([]*catalog.Allergen, error) {
	return s.repo.ListAllergens(ctx)
}

// ApplyMenuItemChange patches the cache in place from a database change
// event on menu_items, so other editors' updates show without a reload.
func (s *CatalogService) ApplyMenuItemChange(record map[string]interface{}) {
	id, _ := record["id"].(string)
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.itemsLoaded {
		return
	}
	for _, it := range s.items {
		if it.ID != id {
			continue
		}
		if v, ok := record["name"].(string); ok {
			it.Name = v
		}
		if v, ok := record["description"].(string); ok {
			it.Description = v
		}
		if v, ok := record["price"].(float64); ok {
			it.Price = v
		}
		if v, ok := record["active"].(bool); ok {
			it.Active = v
		}
		if v, ok := record["image_path"].(string); ok {
			it.ImagePath = sql.NullString{String: v, Valid: v != ""}
		}
		s.log.WithField("item_id", id).Debug("Patched cached menu item from change event")
		return
	}
	// Unknown row (insert, or cache predates it): reload on next read.
	s.itemsLoaded = false
}

// ApplyWineChange is the wine counterpart of ApplyMenuItemChange.
func (s *CatalogService) ApplyWineChange(record map[string]interface{}) {
	id, _ := record["id"].(string)
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.winesLoaded {
		return
	}
	for _, w := range s.wines {
		if w.ID != id {
			continue
		}
		if v, ok := record["name"].(string); ok {
			w.Name = v
		}
		if v, ok := record["description"].(string); ok {
			w.Description = v
		}
		if v, ok := record["bottle_price"].(float64); ok {
			w.BottlePrice = v
		}
		if v, ok := record["active"].(bool); ok {
			w.Active = v
		}
		return
	}
	s.winesLoaded = false
}

// cachedItems returns deep copies: the cached structs stay private to the
// service so the change-event patcher never mutates anything a caller holds.
func (s *CatalogService) cachedItems(ctx context.Context) ([]*catalog.MenuItem, error) {
	s.mu.RLock()
	if s.itemsLoaded {
		out := cloneMenuItems(s.items)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.itemsLoaded = true
	out := cloneMenuItems(items)
	s.mu.Unlock()
	return out, nil
}

func (s *CatalogService) cachedWines(ctx context.Context) ([]*catalog.Wine, error) {
	s.mu.RLock()
	if s.winesLoaded {
		out := cloneWines(s.wines)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	wines, err := s.repo.ListWines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wines: %w", err)
	}

	s.mu.Lock()
	s.wines = wines
	s.winesLoaded = true
	out := cloneWines(wines)
	s.mu.Unlock()
	return out, nil
}

func cloneMenuItems(items []*catalog.MenuItem) []*catalog.MenuItem {
	out := make([]*catalog.MenuItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneWines(wines []*catalog.Wine) []*catalog.Wine {
	out := make([]*catalog.Wine, len(wines))
	for i, w := range wines {
		out[i] = w.Clone()
	}
	return out
}

func (s *CatalogService) invalidateItems() {
	s.mu.Lock()
	s.itemsLoaded = false
	s.mu.Unlock()
}

func (s *CatalogService) invalidateWines() {
	s.mu.Lock()
	s.winesLoaded = false
	s.mu.Unlock()
}

func validateMenuItem(item *catalog.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("menu item name must not be blank")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item price must not be negative")
	}
	return nil
}
