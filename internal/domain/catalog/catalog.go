package catalog

import (
	"database/sql"
	"time"
)

// CategoryKind separates menu categories from wine categories.
type CategoryKind string

const (
	CategoryKindMenu CategoryKind = "menu"
	CategoryKindWine CategoryKind = "wine"
)

// MenuItem is a dish on the permanent menu, as opposed to the rotating
// daily menu.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       float64
	CategoryID  string
	ImagePath   sql.NullString
	Active      bool
	AllergenIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy detached from any shared cache.
func (m *MenuItem) Clone() *MenuItem {
	out := *m
	out.AllergenIDs = append([]string(nil), m.AllergenIDs...)
	return &out
}

// Wine is an entry on the wine list. Bottle price is required, glass price
// only where the wine is served by the glass.
type Wine struct {
	ID          string
	Name        string
	Description string
	BottlePrice float64
	GlassPrice  sql.NullFloat64
	CategoryID  string
	ImagePath   sql.NullString
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a copy detached from any shared cache.
func (w *Wine) Clone() *Wine {
	out := *w
	return &out
}

// Category groups menu items or wines for display.
type Category struct {
	ID           string
	Name         string
	Kind         CategoryKind
	DisplayOrder int
}

// Allergen is one of the declared allergens a menu item can carry.
type Allergen struct {
	ID   string
	Name string
}
