package catalog

import (
	"sort"
	"strings"
)

// Sort fields accepted by SortMenuItems and SortWines.
const (
	SortByName  = "name"
	SortByPrice = "price"
)

// FilterMenuItems narrows items by a case-insensitive name/description query
// and an optional category. Empty arguments leave that dimension unfiltered.
func FilterMenuItems(items []*MenuItem, query, categoryID string) []*MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*MenuItem, 0, len(items))
	for _, it := range items {
		if categoryID != "" && it.CategoryID != categoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SortMenuItems orders items in place by the given field. Unknown fields
// fall back to name. Ties keep their previous relative order.
func SortMenuItems(items []*MenuItem, field string, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		var less bool
		switch field {
		case SortByPrice:
			less = items[i].Price < items[j].Price
		default:
			less = strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		}
		if !ascending {
			return !less && !menuItemsEqual(items[i], items[j], field)
		}
		return less
	})
}

// FilterWines narrows wines the same way FilterMenuItems narrows items.
func FilterWines(wines []*Wine, query, categoryID string) []*Wine {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*Wine, 0, len(wines))
	for _, w := range wines {
		if categoryID != "" && w.CategoryID != categoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(w.Name), q) &&
			!strings.Contains(strings.ToLower(w.Description), q) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// SortWines orders wines in place by name or bottle price.
func SortWines(wines []*Wine, field string, ascending bool) {
	sort.SliceStable(wines, func(i, j int) bool {
		var less bool
		switch field {
		case SortByPrice:
			less = wines[i].BottlePrice < wines[j].BottlePrice
		default:
			less = strings.ToLower(wines[i].Name) < strings.ToLower(wines[j].Name)
		}
		if !ascending {
			return !less && !winesEqual(wines[i], wines[j], field)
		}
		return less
	})
}

func menuItemsEqual(a, b *MenuItem, field string) bool {
	if field == SortByPrice {
		return a.Price == b.Price
	}
	return strings.EqualFold(a.Name, b.Name)
}

func winesEqual(a, b *Wine, field string) bool {
	if field == SortByPrice {
		return a.BottlePrice == b.BottlePrice
	}
	return strings.EqualFold(a.Name, b.Name)
}
