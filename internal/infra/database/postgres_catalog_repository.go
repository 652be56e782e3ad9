package database

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant_backoffice/internal/domain/catalog"

	"github.com/lib/pq"
)

// Custom errors
var ErrMenuItemNotFound = fmt.Errorf("menu item not found")
var ErrWineNotFound = fmt.Errorf("wine not found")

type PostgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) ListMenuItems(ctx context.Context) ([]*catalog.MenuItem, error) {
	query := `SELECT m.id, m.name, m.description, m.price, m.category_id, m.image_path, m.active,
	                 m.created_at, m.updated_at,
	                 COALESCE(array_agg(a.allergen_id) FILTER (WHERE a.allergen_id IS NOT NULL), '{}')
	            FROM menu_items m
	            LEFT JOIN menu_item_allergens a ON a.menu_item_id = m.id
	           GROUP BY m.id
	           ORDER BY m.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing menu items: %w", err)
	}
	defer rows.Close()

	items := make([]*catalog.MenuItem, 0)
	for rows.Next() {
		it := &catalog.MenuItem{}
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.CategoryID,
			&it.ImagePath, &it.Active, &it.CreatedAt, &it.UpdatedAt,
			pq.Array(&it.AllergenIDs)); err != nil {
			return nil, fmt.Errorf("error scanning menu item: %w", err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}
	return items, nil
}

func (r *PostgresCatalogRepository) GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error) {
	query := `SELECT m.id, m.name, m.description, m.price, m.category_id, m.image_path, m.active,
	                 m.created_at, m.updated_at,
	                 COALESCE(array_agg(a.allergen_id) FILTER (WHERE a.allergen_id IS NOT NULL), '{}')
	            FROM menu_items m
	            LEFT JOIN menu_item_allergens a ON a.menu_item_id = m.id
	           WHERE m.id = $1
	           GROUP BY m.id`
	it := &catalog.MenuItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Description, &it.Price,
		&it.CategoryID, &it.ImagePath, &it.Active, &it.CreatedAt, &it.UpdatedAt,
		pq.Array(&it.AllergenIDs))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("error getting menu item: %w", err)
	}
	return it, nil
}

// CreateMenuItem inserts the item and its allergen links in one transaction.
func (r *PostgresCatalogRepository) CreateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO menu_items (id, name, description, price, category_id, image_path, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, item.ID, item.Name, item.Description, item.Price,
		item.CategoryID, item.ImagePath, item.Active).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating menu item: %w", err)
	}
	if err := replaceAllergens(ctx, tx, item.ID, item.AllergenIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing menu item: %w", err)
	}
	return nil
}

func (r *PostgresCatalogRepository) UpdateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE menu_items
	          SET name = $1, description = $2, price = $3, category_id = $4, image_path = $5,
	              active = $6, updated_at = NOW()
	          WHERE id = $7
	          RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query, item.Name, item.Description, item.Price, item.CategoryID,
		item.ImagePath, item.Active, item.ID).Scan(&item.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("error updating menu item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_item_allergens WHERE menu_item_id = $1`, item.ID); err != nil {
		return fmt.Errorf("error clearing item allergens: %w", err)
	}
	if err := replaceAllergens(ctx, tx, item.ID, item.AllergenIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing menu item update: %w", err)
	}
	return nil
}

func (r *PostgresCatalogRepository) DeleteMenuItem(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_item_allergens WHERE menu_item_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting item allergens: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting menu item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrMenuItemNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing menu item delete: %w", err)
	}
	return nil
}

func (r *PostgresCatalogRepository) ListWines(ctx context.Context) ([]*catalog.Wine, error) {
	query := `SELECT id, name, description, bottle_price, glass_price, category_id, image_path, active,
	                 created_at, updated_at
	            FROM wines ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing wines: %w", err)
	}
	defer rows.Close()

	wines := make([]*catalog.Wine, 0)
	for rows.Next() {
		w := &catalog.Wine{}
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.BottlePrice, &w.GlassPrice,
			&w.CategoryID, &w.ImagePath, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning wine: %w", err)
		}
		wines = append(wines, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wines: %w", err)
	}
	return wines, nil
}

func (r *PostgresCatalogRepository) GetWine(ctx context.Context, id string) (*catalog.Wine, error) {
	query := `SELECT id, name, description, bottle_price, glass_price, category_id, image_path, active,
	                 created_at, updated_at
	            FROM wines WHERE id = $1`
	w := &catalog.Wine{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Name, &w.Description, &w.BottlePrice,
		&w.GlassPrice, &w.CategoryID, &w.ImagePath, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWineNotFound
		}
		return nil, fmt.Errorf("error getting wine: %w", err)
	}
	return w, nil
}

func (r *PostgresCatalogRepository) CreateWine(ctx context.Context, wine *catalog.Wine) error {
	query := `INSERT INTO wines (id, name, description, bottle_price, glass_price, category_id, image_path, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, wine.ID, wine.Name, wine.Description, wine.BottlePrice,
		wine.GlassPrice, wine.CategoryID, wine.ImagePath, wine.Active).Scan(&wine.CreatedAt, &wine.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating wine: %w", err)
	}
	return nil
}

func (r *PostgresCatalogRepository) UpdateWine(ctx context.Context, wine *catalog.Wine) error {
	query := `UPDATE wines
	          SET name = $1, description = $2, bottle_price = $3, glass_price = $4, category_id = $5,
	              image_path = $6, active = $7, updated_at = NOW()
	          WHERE id = $8
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, wine.Name, wine.Description, wine.BottlePrice,
		wine.GlassPrice, wine.CategoryID, wine.ImagePath, wine.Active, wine.ID).Scan(&wine.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrWineNotFound
		}
		return fmt.Errorf("error updating wine: %w", err)
	}
	return nil
}

func (r *PostgresCatalogRepository) DeleteWine(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting wine: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrWineNotFound
	}
	return nil
}

func (r *PostgresCatalogRepository) ListCategories(ctx context.Context, kind catalog.CategoryKind) ([]*catalog.Category, error) {
	query := `SELECT id, name, kind, display_order FROM categories WHERE kind = $1 ORDER BY display_order, name`
	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*catalog.Category, 0)
	for rows.Next() {
		c := &catalog.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *PostgresCatalogRepository) ListAllergens(ctx context.Context) ([]*catalog.Allergen, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM allergens ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing allergens: %w", err)
	}
	defer rows.Close()

	allergens := make([]*catalog.Allergen, 0)
	for rows.Next() {
		a := &catalog.Allergen{}
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("error scanning allergen: %w", err)
		}
		allergens = append(allergens, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allergens: %w", err)
	}
	return allergens, nil
}

func replaceAllergens(ctx context.Context, tx *sql.Tx, itemID string, allergenIDs []string) error {
	for _, aid := range allergenIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO menu_item_allergens (menu_item_id, allergen_id) VALUES ($1, $2)`,
			itemID, aid); err != nil {
			return fmt.Errorf("error linking allergen %s: %w", aid, err)
		}
	}
	return nil
}
