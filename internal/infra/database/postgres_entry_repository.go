package database

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant_backoffice/internal/domain/entry"
)

// Custom errors
var ErrEntryNotFound = fmt.Errorf("data entry not found")

type PostgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) List(ctx context.Context) ([]*entry.DataEntry, error) {
	query := `SELECT id, name, random_number, updated_by, created_at, updated_at
	            FROM data_entries ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing data entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*entry.DataEntry, 0)
	for rows.Next() {
		e := &entry.DataEntry{}
		if err := rows.Scan(&e.ID, &e.Name, &e.RandomNumber, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning data entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data entries: %w", err)
	}
	return entries, nil
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id string) (*entry.DataEntry, error) {
	query := `SELECT id, name, random_number, updated_by, created_at, updated_at
	            FROM data_entries WHERE id = $1`
	e := &entry.DataEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Name, &e.RandomNumber,
		&e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("error getting data entry: %w", err)
	}
	return e, nil
}

func (r *PostgresEntryRepository) Create(ctx context.Context, e *entry.DataEntry) error {
	query := `INSERT INTO data_entries (id, name, random_number, updated_by)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Name, e.RandomNumber, e.UpdatedBy).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating data entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) Update(ctx context.Context, e *entry.DataEntry) error {
	query := `UPDATE data_entries
	          SET name = $1, random_number = $2, updated_by = $3, updated_at = NOW()
	          WHERE id = $4
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, e.Name, e.RandomNumber, e.UpdatedBy, e.ID).Scan(&e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEntryNotFound
		}
		return fmt.Errorf("error updating data entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM data_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting data entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
