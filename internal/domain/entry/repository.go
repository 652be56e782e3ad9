package entry

import "context"

// Repository defines persistence for data entries.
type Repository interface {
	List(ctx context.Context) ([]*DataEntry, error) // newest first
	GetByID(ctx context.Context, id string) (*DataEntry, error)
	Create(ctx context.Context, e *DataEntry) error
	Update(ctx context.Context, e *DataEntry) error
	Delete(ctx context.Context, id string) error
}
