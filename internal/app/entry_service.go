package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"restaurant_backoffice/internal/domain/entry"

	"github.com/google/uuid"
)

type EntryService struct {
	repo entry.Repository
}

func NewEntryService(repo entry.Repository) *EntryService {
	return &EntryService{repo: repo}
}

func (s *EntryService) List(ctx context.Context) ([]*entry.DataEntry, error) {
	return s.repo.List(ctx)
}

// Create stores a new entry with a fresh random number attributed to the
// editor who made it.
func (s *EntryService) Create(ctx context.Context, name, editorEmail string) (*entry.DataEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("entry name must not be blank")
	}

	e := &entry.DataEntry{
		ID:           uuid.NewString(),
		Name:         name,
		RandomNumber: rand.Intn(1000),
		UpdatedBy:    editorEmail,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return e, nil
}

// Update renames an entry and rerolls its random number, recording who
// touched it last.
func (s *EntryService) Update(ctx context.Context, id, name, editorEmail string) (*entry.DataEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("entry name must not be blank")
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Name = name
	e.RandomNumber = rand.Intn(1000)
	e.UpdatedBy = editorEmail

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", id, err)
	}
	return e, nil
}

func (s *EntryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
