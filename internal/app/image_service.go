package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"restaurant_backoffice/internal/domain/asset"

	"github.com/sirupsen/logrus"
)

var ErrUnknownFolder = fmt.Errorf("unknown image folder")
var ErrImageInUse = fmt.Errorf("image is still referenced and can not be removed")

// ImageService manages the image library: listing folders with usage
// counts, validated uploads with sanitized names, and rename/move/delete.
type ImageService struct {
	store asset.ObjectStore
	usage asset.UsageCounter
	log   *logrus.Logger
	now   func() time.Time
}

func NewImageService(store asset.ObjectStore, usage asset.UsageCounter, log *logrus.Logger) *ImageService {
	return &ImageService{store: store, usage: usage, log: log, now: time.Now}
}

// ListFolder returns the images of one folder, newest first, each carrying
// its public URL and the number of records that reference it.
func (s *ImageService) ListFolder(ctx context.Context, folder string) ([]*asset.Image, error) {
	if !asset.ValidFolder(folder) {
		return nil, ErrUnknownFolder
	}

	objects, err := s.store.List(ctx, asset.Bucket, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folder, err)
	}

	paths := make([]string, len(objects))
	for i, o := range objects {
		paths[i] = asset.ObjectPath(folder, o.Name)
	}
	counts, err := s.usage.CountImageUsage(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to count image usage: %w", err)
	}

	images := make([]*asset.Image, len(objects))
	for i, o := range objects {
		p := asset.ObjectPath(folder, o.Name)
		images[i] = &asset.Image{
			Name:       o.Name,
			Path:       p,
			Folder:     folder,
			Size:       o.Size,
			PublicURL:  s.store.PublicURL(asset.Bucket, p),
			UsageCount: counts[p],
			UpdatedAt:  o.UpdatedAt,
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].UpdatedAt.After(images[j].UpdatedAt)
	})
	return images, nil
}

// Upload validates the file, derives a storage-safe name from the label and
// stores the object. It returns the stored image with its public URL.
func (s *ImageService) Upload(ctx context.Context, folder, label, contentType string, data []byte) (*asset.Image, error) {
	if !asset.ValidFolder(folder) {
		return nil, ErrUnknownFolder
	}
	if err := asset.ValidateUpload(contentType, int64(len(data))); err != nil {
		return nil, err
	}

	name := asset.SanitizeFileName(label, contentType, s.now())
	p := asset.ObjectPath(folder, name)
	if err := s.store.Upload(ctx, asset.Bucket, p, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", p, err)
	}

	s.log.WithFields(logrus.Fields{"path": p, "bytes": len(data)}).Info("Image uploaded")
	return &asset.Image{
		Name:      name,
		Path:      p,
		Folder:    folder,
		Size:      int64(len(data)),
		PublicURL: s.store.PublicURL(asset.Bucket, p),
		UpdatedAt: s.now(),
	}, nil
}

// Rename moves an object to a new name inside the same folder.
func (s *ImageService) Rename(ctx context.Context, folder, oldName, newName string) error {
	return s.Move(ctx, folder, oldName, folder, newName)
}

// Move relocates an object between folders. Images still referenced by a
// menu item, wine or post stay where their URL points.
func (s *ImageService) Move(ctx context.Context, fromFolder, name, toFolder, newName string) error {
	if !asset.ValidFolder(fromFolder) || !asset.ValidFolder(toFolder) {
		return ErrUnknownFolder
	}
	from := asset.ObjectPath(fromFolder, name)
	to := asset.ObjectPath(toFolder, newName)
	if from == to {
		return nil
	}

	if err := s.ensureUnused(ctx, from); err != nil {
		return err
	}
	if err := s.store.Move(ctx, asset.Bucket, from, to); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", from, to, err)
	}
	return nil
}

// Delete removes images that nothing references anymore.
func (s *ImageService) Delete(ctx context.Context, folder string, names []string) error {
	if !asset.ValidFolder(folder) {
		return ErrUnknownFolder
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = asset.ObjectPath(folder, n)
	}
	for _, p := range paths {
		if err := s.ensureUnused(ctx, p); err != nil {
			return err
		}
	}
	if err := s.store.Remove(ctx, asset.Bucket, paths); err != nil {
		return fmt.Errorf("failed to remove images: %w", err)
	}
	return nil
}

// Folders lists the available folders with display labels.
func (s *ImageService) Folders() map[string]string {
	return asset.FolderLabels
}

func (s *ImageService) ensureUnused(ctx context.Context, objectPath string) error {
	counts, err := s.usage.CountImageUsage(ctx, []string{objectPath})
	if err != nil {
		return fmt.Errorf("failed to check usage of %s: %w", objectPath, err)
	}
	if counts[objectPath] > 0 {
		return fmt.Errorf("%w: %s has %d references", ErrImageInUse, objectPath, counts[objectPath])
	}
	return nil
}
