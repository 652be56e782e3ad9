package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"restaurant_backoffice/internal/domain/asset"
)

type storageObject struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Metadata  struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

// List returns the objects inside one folder of a bucket. Folder entries
// (objects without metadata) are filtered out.
func (c *Client) List(ctx context.Context, bucket, folder string) ([]asset.Object, error) {
	body := map[string]interface{}{
		"prefix": folder,
		"limit":  1000,
		"offset": 0,
		"sortBy": map[string]string{"column": "updated_at", "order": "desc"},
	}
	var raw []storageObject
	path := fmt.Sprintf("/storage/v1/object/list/%s", bucket)
	if err := c.doJSON(ctx, http.MethodPost, path, body, c.serviceKey, &raw); err != nil {
		return nil, err
	}

	objects := make([]asset.Object, 0, len(raw))
	for _, o := range raw {
		if o.Metadata.Size == 0 && o.Metadata.MimeType == "" {
			continue // placeholder row for the folder itself
		}
		objects = append(objects, asset.Object{
			Name:      o.Name,
			Size:      o.Metadata.Size,
			UpdatedAt: o.UpdatedAt,
		})
	}
	return objects, nil
}

// Upload stores an object. Existing objects at the same path are replaced.
func (c *Client) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string) error {
	path := fmt.Sprintf("/storage/v1/object/%s/%s", bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.projectURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload of %s failed: %w", objectPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return parseError(resp.StatusCode, buf.Bytes())
	}
	return nil
}

// Remove deletes the given objects from a bucket.
func (c *Client) Remove(ctx context.Context, bucket string, objectPaths []string) error {
	body := map[string]interface{}{"prefixes": objectPaths}
	path := fmt.Sprintf("/storage/v1/object/%s", bucket)
	return c.doJSON(ctx, http.MethodDelete, path, body, c.serviceKey, nil)
}

// Move renames or relocates an object inside a bucket. The storage API
// moves it server side, so the object is never downloaded.
func (c *Client) Move(ctx context.Context, bucket, fromPath, toPath string) error {
	body := map[string]string{
		"bucketId":       bucket,
		"sourceKey":      fromPath,
		"destinationKey": toPath,
	}
	return c.doJSON(ctx, http.MethodPost, "/storage/v1/object/move", body, c.serviceKey, nil)
}

// PublicURL returns the public address of an object in a public bucket.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.projectURL, bucket, objectPath)
}
