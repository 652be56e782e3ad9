package asset

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Bucket is the storage bucket holding all site imagery.
const Bucket = "menu"

// MaxUploadSize is the upload limit per image.
const MaxUploadSize = 2 * 1024 * 1024

// Folders are the fixed set of image folders inside the bucket.
var Folders = []string{
	"arroces",
	"carnes",
	"del-huerto",
	"del-mar",
	"para-compartir",
	"para-peques",
	"para-veganos",
	"postres",
	"wines",
	"blog",
}

// FolderLabels maps folder names to their display labels.
var FolderLabels = map[string]string{
	"arroces":        "Arroces",
	"carnes":         "Carnes",
	"del-huerto":     "Del Huerto",
	"del-mar":        "Del Mar",
	"para-compartir": "Para Compartir",
	"para-peques":    "Para Peques",
	"para-veganos":   "Para Veganos",
	"postres":        "Postres",
	"wines":          "Vinos",
	"blog":           "Blog",
}

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Image describes one stored object plus how many records reference it.
type Image struct {
	Name       string
	Path       string // folder/name inside the bucket
	Folder     string
	Size       int64
	PublicURL  string
	UsageCount int
	UpdatedAt  time.Time
}

// ValidFolder reports whether name is one of the known image folders.
func ValidFolder(name string) bool {
	for _, f := range Folders {
		if f == name {
			return true
		}
	}
	return false
}

// ValidateUpload checks a prospective upload against the accepted content
// types and the size limit.
func ValidateUpload(contentType string, size int64) error {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return fmt.Errorf("unsupported image type %q, expected JPEG, PNG or WebP", contentType)
	}
	if size <= 0 {
		return fmt.Errorf("empty upload")
	}
	if size > MaxUploadSize {
		return fmt.Errorf("image of %d bytes exceeds the %d byte limit", size, MaxUploadSize)
	}
	return nil
}

var fileNameStrip = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeFileName builds a storage-safe object name from a human label:
// diacritics folded away, everything outside [a-z0-9] collapsed to single
// hyphens, a timestamp appended to avoid collisions, and the extension
// picked from the content type.
func SanitizeFileName(label, contentType string, now time.Time) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(strings.TrimSpace(label)),
	)
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(label))
	}

	base := strings.Trim(fileNameStrip.ReplaceAllString(folded, "-"), "-")
	if base == "" {
		base = "imagen"
	}

	ext := allowedContentTypes[contentType]
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s-%d%s", base, now.UnixMilli(), ext)
}

// ObjectPath joins a folder and object name into the path used inside the
// bucket.
func ObjectPath(folder, name string) string {
	return path.Join(folder, name)
}
