package asset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var stamp = time.UnixMilli(1717401600000) // 2024-06-03T08:00:00Z

func TestSanitizeFileName_FoldsDiacriticsAndSpaces(t *testing.T) {
	got := SanitizeFileName("Crème Brûlée à la Niño", "image/jpeg", stamp)
	assert.Equal(t, "creme-brulee-a-la-nino-1717401600000.jpg", got)
}

func TestSanitizeFileName_CollapsesSpecialCharacters(t *testing.T) {
	got := SanitizeFileName("  Paella... (de marisco)!  ", "image/png", stamp)
	assert.Equal(t, "paella-de-marisco-1717401600000.png", got)
}

func TestSanitizeFileName_FallsBackOnEmptyLabel(t *testing.T) {
	got := SanitizeFileName("¡¡¡", "image/webp", stamp)
	assert.Equal(t, "imagen-1717401600000.webp", got)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/jpeg", 1024))
	assert.NoError(t, ValidateUpload("image/webp", MaxUploadSize))

	err := ValidateUpload("image/gif", 1024)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "image/gif"))

	assert.Error(t, ValidateUpload("image/png", MaxUploadSize+1))
	assert.Error(t, ValidateUpload("image/png", 0))
}

func TestValidFolder(t *testing.T) {
	assert.True(t, ValidFolder("arroces"))
	assert.True(t, ValidFolder("blog"))
	assert.False(t, ValidFolder("cocktails"))
	assert.False(t, ValidFolder(""))
}

func TestObjectPath(t *testing.T) {
	assert.Equal(t, "arroces/paella.jpg", ObjectPath("arroces", "paella.jpg"))
}
