package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		Path:      "uploads/cv.pdf",
		Timestamp: "2024-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Pages:     2,
		Chars:     1200,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, jsonBytes)

	var unmarshaled Metadata
	err = json.Unmarshal(jsonBytes, &unmarshaled)
	require.NoError(t, err)
	assert.Equal(t, *metadata, unmarshaled)
}

func TestComputeHash(t *testing.T) {
	hash1 := computeHash([]byte("test content"))
	hash2 := computeHash([]byte("different content"))

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash([]byte("test content")))
}

func TestNewMetadata(t *testing.T) {
	source := []byte("raw bytes")

	metadata := NewMetadata("cv.pdf", source, 3, "Año")

	assert.Equal(t, "cv.pdf", metadata.Path)
	assert.Equal(t, 3, metadata.Pages)
	assert.Equal(t, 3, metadata.Chars)
	assert.Equal(t, computeHash(source), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestMetadata_SourceInfo(t *testing.T) {
	metadata := NewMetadata("cv.pdf", []byte("x"), 1, "text")

	info := metadata.SourceInfo()

	assert.Equal(t, metadata.Path, info.Path)
	assert.Equal(t, metadata.Hash, info.Hash)
	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, 4, info.Chars)
	assert.Equal(t, metadata.Timestamp, info.Timestamp)
}
