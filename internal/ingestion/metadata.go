package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-templater/internal/types"
)

// Metadata contains metadata about an ingested CV source
type Metadata struct {
	Path      string `json:"path,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the source bytes
	Pages     int    `json:"pages"`
	Chars     int    `json:"chars"` // runes of extracted text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(path string, source []byte, pages int, text string) *Metadata {
	return &Metadata{
		Path:      path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(source),
		Pages:     pages,
		Chars:     utf8.RuneCountInString(text),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// SourceInfo converts the metadata to the record stored with a generation
func (m *Metadata) SourceInfo() types.SourceInfo {
	return types.SourceInfo{
		Path:      m.Path,
		Hash:      m.Hash,
		Pages:     m.Pages,
		Chars:     m.Chars,
		Timestamp: m.Timestamp,
	}
}
