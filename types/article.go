package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is a single normalized news search hit. Text fields are never
// null; anything missing upstream is left as an empty string.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Content     string    `json:"content,omitempty"`
}

// GenerateID creates a short, stable ID by hashing the given input (usually the URL)
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
