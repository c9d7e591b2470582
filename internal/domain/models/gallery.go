package models

import "time"

// GalleryImage is a generated image saved to the gallery. Records are
// immutable after creation: they are inserted once and only ever deleted.
type GalleryImage struct {
	ID        string         `json:"id"`
	ImageURL  string         `json:"imageUrl"`
	Prompt    string         `json:"prompt"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
