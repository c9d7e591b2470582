package models

import "time"

// MaxSavedPrompts caps the prompt collection; the oldest entries beyond the
// cap are dropped at write time.
const MaxSavedPrompts = 100

// SavedPrompt is a named, reusable prompt snippet.
type SavedPrompt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
