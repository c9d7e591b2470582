package models

import "time"

// Post is a feed entry: one image posted by one author.
// LikesCount is denormalized and must always equal len(Likes); both are
// written together in a single statement.
type Post struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"imageUrl"`
	Username   string    `json:"username"`
	Caption    string    `json:"caption"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      []string  `json:"likes"`
	LikesCount int       `json:"likesCount"`
}
