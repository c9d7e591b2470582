package models

import "time"

// Profile holds per-user data keyed by username. A missing row is a valid
// state: callers get DefaultProfile instead of an error.
type Profile struct {
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	ProfilePicture *string   `json:"profilePicture"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DefaultProfile is the synthesized record for a username that has never
// saved a profile.
func DefaultProfile(username string) Profile {
	return Profile{
		Username:       username,
		Bio:            "",
		ProfilePicture: nil,
	}
}
