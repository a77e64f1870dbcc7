package services

import (
	"context"

	"github.com/desertthunder/spotsearch/internal/models"
)

// Searcher runs a catalog search and returns the response body untouched.
type Searcher interface {
	Search(ctx context.Context, kind models.Kind, query string) ([]byte, error)
}

// ProfileProvider fetches the profile of the logged in user.
type ProfileProvider interface {
	UserProfile(ctx context.Context) (*Profile, error)
}

// Profile is the subset of the Spotify /me response shown by the CLI.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
	Followers   uint   `json:"followers"`
}
