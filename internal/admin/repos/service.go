// Package repos exposes the owner's repositories as listed by the
// hosting provider. The list is the raw material for the showcase:
// every repository here can be toggled onto the public landing page.
package repos

import (
	"context"
	"errors"
)

// Profile identifies the authenticated owner at the hosting provider.
type Profile struct {
	Login      string
	Name       string
	AvatarURL  string
	ProfileURL string
}

// Repo is one repository owned by the authenticated account. Name is
// the uniqueness key; the remaining fields are carried verbatim into
// the showcase when the repository is activated.
type Repo struct {
	Name        string
	Description string
	URL         string
	Topics      []string
}

// ErrNotFound indicates the requested repository does not exist in the
// owner's list.
var ErrNotFound = errors.New("repos: repository not found")

// Service lists the owner's repositories and profile.
type Service interface {
	// Profile returns the authenticated owner's public identity.
	Profile(ctx context.Context) (Profile, error)
	// List returns every repository owned by the authenticated
	// account, concatenated across provider pages.
	List(ctx context.Context) ([]Repo, error)
}

// FindByName returns the repository with the given name from list.
func FindByName(list []Repo, name string) (Repo, error) {
	for _, repo := range list {
		if repo.Name == name {
			return repo, nil
		}
	}
	return Repo{}, ErrNotFound
}
