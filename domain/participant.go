// Package domain contains core concepts of the chat system.
// This file defines Participant identities and the audience they form.
// No runtime, network, or UI logic should be added here.
package domain

import "github.com/samber/lo"

// UserID is the stable key of an authenticated principal.
type UserID string

func (u UserID) String() string { return string(u) }

// Identity is the authenticated principal bound to a live connection.
type Identity struct {
	ID   UserID `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Audience is the resolved set of identities an event must reach.
type Audience []UserID

// NewAudience builds a de-duplicated audience, dropping empty ids.
func NewAudience(ids ...UserID) Audience {
	return lo.Uniq(lo.Filter(ids, func(id UserID, _ int) bool {
		return id != ""
	}))
}

// Without returns a copy of the audience with the given identities removed.
func (a Audience) Without(ids ...UserID) Audience {
	return lo.Without(NewAudience(a...), ids...)
}

func (a Audience) Contains(id UserID) bool {
	return lo.Contains(a, id)
}
