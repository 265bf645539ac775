package domain

import "fmt"

type ChannelID string

type Channel struct {
	ID   ChannelID `json:"id" validate:"required"`
	Name string    `json:"name" validate:"required"`
}

// Role is the permission level a member holds inside a channel.
type Role string

const (
	ReadOnly  Role = "READ_ONLY"
	ReadWrite Role = "READ_WRITE"
	Admin     Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case ReadOnly, ReadWrite, Admin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
