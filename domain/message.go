// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once committed by the CRUD layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat message.
type Message struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	ChannelID ChannelID `json:"channel_id" validate:"required"`
	Author    Identity  `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
