package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invitation asks Receiver to join Channel on behalf of Sender.
type Invitation struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Channel   Channel   `json:"channel"`
	Sender    Identity  `json:"sender"`
	Receiver  Identity  `json:"receiver"`
	CreatedAt time.Time `json:"created_at"`
}
