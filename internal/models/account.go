package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered wallet owner.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash []byte
	PaymentID    string
	CreatedAt    time.Time
}
