package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds the spendable balance for exactly one account. Amounts are
// fixed-point decimals with two fractional digits, never floats.
type Wallet struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
}
