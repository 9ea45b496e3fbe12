package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable record of one completed transfer. Account ids
// are captured at commit time; the payment identifier strings are kept for
// display only.
type LedgerEntry struct {
	ID                uuid.UUID
	SenderAccountID   uuid.UUID
	ReceiverAccountID uuid.UUID
	SenderPaymentID   string
	ReceiverPaymentID string
	Amount            decimal.Decimal
	Note              string
	CreatedAt         time.Time
}
