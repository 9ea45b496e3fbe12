package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/models"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken occurs when an account with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPaymentIDTaken occurs when the derived payment identifier lost a race
	// against a concurrent registration.
	ErrPaymentIDTaken = errors.New("payment identifier already assigned")

	// ErrInsufficientFunds occurs when the sender wallet cannot cover the
	// transfer amount at commit time.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// TransferInput carries everything the store needs to move funds between two
// wallets and append the ledger row in a single transaction.
type TransferInput struct {
	Sender   models.Account
	Receiver models.Account
	Amount   decimal.Decimal
	Note     string
}

// Store is the persistence contract implemented by the Postgres and in-memory
// backends. Transfer must be all-or-nothing: debit, credit and ledger append
// either all commit or none do.
type Store interface {
	// CreateAccount inserts the account together with its wallet seeded at
	// openingBalance, atomically.
	CreateAccount(ctx context.Context, acct models.Account, openingBalance decimal.Decimal) error

	AccountByID(ctx context.Context, id uuid.UUID) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	AccountByPaymentID(ctx context.Context, paymentID string) (models.Account, error)
	PaymentIDExists(ctx context.Context, paymentID string) (bool, error)

	WalletByAccount(ctx context.Context, accountID uuid.UUID) (models.Wallet, error)

	Transfer(ctx context.Context, input TransferInput) (models.LedgerEntry, error)

	// History returns every ledger entry where the account appears as sender
	// or receiver, newest first.
	History(ctx context.Context, accountID uuid.UUID) ([]models.LedgerEntry, error)
}
