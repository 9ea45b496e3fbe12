package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/notification"
	"github.com/mockupi/mockupi/internal/storage"
)

// defaultNote is used when the sender leaves the description blank.
const defaultNote = "UPI Transfer"

var (
	// ErrMissingFields indicates the recipient or amount was left blank.
	ErrMissingFields = errors.New("recipient and amount are required")

	// ErrInvalidAmount indicates the amount failed to parse, was not
	// positive, or carried more than two decimal places.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSelfTransfer indicates the sender addressed their own payment id.
	ErrSelfTransfer = errors.New("cannot send money to yourself")

	// ErrReceiverNotFound indicates no account owns the recipient payment id.
	ErrReceiverNotFound = errors.New("receiver not found")
)

// Service executes P2P transfers between wallets.
type Service struct {
	store    storage.Store
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates a transfer service.
func NewService(store storage.Store, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// SendInput captures a transfer request as submitted by the sender.
type SendInput struct {
	Sender            models.Account
	ReceiverPaymentID string
	Amount            string
	Note              string
}

// ParseAmount converts a user-supplied amount string into a positive
// decimal with at most two fractional digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !amount.IsPositive() || amount.Exponent() < -2 {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}

// Send validates and executes a transfer, returning the recorded ledger
// entry. Validation happens before any money moves: the recipient and
// amount must be present, the amount well-formed, the recipient distinct
// from the sender and known to the system. Balance sufficiency is enforced
// by the store inside the transfer transaction.
func (s *Service) Send(ctx context.Context, input SendInput) (models.LedgerEntry, error) {
	receiverID := strings.ToLower(strings.TrimSpace(input.ReceiverPaymentID))
	rawAmount := strings.TrimSpace(input.Amount)
	if receiverID == "" || rawAmount == "" {
		return models.LedgerEntry{}, ErrMissingFields
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if receiverID == input.Sender.PaymentID {
		return models.LedgerEntry{}, ErrSelfTransfer
	}

	receiver, err := s.store.AccountByPaymentID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.LedgerEntry{}, ErrReceiverNotFound
		}
		return models.LedgerEntry{}, fmt.Errorf("lookup receiver: %w", err)
	}

	note := strings.TrimSpace(input.Note)
	if note == "" {
		note = defaultNote
	}

	entry, err := s.store.Transfer(ctx, storage.TransferInput{
		Sender:   input.Sender,
		Receiver: receiver,
		Amount:   amount,
		Note:     note,
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}

	s.logger.Info("transfer completed",
		"entry_id", entry.ID,
		"sender", entry.SenderPaymentID,
		"receiver", entry.ReceiverPaymentID,
		"amount", amount.StringFixed(2),
	)
	s.notify(ctx, entry)

	return entry, nil
}

// History returns the account's ledger entries, newest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]models.LedgerEntry, error) {
	return s.store.History(ctx, accountID)
}

// Wallet returns the account's wallet.
func (s *Service) Wallet(ctx context.Context, accountID uuid.UUID) (models.Wallet, error) {
	return s.store.WalletByAccount(ctx, accountID)
}

func (s *Service) notify(ctx context.Context, entry models.LedgerEntry) {
	if s.notifier == nil {
		return
	}
	amount := entry.Amount.StringFixed(2)
	for _, msg := range []notification.Message{
		notification.TransferSent(entry.SenderPaymentID, entry.ReceiverPaymentID, amount),
		notification.TransferReceived(entry.SenderPaymentID, entry.ReceiverPaymentID, amount),
	} {
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("notification failed", "kind", msg.Kind, "error", err)
		}
	}
}
