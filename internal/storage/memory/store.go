package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/storage"
)

// Store is a mutex-guarded in-memory implementation of storage.Store. It
// backs local development when DATABASE_URL is unset, and unit tests.
type Store struct {
	mu        sync.RWMutex
	accounts  map[uuid.UUID]models.Account
	byEmail   map[string]uuid.UUID
	byPayment map[string]uuid.UUID
	wallets   map[uuid.UUID]models.Wallet
	entries   []models.LedgerEntry
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:  make(map[uuid.UUID]models.Account),
		byEmail:   make(map[string]uuid.UUID),
		byPayment: make(map[string]uuid.UUID),
		wallets:   make(map[uuid.UUID]models.Wallet),
	}
}

func (s *Store) CreateAccount(_ context.Context, acct models.Account, openingBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[acct.Email]; exists {
		return storage.ErrEmailTaken
	}
	if _, exists := s.byPayment[acct.PaymentID]; exists {
		return storage.ErrPaymentIDTaken
	}

	s.accounts[acct.ID] = acct
	s.byEmail[acct.Email] = acct.ID
	s.byPayment[acct.PaymentID] = acct.ID
	s.wallets[acct.ID] = models.Wallet{
		ID:        uuid.New(),
		AccountID: acct.ID,
		Balance:   openingBalance,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) AccountByID(_ context.Context, id uuid.UUID) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return acct, nil
}

func (s *Store) AccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) AccountByPaymentID(_ context.Context, paymentID string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPayment[paymentID]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) PaymentIDExists(_ context.Context, paymentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byPayment[paymentID]
	return ok, nil
}

func (s *Store) WalletByAccount(_ context.Context, accountID uuid.UUID) (models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wallet, ok := s.wallets[accountID]
	if !ok {
		return models.Wallet{}, storage.ErrNotFound
	}
	return wallet, nil
}

// Transfer serializes all balance mutation behind the write lock, so the
// debit, credit and ledger append are atomic with respect to every other
// transfer and read.
func (s *Store) Transfer(_ context.Context, input storage.TransferInput) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	senderWallet, ok := s.wallets[input.Sender.ID]
	if !ok {
		return models.LedgerEntry{}, storage.ErrNotFound
	}
	receiverWallet, ok := s.wallets[input.Receiver.ID]
	if !ok {
		return models.LedgerEntry{}, storage.ErrNotFound
	}

	if senderWallet.Balance.LessThan(input.Amount) {
		return models.LedgerEntry{}, storage.ErrInsufficientFunds
	}

	senderWallet.Balance = senderWallet.Balance.Sub(input.Amount)
	receiverWallet.Balance = receiverWallet.Balance.Add(input.Amount)
	s.wallets[input.Sender.ID] = senderWallet
	s.wallets[input.Receiver.ID] = receiverWallet

	entry := models.LedgerEntry{
		ID:                uuid.New(),
		SenderAccountID:   input.Sender.ID,
		ReceiverAccountID: input.Receiver.ID,
		SenderPaymentID:   input.Sender.PaymentID,
		ReceiverPaymentID: input.Receiver.PaymentID,
		Amount:            input.Amount,
		Note:              input.Note,
		CreatedAt:         time.Now().UTC(),
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *Store) History(_ context.Context, accountID uuid.UUID) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.LedgerEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.SenderAccountID == accountID || e.ReceiverAccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}
