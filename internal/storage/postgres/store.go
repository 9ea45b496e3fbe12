package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/storage"
)

// Store implements storage.Store on top of PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// New builds a Postgres-backed store.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// CreateAccount inserts the account row and its seeded wallet in one
// transaction, so a failure can never leave an account without a wallet.
func (s *Store) CreateAccount(ctx context.Context, acct models.Account, openingBalance decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	_, err = tx.Exec(ctx, `INSERT INTO accounts (id, name, email, password_hash, payment_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		acct.ID, acct.Name, acct.Email, acct.PasswordHash, acct.PaymentID, acct.CreatedAt.UTC())
	if err != nil {
		return mapUniqueViolation(err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO wallets (id, account_id, balance)
        VALUES ($1, $2, $3)`, uuid.New(), acct.ID, openingBalance)
	if err != nil {
		return fmt.Errorf("seed wallet: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) AccountByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	return s.scanAccount(s.db.QueryRow(ctx, accountQuery+` WHERE id = $1`, id))
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.scanAccount(s.db.QueryRow(ctx, accountQuery+` WHERE email = $1`, email))
}

func (s *Store) AccountByPaymentID(ctx context.Context, paymentID string) (models.Account, error) {
	return s.scanAccount(s.db.QueryRow(ctx, accountQuery+` WHERE payment_id = $1`, paymentID))
}

func (s *Store) PaymentIDExists(ctx context.Context, paymentID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE payment_id = $1)`, paymentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("payment id lookup: %w", err)
	}
	return exists, nil
}

func (s *Store) WalletByAccount(ctx context.Context, accountID uuid.UUID) (models.Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT id, account_id, balance, created_at
        FROM wallets WHERE account_id = $1`, accountID)
	var w models.Wallet
	if err := row.Scan(&w.ID, &w.AccountID, &w.Balance, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Wallet{}, storage.ErrNotFound
		}
		return models.Wallet{}, fmt.Errorf("wallet lookup: %w", err)
	}
	return w, nil
}

// Transfer locks both wallet rows in ascending account-id order, re-checks
// the sender balance under the lock, then applies the debit, the credit and
// the ledger append in one transaction.
func (s *Store) Transfer(ctx context.Context, input storage.TransferInput) (models.LedgerEntry, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, id := range lockOrder(input.Sender.ID, input.Receiver.ID) {
		if _, err := tx.Exec(ctx, `SELECT balance FROM wallets WHERE account_id = $1 FOR UPDATE`, id); err != nil {
			return models.LedgerEntry{}, fmt.Errorf("lock wallet: %w", err)
		}
	}

	var senderBalance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE account_id = $1`, input.Sender.ID).Scan(&senderBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LedgerEntry{}, storage.ErrNotFound
		}
		return models.LedgerEntry{}, fmt.Errorf("sender balance: %w", err)
	}
	if senderBalance.LessThan(input.Amount) {
		return models.LedgerEntry{}, storage.ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance - $1 WHERE account_id = $2`,
		input.Amount, input.Sender.ID); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("debit sender: %w", err)
	}
	cmd, err := tx.Exec(ctx, `UPDATE wallets SET balance = balance + $1 WHERE account_id = $2`,
		input.Amount, input.Receiver.ID)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("credit receiver: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.LedgerEntry{}, storage.ErrNotFound
	}

	entry := models.LedgerEntry{
		ID:                uuid.New(),
		SenderAccountID:   input.Sender.ID,
		ReceiverAccountID: input.Receiver.ID,
		SenderPaymentID:   input.Sender.PaymentID,
		ReceiverPaymentID: input.Receiver.PaymentID,
		Amount:            input.Amount,
		Note:              input.Note,
	}
	err = tx.QueryRow(ctx, `INSERT INTO ledger_entries
        (id, sender_account_id, receiver_account_id, sender_payment_id, receiver_payment_id, amount, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`,
		entry.ID, entry.SenderAccountID, entry.ReceiverAccountID,
		entry.SenderPaymentID, entry.ReceiverPaymentID, entry.Amount, entry.Note).Scan(&entry.CreatedAt)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("commit transfer: %w", err)
	}
	return entry, nil
}

func (s *Store) History(ctx context.Context, accountID uuid.UUID) ([]models.LedgerEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, sender_account_id, receiver_account_id,
            sender_payment_id, receiver_payment_id, amount, note, created_at
        FROM ledger_entries
        WHERE sender_account_id = $1 OR receiver_account_id = $1
        ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var out []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.SenderAccountID, &e.ReceiverAccountID,
			&e.SenderPaymentID, &e.ReceiverPaymentID, &e.Amount, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const accountQuery = `SELECT id, name, email, password_hash, payment_id, created_at FROM accounts`

func (s *Store) scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.PaymentID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, fmt.Errorf("account lookup: %w", err)
	}
	return a, nil
}

// lockOrder returns the two account ids in a stable order so concurrent
// transfers between the same pair of wallets cannot deadlock.
func lockOrder(a, b uuid.UUID) [2]uuid.UUID {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return [2]uuid.UUID{a, b}
	}
	return [2]uuid.UUID{b, a}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case "accounts_email_key":
			return storage.ErrEmailTaken
		case "accounts_payment_id_key":
			return storage.ErrPaymentIDTaken
		}
	}
	return fmt.Errorf("insert account: %w", err)
}
