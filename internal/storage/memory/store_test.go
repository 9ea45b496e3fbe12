package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/storage"
)

func newAccount(email, paymentID string) models.Account {
	return models.Account{
		ID:        uuid.New(),
		Name:      "Test User",
		Email:     email,
		PaymentID: paymentID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateAccountSeedsWallet(t *testing.T) {
	s := New()
	ctx := context.Background()

	acct := newAccount("alice@example.com", "alice@mockupi")
	if err := s.CreateAccount(ctx, acct, decimal.RequireFromString("1000.00")); err != nil {
		t.Fatalf("create account: %v", err)
	}

	wallet, err := s.WalletByAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("wallet lookup: %v", err)
	}
	if !wallet.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected opening balance 1000.00, got %s", wallet.Balance)
	}

	if err := s.CreateAccount(ctx, newAccount("alice@example.com", "alice1@mockupi"), decimal.Zero); !errors.Is(err, storage.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestTransferMovesFundsAndAppendsEntry(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newAccount("alice@example.com", "alice@mockupi")
	bob := newAccount("bob@example.com", "bob@mockupi")
	opening := decimal.RequireFromString("1000.00")
	for _, a := range []models.Account{alice, bob} {
		if err := s.CreateAccount(ctx, a, opening); err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	entry, err := s.Transfer(ctx, storage.TransferInput{
		Sender:   alice,
		Receiver: bob,
		Amount:   decimal.RequireFromString("150.00"),
		Note:     "lunch",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	aw, _ := s.WalletByAccount(ctx, alice.ID)
	bw, _ := s.WalletByAccount(ctx, bob.ID)
	if aw.Balance.String() != "850" {
		t.Fatalf("expected sender balance 850, got %s", aw.Balance)
	}
	if bw.Balance.String() != "1150" {
		t.Fatalf("expected receiver balance 1150, got %s", bw.Balance)
	}
	if entry.SenderPaymentID != "alice@mockupi" || entry.ReceiverPaymentID != "bob@mockupi" {
		t.Fatalf("unexpected entry parties: %+v", entry)
	}

	history, err := s.History(ctx, alice.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != entry.ID {
		t.Fatalf("expected exactly the transfer entry, got %+v", history)
	}
}

func TestTransferInsufficientFundsLeavesStateUntouched(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newAccount("alice@example.com", "alice@mockupi")
	bob := newAccount("bob@example.com", "bob@mockupi")
	opening := decimal.RequireFromString("1000.00")
	for _, a := range []models.Account{alice, bob} {
		if err := s.CreateAccount(ctx, a, opening); err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	_, err := s.Transfer(ctx, storage.TransferInput{
		Sender:   alice,
		Receiver: bob,
		Amount:   decimal.RequireFromString("2000.00"),
	})
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	aw, _ := s.WalletByAccount(ctx, alice.ID)
	bw, _ := s.WalletByAccount(ctx, bob.ID)
	if !aw.Balance.Equal(opening) || !bw.Balance.Equal(opening) {
		t.Fatalf("balances changed after rejected transfer: %s / %s", aw.Balance, bw.Balance)
	}
	history, _ := s.History(ctx, alice.ID)
	if len(history) != 0 {
		t.Fatalf("expected no ledger entries, got %d", len(history))
	}
}

func TestHistoryNewestFirstAndFiltered(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newAccount("alice@example.com", "alice@mockupi")
	bob := newAccount("bob@example.com", "bob@mockupi")
	carol := newAccount("carol@example.com", "carol@mockupi")
	opening := decimal.RequireFromString("1000.00")
	for _, a := range []models.Account{alice, bob, carol} {
		if err := s.CreateAccount(ctx, a, opening); err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	first, _ := s.Transfer(ctx, storage.TransferInput{Sender: alice, Receiver: bob, Amount: decimal.RequireFromString("10.00")})
	second, _ := s.Transfer(ctx, storage.TransferInput{Sender: bob, Receiver: alice, Amount: decimal.RequireFromString("5.00")})
	if _, err := s.Transfer(ctx, storage.TransferInput{Sender: bob, Receiver: carol, Amount: decimal.RequireFromString("1.00")}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	history, err := s.History(ctx, alice.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(history))
	}
	if history[0].ID != second.ID || history[1].ID != first.ID {
		t.Fatalf("expected newest-first ordering, got %+v", history)
	}
}

func TestConcurrentTransfersConserveFunds(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := newAccount("alice@example.com", "alice@mockupi")
	bob := newAccount("bob@example.com", "bob@mockupi")
	opening := decimal.RequireFromString("1000.00")
	for _, a := range []models.Account{alice, bob} {
		if err := s.CreateAccount(ctx, a, opening); err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	const workers = 10
	amount := decimal.RequireFromString("50.00")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Transfer(ctx, storage.TransferInput{
				Sender:   alice,
				Receiver: bob,
				Amount:   amount,
				Note:     fmt.Sprintf("tx-%d", i),
			}); err != nil {
				t.Errorf("transfer %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	aw, _ := s.WalletByAccount(ctx, alice.ID)
	bw, _ := s.WalletByAccount(ctx, bob.ID)
	if !aw.Balance.Add(bw.Balance).Equal(opening.Add(opening)) {
		t.Fatalf("funds not conserved: %s + %s", aw.Balance, bw.Balance)
	}
	if aw.Balance.Sign() < 0 {
		t.Fatalf("sender balance went negative: %s", aw.Balance)
	}
}
