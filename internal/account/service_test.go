package account

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mockupi/mockupi/internal/storage"
	"github.com/mockupi/mockupi/internal/storage/memory"
)

func newService(store storage.Store) *Service {
	return NewService(store, "mockupi", decimal.RequireFromString("1000.00"))
}

func TestRegisterDerivesPaymentID(t *testing.T) {
	store := memory.New()
	svc := newService(store)
	ctx := context.Background()

	acct, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "Alice@Example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.PaymentID != "alice@mockupi" {
		t.Fatalf("expected alice@mockupi, got %s", acct.PaymentID)
	}
	if acct.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", acct.Email)
	}

	wallet, err := store.WalletByAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if !wallet.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected seeded balance, got %s", wallet.Balance)
	}
}

func TestRegisterPaymentIDCollisionGetsSuffix(t *testing.T) {
	store := memory.New()
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Name: "Alice One", Email: "alice@a.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	second, err := svc.Register(ctx, RegisterInput{Name: "Alice Two", Email: "alice@b.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	third, err := svc.Register(ctx, RegisterInput{Name: "Alice Three", Email: "alice@c.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register third: %v", err)
	}

	if first.PaymentID != "alice@mockupi" || second.PaymentID != "alice1@mockupi" || third.PaymentID != "alice2@mockupi" {
		t.Fatalf("unexpected payment ids: %s, %s, %s", first.PaymentID, second.PaymentID, third.PaymentID)
	}
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	svc := newService(memory.New())
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "", Email: "a@a.com", Password: "pw"},
		{Name: "A", Email: "", Password: "pw"},
		{Name: "A", Email: "a@a.com", Password: ""},
		{Name: "   ", Email: "a@a.com", Password: "pw"},
	}
	for _, input := range cases {
		if _, err := svc.Register(ctx, input); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %+v, got %v", input, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@a.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "a@a.com", Password: "pw"}); !errors.Is(err, storage.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newService(memory.New())
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@a.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	acct, err := svc.Authenticate(ctx, "ALICE@a.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if acct.ID != registered.ID {
		t.Fatalf("expected account %s, got %s", registered.ID, acct.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice@a.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	// unknown email must produce the same error as a wrong password
	if _, err := svc.Authenticate(ctx, "nobody@a.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
