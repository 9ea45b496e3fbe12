package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/storage"
)

var (
	// ErrMissingFields indicates a required registration field was empty.
	ErrMissingFields = errors.New("all fields are required")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// how many times registration retries after losing a payment-id race to a
// concurrent insert
const derivationAttempts = 3

// Service manages account registration and authentication.
type Service struct {
	store          storage.Store
	paymentDomain  string
	openingBalance decimal.Decimal
}

// NewService creates an account service. The payment domain is the suffix
// appended to derived payment identifiers (e.g. "mockupi" for
// "alice@mockupi"); openingBalance seeds every new wallet.
func NewService(store storage.Store, paymentDomain string, openingBalance decimal.Decimal) *Service {
	return &Service{store: store, paymentDomain: paymentDomain, openingBalance: openingBalance}
}

// RegisterInput captures data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account plus its seeded wallet. The payment identifier
// is derived from the email local part; on collision a numeric suffix is
// appended until a free identifier is found.
func (s *Service) Register(ctx context.Context, input RegisterInput) (models.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return models.Account{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	for attempt := 0; attempt < derivationAttempts; attempt++ {
		paymentID, err := s.derivePaymentID(ctx, email)
		if err != nil {
			return models.Account{}, err
		}

		acct := models.Account{
			ID:           uuid.New(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			PaymentID:    paymentID,
			CreatedAt:    time.Now().UTC(),
		}

		err = s.store.CreateAccount(ctx, acct, s.openingBalance)
		switch {
		case err == nil:
			return acct, nil
		case errors.Is(err, storage.ErrPaymentIDTaken):
			// lost the race; derive again
			continue
		default:
			return models.Account{}, err
		}
	}
	return models.Account{}, storage.ErrPaymentIDTaken
}

// Authenticate verifies credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.Account{}, ErrInvalidCredentials
	}

	acct, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return models.Account{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}

	return acct, nil
}

// ByID fetches an account by its identifier.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	return s.store.AccountByID(ctx, id)
}

func (s *Service) derivePaymentID(ctx context.Context, email string) (string, error) {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}

	candidate := local + "@" + s.paymentDomain
	for counter := 1; ; counter++ {
		exists, err := s.store.PaymentIDExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("derive payment id: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = local + strconv.Itoa(counter) + "@" + s.paymentDomain
	}
}
