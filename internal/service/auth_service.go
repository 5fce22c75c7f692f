package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and account lookup
type AuthService struct {
	accountRepo domain.AccountRepository
	tokens      *TokenService
	bcryptCost  int
}

// NewAuthService creates a new AuthService
func NewAuthService(accountRepo domain.AccountRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		tokens:      tokens,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// LoginResult represents the result of a successful login
type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// Register creates an account. The password is stored as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if password == "" {
		return nil, domain.ErrPasswordRequired
	}
	if len(password) > domain.MaxPasswordLength {
		return nil, domain.ErrPasswordTooLong
	}

	if _, err := s.accountRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.Create(ctx, &domain.Account{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		MonthlyBudget: decimal.Zero,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("account_id", account.ID.String()).Msg("Account registered")
	return account, nil
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accountRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account_id", account.ID.String()).Msg("Account logged in")
	return &LoginResult{
		Account:   account,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// GetAccount retrieves an account by ID
func (s *AuthService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
