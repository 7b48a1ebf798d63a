// Copyright (c) 2026 FarmConnect. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/sec"
	"github.com/farmconnect/api/pkg/uuid"
)

// TokenProvider issues signed session tokens. Satisfied by [sec.TokenService].
type TokenProvider interface {
	GenerateSessionToken(accountID, email string, accountType sec.AccountType, timeToLive time.Duration) (string, error)
}

// Service implements the account provisioning and credential verification flows.
type Service struct {
	repo   AccountRepository
	tokens TokenProvider
}

// NewService creates the auth service.
func NewService(repo AccountRepository, tokens TokenProvider) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput carries the already-validated registration payload.
//
// The profile fields are interpreted according to Type; fields belonging to a
// different discriminator are ignored.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Type     sec.AccountType

	// Farmer fields.
	FarmName    string
	Location    string
	Description string

	// Buyer fields.
	Address string
	Phone   string

	// Admin fields. Role defaults to MODERATOR when empty.
	Role AdminRole
}

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *Account
	Profile   Profile
}

// Register provisions a new account with its matching profile and opens a
// session for it.
//
// # Rules
//
//   - Email is normalized (trimmed, lower-cased) before storage, so lookups
//     and the uniqueness guarantee are case-insensitive.
//   - FARMER accounts start PENDING and require admin approval before their
//     goods surface publicly. BUYER and ADMIN accounts start ACTIVE.
//   - A duplicate email surfaces as EMAIL_EXISTS from the storage layer; there
//     is deliberately no read-then-write pre-check.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := NormalizeEmail(input.Email)

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Type:         input.Type,
		Status:       initialStatus(input.Type),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile, err := buildProfile(account, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateWithProfile(ctx, account, profile); err != nil {
		return nil, err
	}

	return s.openSession(account, profile)
}

// Authenticate verifies credentials and opens a session.
//
// # Enumeration Resistance
//
// An unknown email and a wrong password both return the exact same
// INVALID_CREDENTIALS error. Only after the password verifies does the status
// check run, so a suspended account is reported solely to callers who hold
// valid credentials for it.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	if account.Status == StatusSuspended {
		return nil, apperr.AccountSuspended()
	}

	profile, err := s.repo.FindProfile(ctx, account)
	if err != nil {
		return nil, err
	}

	return s.openSession(account, profile)
}

// CurrentAccount loads the account and profile behind an authenticated identity.
func (s *Service) CurrentAccount(ctx context.Context, accountID string) (*Account, Profile, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.repo.FindProfile(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	return account, profile, nil
}

// openSession issues a signed token bound to the account.
func (s *Service) openSession(account *Account, profile Profile) (*Session, error) {
	token, err := s.tokens.GenerateSessionToken(account.ID, account.Email, account.Type, constants.SessionTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("issue session token: %w", err))
	}

	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(constants.SessionTokenTTL),
		Account:   account,
		Profile:   profile,
	}, nil
}

// NormalizeEmail trims whitespace and lower-cases an email address. All
// storage and lookups go through this, which is what makes the uniqueness
// guarantee case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// initialStatus returns the lifecycle state a fresh account of the given type
// starts in.
func initialStatus(accountType sec.AccountType) Status {
	if accountType == sec.AccountTypeFarmer {
		return StatusPending
	}
	return StatusActive
}

// buildProfile constructs the profile variant for the account's type from the
// registration input.
func buildProfile(account *Account, input RegisterInput) (Profile, error) {
	switch account.Type {
	case sec.AccountTypeFarmer:
		return FarmerProfile{
			AccountID:   account.ID,
			FarmName:    strings.TrimSpace(input.FarmName),
			Location:    strings.TrimSpace(input.Location),
			Description: strings.TrimSpace(input.Description),
			Status:      StatusPending,
		}, nil

	case sec.AccountTypeBuyer:
		return BuyerProfile{
			AccountID: account.ID,
			Address:   strings.TrimSpace(input.Address),
			Phone:     strings.TrimSpace(input.Phone),
			Status:    StatusActive,
		}, nil

	case sec.AccountTypeAdmin:
		role := input.Role
		if role == "" {
			role = AdminRoleModerator
		}
		return AdminProfile{
			AccountID:   account.ID,
			Role:        role,
			Permissions: []string{},
		}, nil

	default:
		return nil, apperr.Internal(fmt.Errorf("unknown account type %q", account.Type))
	}
}
