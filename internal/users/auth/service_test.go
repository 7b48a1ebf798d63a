// Copyright (c) 2026 FarmConnect. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/sec"
)

// memoryAccountRepository is an in-memory [AccountRepository] for service tests.
type memoryAccountRepository struct {
	byEmail  map[string]*Account
	byID     map[string]*Account
	profiles map[string]Profile
}

func newMemoryAccountRepository() *memoryAccountRepository {
	return &memoryAccountRepository{
		byEmail:  make(map[string]*Account),
		byID:     make(map[string]*Account),
		profiles: make(map[string]Profile),
	}
}

func (m *memoryAccountRepository) CreateWithProfile(_ context.Context, account *Account, profile Profile) error {
	if _, exists := m.byEmail[account.Email]; exists {
		return apperr.EmailExists()
	}
	stored := *account
	m.byEmail[account.Email] = &stored
	m.byID[account.ID] = &stored
	m.profiles[account.ID] = profile
	return nil
}

func (m *memoryAccountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	account, ok := m.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return account, nil
}

func (m *memoryAccountRepository) FindByID(_ context.Context, id string) (*Account, error) {
	account, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return account, nil
}

func (m *memoryAccountRepository) FindProfile(_ context.Context, account *Account) (Profile, error) {
	profile, ok := m.profiles[account.ID]
	if !ok {
		return nil, apperr.Internal(fmt.Errorf("profile missing"))
	}
	return profile, nil
}

// staticTokenProvider issues predictable tokens without signing.
type staticTokenProvider struct{}

func (staticTokenProvider) GenerateSessionToken(accountID, _ string, _ sec.AccountType, _ time.Duration) (string, error) {
	return "token-" + accountID, nil
}

func newTestService() (*Service, *memoryAccountRepository) {
	repo := newMemoryAccountRepository()
	return NewService(repo, staticTokenProvider{}), repo
}

const testPassword = "Sunflower#42"

func buyerInput(email string) RegisterInput {
	return RegisterInput{
		Email:    email,
		Password: testPassword,
		Name:     "Quinn Harper",
		Type:     sec.AccountTypeBuyer,
		Address:  "12 Orchard Lane",
		Phone:    "+15550100200",
	}
}

func TestRegisterBuyerStartsActive(t *testing.T) {
	service, _ := newTestService()

	session, err := service.Register(context.Background(), buyerInput("quinn@example.com"))
	require.NoError(t, err)

	assert.Equal(t, StatusActive, session.Account.Status)
	assert.Equal(t, "quinn@example.com", session.Account.Email)
	assert.NotEmpty(t, session.Token)
	assert.NotEqual(t, testPassword, session.Account.PasswordHash)

	profile, ok := session.Profile.(BuyerProfile)
	require.True(t, ok, "expected a buyer profile, got %T", session.Profile)
	assert.Equal(t, "12 Orchard Lane", profile.Address)
	assert.Equal(t, StatusActive, profile.Status)
}

func TestRegisterFarmerStartsPending(t *testing.T) {
	service, _ := newTestService()

	session, err := service.Register(context.Background(), RegisterInput{
		Email:    "greenacres@example.com",
		Password: testPassword,
		Name:     "Ada Fields",
		Type:     sec.AccountTypeFarmer,
		FarmName: "Green Acres",
		Location: "Willow Creek",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, session.Account.Status)

	profile, ok := session.Profile.(FarmerProfile)
	require.True(t, ok, "expected a farmer profile, got %T", session.Profile)
	assert.Equal(t, "Green Acres", profile.FarmName)
	assert.Equal(t, StatusPending, profile.Status)
	assert.False(t, profile.Verified)
}

func TestRegisterAdminDefaultsToModerator(t *testing.T) {
	service, _ := newTestService()

	session, err := service.Register(context.Background(), RegisterInput{
		Email:    "ops@example.com",
		Password: testPassword,
		Name:     "Sam Ops",
		Type:     sec.AccountTypeAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusActive, session.Account.Status)

	profile, ok := session.Profile.(AdminProfile)
	require.True(t, ok, "expected an admin profile, got %T", session.Profile)
	assert.Equal(t, AdminRoleModerator, profile.Role)
	assert.Empty(t, profile.Permissions)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, buyerInput("Quinn@Example.com"))
	require.NoError(t, err)

	_, err = service.Register(ctx, buyerInput("quinn@example.COM"))
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "EMAIL_EXISTS", appError.Code)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestAuthenticateSuccess(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, buyerInput("quinn@example.com"))
	require.NoError(t, err)

	// Mixed case and padding resolve to the same account.
	session, err := service.Authenticate(ctx, "  Quinn@Example.COM ", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "quinn@example.com", session.Account.Email)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, buyerInput("quinn@example.com"))
	require.NoError(t, err)

	_, unknownEmailErr := service.Authenticate(ctx, "nobody@example.com", testPassword)
	require.Error(t, unknownEmailErr)

	_, wrongPasswordErr := service.Authenticate(ctx, "quinn@example.com", "Wrong#Pass1")
	require.Error(t, wrongPasswordErr)

	// The two failures must be indistinguishable to the caller.
	unknownApp := apperr.As(unknownEmailErr)
	wrongApp := apperr.As(wrongPasswordErr)
	require.NotNil(t, unknownApp)
	require.NotNil(t, wrongApp)
	assert.Equal(t, "INVALID_CREDENTIALS", unknownApp.Code)
	assert.Equal(t, unknownApp.Code, wrongApp.Code)
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
	assert.Equal(t, unknownApp.HTTPStatus, wrongApp.HTTPStatus)
}

func TestAuthenticateSuspendedAccount(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, buyerInput("quinn@example.com"))
	require.NoError(t, err)

	repo.byID[session.Account.ID].Status = StatusSuspended

	_, err = service.Authenticate(ctx, "quinn@example.com", testPassword)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "ACCOUNT_SUSPENDED", appError.Code)
	assert.Equal(t, 403, appError.HTTPStatus)
}

func TestAuthenticateSuspendedWithWrongPassword(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, buyerInput("quinn@example.com"))
	require.NoError(t, err)

	repo.byID[session.Account.ID].Status = StatusSuspended

	// Suspension is only disclosed to callers holding valid credentials.
	_, err = service.Authenticate(ctx, "quinn@example.com", "Wrong#Pass1")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_CREDENTIALS", appError.Code)
}

func TestCurrentAccount(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, buyerInput("quinn@example.com"))
	require.NoError(t, err)

	account, profile, err := service.CurrentAccount(ctx, session.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, account.ID)
	assert.IsType(t, BuyerProfile{}, profile)
}
