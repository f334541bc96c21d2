package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
	"github.com/wapify/credit_ledger_app/internal/core/services"
	"github.com/wapify/credit_ledger_app/internal/dto"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedByUserID string, now time.Time) error {
	args := m.Called(ctx, userID, deletedByUserID, now)
	return args.Error(0)
}

// --- Test Suite ---

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo   *MockUserRepository
	mockAccountSvc *MockAccountService
	service        portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockAccountSvc)
}

func (suite *UserServiceTestSuite) TestRegisterUser_ResellerProvisionsAccount() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Acme Distribution",
		Username: "acme",
		Email:    "ops@acme.test",
		Password: "s3cret-pass",
		Role:     string(domain.RoleReseller),
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "acme" && u.Role == domain.RoleReseller && u.PasswordHash != "" && u.PasswordHash != req.Password
	})).Return(nil).Once()

	account := domain.Account{AccountID: uuid.NewString(), Role: domain.RoleReseller, IsActive: true}
	suite.mockAccountSvc.On("ProvisionAccount", ctx, mock.AnythingOfType("domain.User"), "").Return(&account, nil).Once()

	user, acc, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Require().NotNil(acc)
	suite.NotEmpty(user.UserID)
	suite.Equal(int64(0), acc.Balance)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_AdminGetsNoAccount() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Platform Admin",
		Username: "root",
		Email:    "admin@platform.test",
		Password: "s3cret-pass",
		Role:     string(domain.RoleAdmin),
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, acc, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Nil(acc)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "ProvisionAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Acme Distribution",
		Username: "acme",
		Email:    "ops@acme.test",
		Password: "s3cret-pass",
		Role:     string(domain.RoleReseller),
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, _, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "ProvisionAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := domain.User{UserID: uuid.NewString(), Username: "acme", PasswordHash: string(hash)}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "acme").Return(&user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, "acme", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := domain.User{UserID: uuid.NewString(), Username: "acme", PasswordHash: string(hash)}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "acme").Return(&user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, "acme", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUserSameError() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	// Unknown usernames must not leak through a distinct error
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestUpdateUser_NonAdminCannotUpdateOthers() {
	ctx := context.Background()
	targetID := uuid.NewString()
	actor := domain.User{UserID: uuid.NewString(), Role: domain.RoleReseller}
	newName := "New Name"

	suite.mockUserRepo.On("FindUserByID", ctx, actor.UserID).Return(&actor, nil).Once()

	_, err := suite.service.UpdateUser(ctx, targetID, dto.UpdateUserRequest{Name: &newName}, actor.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeactivateUser_AlsoDeactivatesAccount() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := domain.Account{AccountID: uuid.NewString(), UserID: userID, Role: domain.RoleBusinessOwner}

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountForUser", ctx, userID).Return(&account, nil).Once()
	suite.mockAccountSvc.On("DeactivateAccount", ctx, account.AccountID, userID).Return(nil).Once()

	err := suite.service.DeactivateUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeactivateUser_AdminWithoutAccount() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountForUser", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
