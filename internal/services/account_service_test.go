package services

import (
	"context"
	"testing"

	apperrors "github.com/bookswap/bookswap-backend/internal/errors"
	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/bookswap/bookswap-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AccountServiceTestSuite exercises registration, authentication and
// profile updates over in-memory SQLite.
type AccountServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service AccountService
}

// SetupSuite runs once before all tests
func (s *AccountServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.Account{}, &models.Book{}, &models.Message{})
	require.NoError(s.T(), err)

	s.db = db
	s.service = NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewBookRepository(db),
	)
}

// TearDownSuite runs once after all tests
func (s *AccountServiceTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *AccountServiceTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM messages")
	s.db.Exec("DELETE FROM books")
	s.db.Exec("DELETE FROM accounts")
}

func (s *AccountServiceTestSuite) register(name, email, password string) *models.Account {
	account, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: name,
		Email:       email,
		Password:    password,
	})
	require.NoError(s.T(), err)
	return account
}

// TestAccountServiceTestSuite runs the test suite
func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// ==================== Register Tests ====================

func (s *AccountServiceTestSuite) TestRegister_Success() {
	account, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "bookworm",
		Email:       "Worm@Test.com",
		Password:    "secret-password",
		FirstName:   "Jean",
	})

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), account.ID)
	assert.Equal(s.T(), "worm@test.com", account.Email, "email is normalized to lowercase")
	assert.True(s.T(), account.Active)

	// Credential is stored hashed, never verbatim
	assert.NotEqual(s.T(), "secret-password", account.PasswordHash)
	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret-password"))
	assert.NoError(s.T(), err)
}

func (s *AccountServiceTestSuite) TestRegister_InvalidEmail() {
	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "bookworm",
		Email:       "not-an-email",
		Password:    "secret-password",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestRegister_ShortPassword() {
	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "bookworm",
		Email:       "worm@test.com",
		Password:    "short",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestRegister_InvalidDisplayName() {
	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "a",
		Email:       "worm@test.com",
		Password:    "secret-password",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestRegister_DuplicateEmail() {
	s.register("first", "same@test.com", "secret-password")

	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "second",
		Email:       "same@test.com",
		Password:    "secret-password",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicateEntry)
}

func (s *AccountServiceTestSuite) TestRegister_DuplicateDisplayName() {
	s.register("taken", "one@test.com", "secret-password")

	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "taken",
		Email:       "two@test.com",
		Password:    "secret-password",
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicateEntry)
}

func (s *AccountServiceTestSuite) TestRegister_DeactivatedAccountFreesIdentity() {
	account := s.register("recycled", "freed@test.com", "secret-password")
	require.NoError(s.T(), s.service.Deactivate(context.Background(), account.ID))

	_, err := s.service.Register(context.Background(), RegisterInput{
		DisplayName: "recycled",
		Email:       "freed@test.com",
		Password:    "secret-password",
	})

	assert.NoError(s.T(), err)
}

// ==================== Authenticate Tests ====================

func (s *AccountServiceTestSuite) TestAuthenticate_Success() {
	s.register("bookworm", "worm@test.com", "secret-password")

	account, err := s.service.Authenticate(context.Background(), "worm@test.com", "secret-password")

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "bookworm", account.DisplayName)
}

func (s *AccountServiceTestSuite) TestAuthenticate_WrongPassword() {
	s.register("bookworm", "worm@test.com", "secret-password")

	account, err := s.service.Authenticate(context.Background(), "worm@test.com", "wrong-password")

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
	assert.Nil(s.T(), account)
}

func (s *AccountServiceTestSuite) TestAuthenticate_UnknownEmailSameError() {
	account, err := s.service.Authenticate(context.Background(), "nobody@test.com", "whatever-password")

	// Unknown email and wrong password are indistinguishable
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
	assert.Nil(s.T(), account)
}

func (s *AccountServiceTestSuite) TestAuthenticate_DeactivatedAccount() {
	account := s.register("leaver", "leaver@test.com", "secret-password")
	require.NoError(s.T(), s.service.Deactivate(context.Background(), account.ID))

	result, err := s.service.Authenticate(context.Background(), "leaver@test.com", "secret-password")

	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)
	assert.Nil(s.T(), result)
}

// ==================== Profile Tests ====================

func (s *AccountServiceTestSuite) TestGetProfile_IncludesBookCount() {
	account := s.register("bookworm", "worm@test.com", "secret-password")
	s.db.Create(&models.Book{OwnerID: account.ID, Title: "One", Author: "X", Available: true})
	s.db.Create(&models.Book{OwnerID: account.ID, Title: "Two", Author: "Y", Available: true})

	profile, err := s.service.GetProfile(context.Background(), account.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "bookworm", profile.DisplayName)
	assert.Equal(s.T(), int64(2), profile.BookCount)
}

func (s *AccountServiceTestSuite) TestGetProfile_DeactivatedNotFound() {
	account := s.register("leaver", "leaver@test.com", "secret-password")
	require.NoError(s.T(), s.service.Deactivate(context.Background(), account.ID))

	profile, err := s.service.GetProfile(context.Background(), account.ID)

	assert.ErrorIs(s.T(), err, apperrors.ErrAccountNotFound)
	assert.Nil(s.T(), profile)
}

// ==================== UpdateProfile Tests ====================

func (s *AccountServiceTestSuite) TestUpdateProfile_PartialUpdate() {
	account := s.register("bookworm", "worm@test.com", "secret-password")

	newName := "bibliophile"
	updated, err := s.service.UpdateProfile(context.Background(), account.ID, UpdateProfileInput{
		DisplayName: &newName,
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "bibliophile", updated.DisplayName)
	assert.Equal(s.T(), "worm@test.com", updated.Email, "untouched fields survive")
}

func (s *AccountServiceTestSuite) TestUpdateProfile_DisplayNameCollision() {
	s.register("taken", "one@test.com", "secret-password")
	account := s.register("mine", "two@test.com", "secret-password")

	collision := "taken"
	_, err := s.service.UpdateProfile(context.Background(), account.ID, UpdateProfileInput{
		DisplayName: &collision,
	})

	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicateEntry)
}

func (s *AccountServiceTestSuite) TestUpdateProfile_KeepOwnDisplayName() {
	account := s.register("bookworm", "worm@test.com", "secret-password")

	same := "bookworm"
	_, err := s.service.UpdateProfile(context.Background(), account.ID, UpdateProfileInput{
		DisplayName: &same,
	})

	assert.NoError(s.T(), err, "resubmitting your own name is not a collision")
}

func (s *AccountServiceTestSuite) TestUpdateProfile_PasswordChange() {
	account := s.register("bookworm", "worm@test.com", "old-password-1")

	newPassword := "new-password-1"
	_, err := s.service.UpdateProfile(context.Background(), account.ID, UpdateProfileInput{
		Password: &newPassword,
	})
	require.NoError(s.T(), err)

	_, err = s.service.Authenticate(context.Background(), "worm@test.com", "old-password-1")
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidCredentials)

	_, err = s.service.Authenticate(context.Background(), "worm@test.com", "new-password-1")
	assert.NoError(s.T(), err)
}

// ==================== Deactivate Tests ====================

func (s *AccountServiceTestSuite) TestDeactivate_Twice() {
	account := s.register("leaver", "leaver@test.com", "secret-password")

	require.NoError(s.T(), s.service.Deactivate(context.Background(), account.ID))
	err := s.service.Deactivate(context.Background(), account.ID)

	assert.ErrorIs(s.T(), err, apperrors.ErrAccountNotFound)
}
