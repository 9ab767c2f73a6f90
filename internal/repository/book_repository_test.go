package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bookswap/bookswap-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BookRepositoryTestSuite is the test suite for BookRepository
type BookRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  BookRepository
	owner *models.Account
	other *models.Account
}

// SetupSuite runs once before all tests
func (s *BookRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.Account{}, &models.Book{}, &models.Message{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewBookRepository(db)
}

// TearDownSuite runs once after all tests
func (s *BookRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *BookRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM messages")
	s.db.Exec("DELETE FROM books")
	s.db.Exec("DELETE FROM accounts")

	s.owner = &models.Account{DisplayName: "owner", Email: "owner@test.com", PasswordHash: "x", Active: true}
	require.NoError(s.T(), s.db.Create(s.owner).Error)
	s.other = &models.Account{DisplayName: "other", Email: "other@test.com", PasswordHash: "x", Active: true}
	require.NoError(s.T(), s.db.Create(s.other).Error)
}

func (s *BookRepositoryTestSuite) addBook(ownerID uint, title, author string, available bool, at time.Time) *models.Book {
	book := &models.Book{
		OwnerID:   ownerID,
		Title:     title,
		Author:    author,
		Available: available,
		CreatedAt: at,
	}
	require.NoError(s.T(), s.db.Create(book).Error)
	if !available {
		s.db.Model(book).Update("available", false)
	}
	return book
}

// TestBookRepositoryTestSuite runs the test suite
func TestBookRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(BookRepositoryTestSuite))
}

// ==================== Create / Get Tests ====================

func (s *BookRepositoryTestSuite) TestCreate_Success() {
	book := &models.Book{
		OwnerID:   s.owner.ID,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Available: true,
	}

	err := s.repo.Create(context.Background(), book)

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), book.ID)
}

func (s *BookRepositoryTestSuite) TestGetWithOwner_AnnotatesIdentity() {
	book := s.addBook(s.owner.ID, "Dune", "Frank Herbert", true, time.Now())

	result, err := s.repo.GetWithOwner(context.Background(), book.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Dune", result.Title)
	assert.Equal(s.T(), "owner", result.OwnerDisplayName)
}

func (s *BookRepositoryTestSuite) TestGetWithOwner_DeactivatedOwnerHidden() {
	book := s.addBook(s.owner.ID, "Hidden", "Nobody", true, time.Now())
	s.db.Model(s.owner).Update("active", false)

	result, err := s.repo.GetWithOwner(context.Background(), book.ID)

	assert.ErrorIs(s.T(), err, ErrNotFound)
	assert.Nil(s.T(), result)
}

// ==================== Listing Tests ====================

func (s *BookRepositoryTestSuite) TestListAvailable_FiltersUnavailable() {
	now := time.Now()
	s.addBook(s.owner.ID, "Available", "A", true, now)
	s.addBook(s.owner.ID, "Lent out", "B", false, now)

	result, total, err := s.repo.ListAvailable(context.Background(), 10, 0)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), result, 1)
	assert.Equal(s.T(), "Available", result[0].Title)
}

func (s *BookRepositoryTestSuite) TestListAvailable_Pagination() {
	now := time.Now()
	for i := 0; i < 5; i++ {
		s.addBook(s.owner.ID, "Book "+string(rune('A'+i)), "X", true, now.Add(time.Duration(i)*time.Minute))
	}

	page, total, err := s.repo.ListAvailable(context.Background(), 2, 2)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
	assert.Len(s.T(), page, 2)
}

func (s *BookRepositoryTestSuite) TestListLatest_NewestFirstCapped() {
	now := time.Now()
	s.addBook(s.owner.ID, "Oldest", "X", true, now.Add(-2*time.Hour))
	s.addBook(s.owner.ID, "Middle", "X", true, now.Add(-1*time.Hour))
	s.addBook(s.owner.ID, "Newest", "X", true, now)

	result, err := s.repo.ListLatest(context.Background(), 2)

	assert.NoError(s.T(), err)
	require.Len(s.T(), result, 2)
	assert.Equal(s.T(), "Newest", result[0].Title)
	assert.Equal(s.T(), "Middle", result[1].Title)
}

func (s *BookRepositoryTestSuite) TestListByOwner_IncludesUnavailable() {
	now := time.Now()
	s.addBook(s.owner.ID, "Available", "A", true, now)
	s.addBook(s.owner.ID, "Lent out", "B", false, now)
	s.addBook(s.other.ID, "Not mine", "C", true, now)

	result, err := s.repo.ListByOwner(context.Background(), s.owner.ID)

	assert.NoError(s.T(), err)
	assert.Len(s.T(), result, 2)
}

func (s *BookRepositoryTestSuite) TestListPublicByOwner_OnlyAvailable() {
	now := time.Now()
	s.addBook(s.owner.ID, "Visible", "A", true, now)
	s.addBook(s.owner.ID, "Hidden", "A", false, now)
	s.addBook(s.other.ID, "Elsewhere", "B", true, now)

	books, err := s.repo.ListPublicByOwner(context.Background(), s.owner.ID)

	assert.NoError(s.T(), err)
	require.Len(s.T(), books, 1)
	assert.Equal(s.T(), "Visible", books[0].Title)
}

func (s *BookRepositoryTestSuite) TestListPublicByOwner_DeactivatedOwnerEmpty() {
	s.addBook(s.owner.ID, "Visible", "A", true, time.Now())
	s.db.Model(s.owner).Update("active", false)

	books, err := s.repo.ListPublicByOwner(context.Background(), s.owner.ID)

	assert.NoError(s.T(), err)
	assert.Empty(s.T(), books)
}

// ==================== Search Tests ====================

func (s *BookRepositoryTestSuite) TestSearch_MatchesTitleAndAuthor() {
	now := time.Now()
	s.addBook(s.owner.ID, "Dune Messiah", "Frank Herbert", true, now)
	s.addBook(s.owner.ID, "Foundation", "Isaac Asimov", true, now)
	s.addBook(s.owner.ID, "The Stars My Destination", "Alfred Bester", true, now)

	byTitle, total, err := s.repo.Search(context.Background(), "Dune", 10, 0)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), byTitle, 1)
	assert.Equal(s.T(), "Dune Messiah", byTitle[0].Title)

	byAuthor, total, err := s.repo.Search(context.Background(), "Asimov", 10, 0)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), byAuthor, 1)
	assert.Equal(s.T(), "Foundation", byAuthor[0].Title)
}

func (s *BookRepositoryTestSuite) TestSearch_NoMatches() {
	s.addBook(s.owner.ID, "Dune", "Frank Herbert", true, time.Now())

	result, total, err := s.repo.Search(context.Background(), "cookbook", 10, 0)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), total)
	assert.Empty(s.T(), result)
}

// ==================== Delete Tests ====================

func (s *BookRepositoryTestSuite) TestDeleteOwned_Success() {
	book := s.addBook(s.owner.ID, "Dune", "Frank Herbert", true, time.Now())

	err := s.repo.DeleteOwned(context.Background(), book.ID, s.owner.ID)

	assert.NoError(s.T(), err)
	_, err = s.repo.GetByID(context.Background(), book.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *BookRepositoryTestSuite) TestDeleteOwned_NonOwnerLooksLikeMissing() {
	book := s.addBook(s.owner.ID, "Dune", "Frank Herbert", true, time.Now())

	err := s.repo.DeleteOwned(context.Background(), book.ID, s.other.ID)

	assert.ErrorIs(s.T(), err, ErrNotFound)
	// Book survives
	got, getErr := s.repo.GetByID(context.Background(), book.ID)
	assert.NoError(s.T(), getErr)
	assert.Equal(s.T(), "Dune", got.Title)
}

// ==================== CountByOwner Tests ====================

func (s *BookRepositoryTestSuite) TestCountByOwner() {
	now := time.Now()
	s.addBook(s.owner.ID, "One", "X", true, now)
	s.addBook(s.owner.ID, "Two", "X", false, now)

	count, err := s.repo.CountByOwner(context.Background(), s.owner.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)
}
