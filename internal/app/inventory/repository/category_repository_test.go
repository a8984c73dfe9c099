package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"kiranastock/internal/app/inventory/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CategoryRepositoryTestSuite runs the category repository against a
// mocked PostgreSQL connection.
type CategoryRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  CategoryRepository
	sqlDB *sql.DB
}

func TestCategoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositoryTestSuite))
}

func (s *CategoryRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewCategoryRepository(s.db)
}

func (s *CategoryRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== GetAll Tests =====================

func (s *CategoryRepositoryTestSuite) TestGetAll_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "sort_order"}).
		AddRow(1, "Snacks", 0).
		AddRow(2, "Biscuits", 1)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, sort_order FROM categories ORDER BY sort_order, name`)).
		WillReturnRows(rows)

	// Act
	categories, err := s.repo.GetAll(ctx)

	// Assert
	s.NoError(err)
	s.Len(categories, 2)
	s.Equal("Snacks", categories[0].Name)
	s.Equal(int64(2), categories[1].ID)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestGetAll_DBError() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, sort_order FROM categories ORDER BY sort_order, name`)).
		WillReturnError(sql.ErrConnDone)

	// Act
	categories, err := s.repo.GetAll(ctx)

	// Assert
	s.Error(err)
	s.Nil(categories)
	s.Contains(err.Error(), "failed to get categories")

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByID Tests =====================

func (s *CategoryRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "sort_order"}).
		AddRow(1, "Snacks", 0)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, sort_order FROM categories WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	// Act
	category, err := s.repo.GetByID(ctx, 1)

	// Assert
	s.NoError(err)
	s.NotNil(category)
	s.Equal("Snacks", category.Name)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, sort_order FROM categories WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sort_order"}))

	// Act
	category, err := s.repo.GetByID(ctx, 99)

	// Assert
	s.Nil(category)
	s.ErrorIs(err, ErrCategoryNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Create Tests =====================

func (s *CategoryRepositoryTestSuite) TestCreate_Success() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, sort_order) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Snacks", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	category := &entity.Category{Name: "Snacks"}

	// Act
	err := s.repo.Create(ctx, category)

	// Assert - the generated identifier lands on the entity
	s.NoError(err)
	s.Equal(int64(5), category.ID)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestCreate_DuplicateName() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, sort_order) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Snacks", 0).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	category := &entity.Category{Name: "Snacks"}

	// Act
	err := s.repo.Create(ctx, category)

	// Assert
	s.ErrorIs(err, ErrCategoryNameTaken)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *CategoryRepositoryTestSuite) TestUpdate_Success() {
	ctx := context.Background()

	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE categories SET name = $1 WHERE id = $2`)).
		WithArgs("Namkeen", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err := s.repo.Update(ctx, &entity.Category{ID: 1, Name: "Namkeen"})

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE categories SET name = $1 WHERE id = $2`)).
		WithArgs("Namkeen", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err := s.repo.Update(ctx, &entity.Category{ID: 99, Name: "Namkeen"})

	// Assert
	s.ErrorIs(err, ErrCategoryNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestUpdate_DuplicateName() {
	ctx := context.Background()

	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE categories SET name = $1 WHERE id = $2`)).
		WithArgs("Biscuits", int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	// Act
	err := s.repo.Update(ctx, &entity.Category{ID: 1, Name: "Biscuits"})

	// Assert
	s.ErrorIs(err, ErrCategoryNameTaken)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *CategoryRepositoryTestSuite) TestDelete_ReassignsItems() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM categories WHERE id <> $1 ORDER BY id LIMIT 1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET category_id = $1 WHERE category_id = $2`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, 2)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Delete(ctx, 99)

	// Assert
	s.ErrorIs(err, ErrCategoryNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CategoryRepositoryTestSuite) TestDelete_LastCategory() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM categories WHERE id <> $1 ORDER BY id LIMIT 1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.mock.ExpectRollback()

	// Act - no surviving category means the delete must be refused
	err := s.repo.Delete(ctx, 1)

	// Assert
	s.ErrorIs(err, ErrLastCategory)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Count Tests =====================

func (s *CategoryRepositoryTestSuite) TestCount() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	// Act
	count, err := s.repo.Count(ctx)

	// Assert
	s.NoError(err)
	s.Equal(int64(4), count)
	s.NoError(s.mock.ExpectationsWereMet())
}
