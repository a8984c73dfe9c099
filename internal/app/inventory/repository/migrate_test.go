package repository

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const columnExistsQuery = `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 AND column_name = $2`

type MigrateTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	sqlDB *sql.DB
}

func TestMigrateSuite(t *testing.T) {
	suite.Run(t, new(MigrateTestSuite))
}

func (s *MigrateTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)
}

func (s *MigrateTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func (s *MigrateTestSuite) expectColumnExists(table, column string, count int64) {
	s.mock.ExpectQuery(regexp.QuoteMeta(columnExistsQuery)).
		WithArgs(table, column).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

// ===================== Legacy Conversion Tests =====================

func (s *MigrateTestSuite) TestMigrateLegacyItems_FreshStoreIsNoOp() {
	// A fresh store has no items.category column at all.
	s.expectColumnExists("items", "category", 0)

	err := migrateLegacyItems(s.db)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrateTestSuite) TestMigrateLegacyItems_AlreadyMigratedIsNoOp() {
	// Both columns present: an aborted drop, still counts as migrated.
	s.expectColumnExists("items", "category", 1)
	s.expectColumnExists("items", "category_id", 1)

	err := migrateLegacyItems(s.db)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrateTestSuite) TestMigrateLegacyItems_ConvertsLegacySchema() {
	s.expectColumnExists("items", "category", 1)
	s.expectColumnExists("items", "category_id", 0)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE items ADD COLUMN category_id BIGINT`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Distinct legacy values in first-seen order.
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT category FROM items GROUP BY category ORDER BY MIN(id)`)).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).
			AddRow("Snacks").
			AddRow("Biscuits"))

	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, sort_order) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Snacks", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET category_id = $1 WHERE category = $2`)).
		WithArgs(int64(1), "Snacks").
		WillReturnResult(sqlmock.NewResult(0, 3))

	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, sort_order) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Biscuits", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE items SET category_id = $1 WHERE category = $2`)).
		WithArgs(int64(2), "Biscuits").
		WillReturnResult(sqlmock.NewResult(0, 2))

	s.mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE items ALTER COLUMN category_id SET NOT NULL`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE items DROP COLUMN category`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := migrateLegacyItems(s.db)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrateTestSuite) TestMigrateLegacyItems_FailureRollsBack() {
	s.expectColumnExists("items", "category", 1)
	s.expectColumnExists("items", "category_id", 0)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE items ADD COLUMN category_id BIGINT`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	err := migrateLegacyItems(s.db)

	s.Error(err)
	s.Contains(err.Error(), "failed to add category_id column")
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Schema Inspection Tests =====================

func (s *MigrateTestSuite) TestColumnExists() {
	s.expectColumnExists("items", "category", 1)

	exists, err := columnExists(s.db, "items", "category")

	s.NoError(err)
	s.True(exists)
}

func (s *MigrateTestSuite) TestEnsureItemCategoryFK_AlreadyPresent() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_schema = CURRENT_SCHEMA() AND table_name = 'items' AND constraint_name = 'fk_items_category'`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := ensureItemCategoryFK(s.db)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *MigrateTestSuite) TestEnsureItemCategoryFK_AddsConstraint() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_schema = CURRENT_SCHEMA() AND table_name = 'items' AND constraint_name = 'fk_items_category'`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE items ADD CONSTRAINT fk_items_category FOREIGN KEY (category_id) REFERENCES categories(id)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ensureItemCategoryFK(s.db)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}
