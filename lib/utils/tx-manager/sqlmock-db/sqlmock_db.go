package sqlmockdb

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New gorm поверх sqlmock с диалектом postgres и трансляцией ошибок, как в db.Connect.
// Невыполненные ожидания проверяются по завершении теста
func New(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: mockDB,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gorm_logrus.New(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})
	return db, mock
}

// UniqueViolation ошибка postgres о нарушении уникального индекса
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

// NoRows результат запроса без строк
func NoRows(columns ...string) *sqlmock.Rows {
	if len(columns) == 0 {
		columns = []string{"id"}
	}
	return sqlmock.NewRows(columns)
}
