package offerstore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	sqlmockdb "hr-pipeline-backend/lib/utils/tx-manager/sqlmock-db"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, code pipelineerrors.Code) {
	t.Helper()
	pErr, ok := pipelineerrors.As(err)
	require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
	require.Equal(t, code, pErr.Code)
}

func TestCreate(t *testing.T) {
	t.Run(`второй оффер по отклику`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`INSERT INTO "job_offers" .* RETURNING "id"`).
			WillReturnError(sqlmockdb.UniqueViolation("idx_job_offers_application_id"))

		_, err := NewInstance(db).Create(dbmodels.JobOffer{
			ApplicationID: "app-1",
			OfferedSalary: decimal.NewFromInt(100000),
			ExpiryDate:    time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			Status:        models.OfferStatusPending,
		})
		requireCode(t, err, pipelineerrors.CodeOfferAlreadyExists)
	})
}

func TestUpdate(t *testing.T) {
	t.Run(`устаревшая версия`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectExec(`UPDATE "job_offers" SET .* WHERE .*id = \$\d+ and version = \$\d+`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "offer-1", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewInstance(db).Update("offer-1", 2, map[string]interface{}{
			"Status": models.OfferStatusWithdrawn,
		})
		requireCode(t, err, pipelineerrors.CodeConcurrentModification)
	})
	t.Run(`версия увеличивается`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectExec(`UPDATE "job_offers" SET "status"=\$1,"version"=\$2,"updated_at"=\$3 WHERE .*id = \$4 and version = \$5`).
			WithArgs(string(models.OfferStatusAccepted), int64(3), sqlmock.AnyArg(), "offer-1", int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewInstance(db).Update("offer-1", 2, map[string]interface{}{
			"Status": models.OfferStatusAccepted,
		})
		require.NoError(t, err)
	})
}

func TestGetByApplication(t *testing.T) {
	t.Run(`оффера нет`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`SELECT \* FROM "job_offers" WHERE application_id = \$1`).
			WithArgs("app-1", sqlmock.AnyArg()).
			WillReturnRows(sqlmockdb.NoRows())

		rec, err := NewInstance(db).GetByApplication("app-1")
		require.NoError(t, err)
		require.Nil(t, rec)
	})
}
