package applicationhistorystore

import (
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	sqlmockdb "hr-pipeline-backend/lib/utils/tx-manager/sqlmock-db"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	rec := dbmodels.ApplicationStatusHistory{
		ApplicationID: "app-1",
		Sequence:      3,
		FromStatus:    models.ApplicationStatusScreening,
		ToStatus:      models.ApplicationStatusRejected,
		ActorID:       "staff-1",
		ChangedAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	t.Run(`номер записи занят параллельным переходом`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`INSERT INTO "application_status_history" .* RETURNING "id"`).
			WillReturnError(sqlmockdb.UniqueViolation("idx_status_history_seq"))

		_, err := NewInstance(db).Create(rec)
		pErr, ok := pipelineerrors.As(err)
		require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
		require.Equal(t, pipelineerrors.CodeConcurrentModification, pErr.Code)
	})
	t.Run(`запись добавлена`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`INSERT INTO "application_status_history" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("history-1"))

		id, err := NewInstance(db).Create(rec)
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})
}

func TestLastSequence(t *testing.T) {
	t.Run(`последний номер записи`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`SELECT coalesce\(max\(sequence\), 0\) FROM "application_status_history" WHERE application_id = \$1`).
			WithArgs("app-1").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))

		seq, err := NewInstance(db).LastSequence("app-1")
		require.NoError(t, err)
		require.Equal(t, 4, seq)
	})
	t.Run(`истории еще нет`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`SELECT coalesce\(max\(sequence\), 0\) FROM "application_status_history"`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		seq, err := NewInstance(db).LastSequence("app-2")
		require.NoError(t, err)
		require.Zero(t, seq)
	})
}
