package interviewstore

import (
	"errors"
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
	t.Run(`раунд уже назначен`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectQuery(`INSERT INTO "interviews" .* RETURNING "id"`).
			WillReturnError(sqlmockdb.UniqueViolation("idx_interview_round"))

		_, err := NewInstance(db).Create(dbmodels.Interview{
			ApplicationID: "app-1",
			RoundNumber:   2,
			Status:        models.InterviewStatusScheduled,
			ScheduledAt:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		})
		pErr, ok := pipelineerrors.As(err)
		require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
		require.Equal(t, pipelineerrors.CodeDuplicateRound, pErr.Code)
	})
}

func TestUpdate(t *testing.T) {
	t.Run(`одновременное изменение интервью`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		mock.ExpectExec(`UPDATE "interviews" SET .* WHERE .*id = \$\d+ and version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewInstance(db).Update("interview-1", 4, map[string]interface{}{
			"UpdatedAt": time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		})
		pErr, ok := pipelineerrors.As(err)
		require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
		require.Equal(t, pipelineerrors.CodeConcurrentModification, pErr.Code)
	})
	t.Run(`ошибка БД не маскируется`, func(t *testing.T) {
		db, mock := sqlmockdb.New(t)
		dbErr := errors.New("соединение разорвано")
		mock.ExpectExec(`UPDATE "interviews" SET .*`).
			WillReturnError(dbErr)

		err := NewInstance(db).Update("interview-1", 4, map[string]interface{}{
			"Status": models.InterviewStatusCancelled,
		})
		require.ErrorIs(t, err, dbErr)
	})
}
