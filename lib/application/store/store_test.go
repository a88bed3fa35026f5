package applicationstore

import (
	"errors"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	sqlmockdb "hr-pipeline-backend/lib/utils/tx-manager/sqlmock-db"
	"hr-pipeline-backend/models"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		mock     func(mock sqlmock.Sqlmock)
		wantCode pipelineerrors.Code
		wantErr  string
	}{
		{
			name: `отклик создан`,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "job_applications" .* RETURNING "id"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("app-1"))
			},
		},
		{
			name: `повторный отклик кандидата на вакансию`,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "job_applications" .*`).
					WillReturnError(sqlmockdb.UniqueViolation("idx_application_pair"))
			},
			wantCode: pipelineerrors.CodeApplicationAlreadyExists,
		},
		{
			name: `ошибка БД`,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "job_applications" .*`).
					WillReturnError(errors.New("соединение разорвано"))
			},
			wantErr: "соединение разорвано",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := sqlmockdb.New(t)
			tc.mock(mock)
			_, err := NewInstance(db).Create(dbmodels.JobApplication{
				CandidateID:   "candidate-1",
				JobPositionID: "position-1",
				Status:        models.ApplicationStatusApplied,
				IsActive:      true,
			})
			switch {
			case tc.wantCode != "":
				pErr, ok := pipelineerrors.As(err)
				require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
				require.Equal(t, tc.wantCode, pErr.Code)
			case tc.wantErr != "":
				require.ErrorContains(t, err, tc.wantErr)
				_, ok := pipelineerrors.As(err)
				require.False(t, ok)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name     string
		updMap   map[string]interface{}
		mock     func(mock sqlmock.Sqlmock)
		wantCode pipelineerrors.Code
	}{
		{
			name:   `версия совпала`,
			updMap: map[string]interface{}{"Status": models.ApplicationStatusScreening},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "job_applications" SET .*"version"=.* WHERE .*id = \$\d+ and version = \$\d+`).
					WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "app-1", int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   `запись изменена другой транзакцией`,
			updMap: map[string]interface{}{"Status": models.ApplicationStatusScreening},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "job_applications" SET .* WHERE .*id = \$\d+ and version = \$\d+`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCode: pipelineerrors.CodeConcurrentModification,
		},
		{
			name:   `пустые изменения не выполняют запрос`,
			updMap: map[string]interface{}{},
			mock:   func(mock sqlmock.Sqlmock) {},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := sqlmockdb.New(t)
			tc.mock(mock)
			err := NewInstance(db).Update("app-1", 3, tc.updMap)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}
			pErr, ok := pipelineerrors.As(err)
			require.True(t, ok, "ожидалась ошибка конвейера, получено: %v", err)
			require.Equal(t, tc.wantCode, pErr.Code)
		})
	}
}
