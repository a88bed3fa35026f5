package applicationhistoryhandler

import (
	"context"
	applicationhandler "hr-pipeline-backend/lib/application"
	xlsexport "hr-pipeline-backend/lib/export/xls"
	"hr-pipeline-backend/lib/notification"
	"hr-pipeline-backend/lib/utils/clock"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	memorytx "hr-pipeline-backend/lib/utils/tx-manager/memory-tx"
	"hr-pipeline-backend/models"
	applicationapimodels "hr-pipeline-backend/models/api/application"
	dbmodels "hr-pipeline-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHistory(t *testing.T) {
	db := memorytx.New()
	clk := clock.NewFixed(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	candidate := db.AddCandidate(dbmodels.Candidate{FirstName: "Ivan", LastName: "Petrov"})
	position := db.AddJobPosition(dbmodels.JobPosition{Title: "Go developer", IsOpen: true})
	applications := applicationhandler.NewInstance(db, clk, notification.NopKicker{})
	handler := NewInstance(db, xlsexport.NewInstance())

	app, err := applications.Submit(context.Background(), applicationapimodels.SubmitRequest{
		CandidateID:   candidate.ID,
		JobPositionID: position.ID,
	}, "recruiter")
	require.NoError(t, err)
	_, err = applications.Advance(context.Background(), app.ID, models.ApplicationStatusScreening, "recruiter", "")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = applications.Reject(context.Background(), app.ID, "нет опыта", "recruiter")
	require.NoError(t, err)

	t.Run(`журнал в порядке номеров`, func(t *testing.T) {
		list, err := handler.History(context.Background(), app.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 1, list[0].Sequence)
		require.Equal(t, models.ApplicationStatusScreening, list[0].ToStatus)
		require.Equal(t, 2, list[1].Sequence)
		require.Equal(t, "Rejected", list[1].ToStatusName)
		require.Equal(t, "нет опыта", list[1].Comment)
	})
	t.Run(`выгрузка в xlsx`, func(t *testing.T) {
		buf, err := handler.ExportHistory(context.Background(), app.ID)
		require.NoError(t, err)
		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		title, err := f.GetCellValue("История статусов", "A1")
		require.NoError(t, err)
		require.Equal(t, "Ivan Petrov / Go developer", title)
	})
	t.Run(`неизвестный отклик`, func(t *testing.T) {
		_, err := handler.History(context.Background(), "unknown")
		require.True(t, pipelineerrors.IsNotFound(err))
	})
}
