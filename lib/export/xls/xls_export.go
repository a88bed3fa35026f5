package xlsexport

import (
	"bytes"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportStatusHistory(app dbmodels.JobApplication, list []dbmodels.ApplicationStatusHistory) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

var historyHeaders = []string{"№", "Дата", "Из статуса", "В статус", "Автор", "Комментарий"}

func (i impl) ExportStatusHistory(app dbmodels.JobApplication, list []dbmodels.ApplicationStatusHistory) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeTitle(f, sheet, row, app)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования шапки в xlsx")
	}
	row, err = writeHeader(f, sheet, row, historyHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeHistoryData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "История статусов")
	return f.WriteToBuffer()
}

func writeTitle(f *excelize.File, sheet string, row int, app dbmodels.JobApplication) (int, error) {
	row++
	title := "Отклик " + app.ID
	if app.Candidate != nil {
		title = app.Candidate.GetFullName()
	}
	if app.JobPosition != nil {
		title += " / " + app.JobPosition.Title
	}
	if err := writeColumn(f, sheet, 1, row, title); err != nil {
		return row, err
	}
	row++
	if err := writeColumn(f, sheet, 1, row, "Текущий статус: "+app.Status.ToHuman()); err != nil {
		return row, err
	}
	return row, nil
}

func writeHistoryData(f *excelize.File, sheet string, list []dbmodels.ApplicationStatusHistory, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(historyHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "№"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Sequence); err != nil {
			return row, err
		}

		// "Дата"
		col++
		if err := writeColumn(f, sheet, col, row, item.ChangedAt.Format("02.01.2006 15:04:05")); err != nil {
			return row, err
		}

		// "Из статуса"
		col++
		if err := writeColumn(f, sheet, col, row, item.FromStatus.ToHuman()); err != nil {
			return row, err
		}

		// "В статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.ToStatus.ToHuman()); err != nil {
			return row, err
		}

		// "Автор"
		col++
		if err := writeColumn(f, sheet, col, row, item.ActorID); err != nil {
			return row, err
		}

		// "Комментарий"
		col++
		if err := writeColumn(f, sheet, col, row, item.Comment); err != nil {
			return row, err
		}
	}
	return row, nil
}
