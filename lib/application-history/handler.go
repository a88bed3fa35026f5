package applicationhistoryhandler

import (
	"bytes"
	"context"
	xlsexport "hr-pipeline-backend/lib/export/xls"
	pipelineerrors "hr-pipeline-backend/lib/utils/pipeline-errors"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	applicationapimodels "hr-pipeline-backend/models/api/application"
	dbmodels "hr-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider чтение журнала переходов отклика, запись ведет applicationhandler.Transition
type Provider interface {
	History(ctx context.Context, applicationID string) ([]applicationapimodels.HistoryView, error)
	ExportHistory(ctx context.Context, applicationID string) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(txmanager.Instance, xlsexport.Instance)
}

func NewInstance(tx txmanager.Provider, exporter xlsexport.Provider) Provider {
	return impl{
		tx:       tx,
		exporter: exporter,
	}
}

type impl struct {
	tx       txmanager.Provider
	exporter xlsexport.Provider
}

func (i impl) load(applicationID string) (*dbmodels.JobApplication, []dbmodels.ApplicationStatusHistory, error) {
	stores := i.tx.Stores()
	app, err := stores.Applications.GetByID(applicationID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения отклика")
	}
	if app == nil {
		return nil, nil, pipelineerrors.NotFound("отклик", applicationID)
	}
	list, err := stores.History.List(applicationID)
	if err != nil {
		log.WithError(err).WithField("application_id", applicationID).Error("ошибка получения истории отклика")
		return nil, nil, errors.Wrap(err, "ошибка получения истории отклика")
	}
	return app, list, nil
}

func (i impl) History(ctx context.Context, applicationID string) ([]applicationapimodels.HistoryView, error) {
	_, list, err := i.load(applicationID)
	if err != nil {
		return nil, err
	}
	result := make([]applicationapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicationapimodels.HistoryConvert(rec))
	}
	return result, nil
}

func (i impl) ExportHistory(ctx context.Context, applicationID string) (*bytes.Buffer, error) {
	app, list, err := i.load(applicationID)
	if err != nil {
		return nil, err
	}
	buf, err := i.exporter.ExportStatusHistory(*app, list)
	if err != nil {
		log.WithError(err).WithField("application_id", applicationID).Error("ошибка выгрузки истории отклика")
		return nil, errors.Wrap(err, "ошибка выгрузки истории отклика")
	}
	return buf, nil
}
