package initializers

import (
	"context"
	"hr-pipeline-backend/config"
	"hr-pipeline-backend/db"
	"hr-pipeline-backend/fiberlog"
	applicationhandler "hr-pipeline-backend/lib/application"
	applicationhistoryhandler "hr-pipeline-backend/lib/application-history"
	authhandler "hr-pipeline-backend/lib/auth"
	directorystore "hr-pipeline-backend/lib/directory/store"
	xlsexport "hr-pipeline-backend/lib/export/xls"
	interviewhandler "hr-pipeline-backend/lib/interview"
	"hr-pipeline-backend/lib/notification"
	notificationchannels "hr-pipeline-backend/lib/notification/channels"
	outboxworker "hr-pipeline-backend/lib/notification/outbox-worker"
	offerhandler "hr-pipeline-backend/lib/offer"
	offerexpiryworker "hr-pipeline-backend/lib/offer/expiry-worker"
	offerstore "hr-pipeline-backend/lib/offer/store"
	"hr-pipeline-backend/lib/rbac"
	"hr-pipeline-backend/lib/smtp"
	initchecker "hr-pipeline-backend/lib/utils/init-checker"
	txmanager "hr-pipeline-backend/lib/utils/tx-manager"
	connectionhub "hr-pipeline-backend/lib/ws/hub/connection-hub"
	"hr-pipeline-backend/models"
	"time"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitRedis(ctx)
	InitNats()
	connectionhub.Init()
	txmanager.Instance = txmanager.NewInstance(db.DB)
	rbac.NewHandler()
	authhandler.NewHandler()
	xlsexport.NewHandler()
	notification.NewHandler(txmanager.Instance, notificationConfig(), notificationChannels()...)

	policy := pipelinePolicy()
	applicationhandler.NewHandler()
	interviewhandler.NewHandler(policy)
	offerhandler.NewHandler(policy, companyInfo())
	applicationhistoryhandler.NewHandler()

	initchecker.CheckInit(
		"txmanager", txmanager.Instance,
		"notification", notification.Instance,
		"applicationhandler", applicationhandler.Instance,
		"interviewhandler", interviewhandler.Instance,
		"offerhandler", offerhandler.Instance,
		"applicationhistoryhandler", applicationhistoryhandler.Instance,
		"authhandler", authhandler.Instance,
	)
	go initWorkers(ctx)
}

// запускаем с промежутком в 10 сек чтоб размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача доставки уведомлений из outbox
	outboxworker.StartWorker(ctx, time.Duration(config.Conf.Pipeline.OutboxIntervalSec)*time.Second)

	if makeTimeGap(ctx) {
		// Задача перевода просроченных офферов и напоминаний об окончании срока
		offerexpiryworker.StartWorker(ctx, time.Duration(config.Conf.Pipeline.ExpirySweepMinutes)*time.Minute)
	}
}

func makeTimeGap(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}

func pipelinePolicy() models.PipelinePolicy {
	policy := models.DefaultPipelinePolicy()
	counterPolicy := models.CounterRejectPolicy(config.Conf.Pipeline.CounterRejectPolicy)
	if counterPolicy.IsValid() {
		policy.CounterRejectPolicy = counterPolicy
	} else {
		log.WithField("value", counterPolicy).Warn("неизвестная политика отклонения встречного предложения, используется значение по умолчанию")
	}
	quorum := models.EvaluationQuorum(config.Conf.Pipeline.EvaluationQuorum)
	if quorum.IsValid() {
		policy.EvaluationQuorum = quorum
	} else {
		log.WithField("value", quorum).Warn("неизвестное правило кворума, используется значение по умолчанию")
	}
	if config.Conf.Pipeline.AutoAdvanceOnEvaluations != nil {
		policy.AutoAdvanceOnEvaluations = *config.Conf.Pipeline.AutoAdvanceOnEvaluations
	}
	if config.Conf.Pipeline.ExpiryReminderHours > 0 {
		policy.ExpiryReminderWindow = time.Duration(config.Conf.Pipeline.ExpiryReminderHours) * time.Hour
	}
	return policy
}

func notificationConfig() notification.Config {
	cfg := notification.DefaultConfig()
	cfg.BatchSize = config.Conf.Pipeline.OutboxBatchSize
	cfg.Concurrency = config.Conf.Pipeline.OutboxConcurrency
	cfg.MaxAttempts = config.Conf.Pipeline.OutboxMaxAttempts
	if config.Conf.Pipeline.OutboxBaseBackoffSec > 0 {
		cfg.BaseBackoff = time.Duration(config.Conf.Pipeline.OutboxBaseBackoffSec) * time.Second
	}
	return cfg
}

func companyInfo() models.CompanyInfo {
	return models.CompanyInfo{
		Name:    config.Conf.App.CompanyName,
		Address: config.Conf.App.CompanyAddress,
		Contact: config.Conf.App.CompanyContact,
	}
}

func notificationChannels() []notification.Channel {
	directory := directorystore.NewInstance(db.DB)
	letters := notificationchannels.NewOfferLetterAttachments(offerstore.NewInstance(db.DB), directory, companyInfo())
	channels := []notification.Channel{
		notificationchannels.NewEmail(smtp.Instance, directory, letters),
		notificationchannels.NewInApp(connectionhub.Instance),
	}
	if NatsConn != nil {
		channels = append(channels, notificationchannels.NewEvent(NatsConn, config.Conf.Nats.SubjectPrefix))
	}
	return channels
}
