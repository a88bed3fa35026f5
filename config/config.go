package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr     string `default:"" env:"APP_HOST"`
		Port           int    `default:"8080"  env:"APP_PORT"`
		CompanyName    string `default:"" env:"APP_COMPANY_NAME"`
		CompanyAddress string `default:"" env:"APP_COMPANY_ADDRESS"`
		CompanyContact string `default:"" env:"APP_COMPANY_CONTACT"`
		ErrNotifyUrl   string `default:"" env:"APP_ERR_NOTIFY_URL"`
		BodyLimitBytes int64  `default:"1048576" env:"APP_BODY_LIMIT_BYTES"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-pipeline" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret             string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec        int    `default:"3600" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int    `default:"604800" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
	}
	Admin struct {
		Email     string `default:"" env:"ADMIN_EMAIL"`
		Password  string `default:"" env:"ADMIN_PASSWORD"`
		FirstName string `default:"Admin" env:"ADMIN_FIRST_NAME"`
		LastName  string `default:"" env:"ADMIN_LAST_NAME"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"SMTP_FROM"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"offer-letters" env:"S3_BUCKET_NAME"`
	}
	Redis struct {
		Addr     string `default:"" env:"REDIS_ADDR"`
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
	}
	Nats struct {
		Url           string `default:"" env:"NATS_URL"`
		SubjectPrefix string `default:"recruitment.notifications" env:"NATS_SUBJECT_PREFIX"`
	}
	Pipeline struct {
		// reject - отклонение встречного предложения закрывает оффер, revert - возврат к исходной сумме
		CounterRejectPolicy string `default:"reject" env:"PIPELINE_COUNTER_REJECT_POLICY"`
		// all / lead / majority
		EvaluationQuorum         string `default:"all" env:"PIPELINE_EVALUATION_QUORUM"`
		AutoAdvanceOnEvaluations *bool  `default:"false" env:"PIPELINE_AUTO_ADVANCE_ON_EVALUATIONS"`
		ExpiryReminderHours      int    `default:"48" env:"PIPELINE_EXPIRY_REMINDER_HOURS"`
		ExpirySweepMinutes       int    `default:"60" env:"PIPELINE_EXPIRY_SWEEP_MINUTES"`
		OutboxIntervalSec        int    `default:"10" env:"PIPELINE_OUTBOX_INTERVAL_SEC"`
		OutboxBatchSize          int    `default:"50" env:"PIPELINE_OUTBOX_BATCH_SIZE"`
		OutboxConcurrency        int    `default:"4" env:"PIPELINE_OUTBOX_CONCURRENCY"`
		OutboxMaxAttempts        int    `default:"8" env:"PIPELINE_OUTBOX_MAX_ATTEMPTS"`
		OutboxBaseBackoffSec     int    `default:"30" env:"PIPELINE_OUTBOX_BASE_BACKOFF_SEC"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
