package initializers

import (
	"context"
	"hr-pipeline-backend/config"
	"hr-pipeline-backend/lib/utils/lock"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// InitRedis без адреса Redis блокировки воркеров остаются локальными
func InitRedis(ctx context.Context) {
	if config.Conf.Redis.Addr == "" {
		log.Warn("Redis не настроен, используются локальные блокировки")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Conf.Redis.Addr,
		Password: config.Conf.Redis.Password,
		DB:       config.Conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Ошибка подключения к Redis, используются локальные блокировки")
		_ = client.Close()
		return
	}
	lock.Instance = lock.NewRedisInstance(client)
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()
	log.Info("Redis клиент успешно инициализирован")
}
