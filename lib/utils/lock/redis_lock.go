package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Provider блокировка фоновой задачи между экземплярами сервиса
type Provider interface {
	// Run выполняет safeCode, если удалось захватить ключ, иначе возвращает false
	Run(ctx context.Context, key string, ttl time.Duration, safeCode func() error) (success bool, err error)
}

// Instance по умолчанию блокировка в пределах процесса
var Instance Provider = Local{}

const keyPrefix = "recruitment-pipeline:lock:"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func NewRedisInstance(client *redis.Client) Provider {
	return redisLock{client: client}
}

type redisLock struct {
	client *redis.Client
}

func (l redisLock) Run(ctx context.Context, key string, ttl time.Duration, safeCode func() error) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "ошибка захвата блокировки")
	}
	if !ok {
		return false, nil
	}
	defer func() {
		// контекст задачи может быть уже завершен
		err := releaseScript.Run(context.Background(), l.client, []string{keyPrefix + key}, token).Err()
		if err != nil {
			log.WithError(err).WithField("key", key).Error("ошибка освобождения блокировки, ключ освободится по истечении ttl")
		}
	}()
	return true, safeCode()
}

// Local блокировка в пределах процесса для запуска без redis
type Local struct{}

func (Local) Run(ctx context.Context, key string, ttl time.Duration, safeCode func() error) (bool, error) {
	return WithDelay(ctx, key, 0, safeCode)
}
