package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// scriptedRedis отвечает на команды без сервера: ключ всегда захватывается, скрипт освобождения возвращает releaseErr
type scriptedRedis struct {
	releaseErr error
}

func (h scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.BoolCmd:
			c.SetVal(true)
			return nil
		case *redis.Cmd:
			if h.releaseErr != nil {
				c.SetErr(h.releaseErr)
				return h.releaseErr
			}
			c.SetVal(int64(1))
			return nil
		}
		return next(ctx, cmd)
	}
}

func (h scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisLockRelease(t *testing.T) {
	newClient := func(releaseErr error) *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
		client.AddHook(scriptedRedis{releaseErr: releaseErr})
		return client
	}

	t.Run(`ошибка освобождения пишется в лог`, func(t *testing.T) {
		logHook := test.NewGlobal()
		defer logHook.Reset()

		ran := false
		ok, err := NewRedisInstance(newClient(errors.New("READONLY You can't write against a read only replica"))).
			Run(context.Background(), "offer-expiry", time.Minute, func() error {
				ran = true
				return nil
			})
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, ran)

		entry := logHook.LastEntry()
		require.NotNil(t, entry)
		require.Equal(t, log.ErrorLevel, entry.Level)
		require.Equal(t, "offer-expiry", entry.Data["key"])
		require.ErrorContains(t, entry.Data[log.ErrorKey].(error), "READONLY")
	})
	t.Run(`успешное освобождение без ошибок в логе`, func(t *testing.T) {
		logHook := test.NewGlobal()
		defer logHook.Reset()

		ok, err := NewRedisInstance(newClient(nil)).Run(context.Background(), "offer-expiry", time.Minute, func() error {
			return nil
		})
		require.NoError(t, err)
		require.True(t, ok)
		for _, entry := range logHook.AllEntries() {
			require.NotEqual(t, log.ErrorLevel, entry.Level)
		}
	})
}
