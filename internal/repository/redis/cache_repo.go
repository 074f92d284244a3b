package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// defaultOpTimeout ограничивает одну операцию с Redis
const defaultOpTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository.
// Все ключи получают префикс namespace, чтобы несколько окружений могли делить один Redis.
type CacheRepo struct {
	client    redis.UniversalClient
	namespace string
	opTimeout time.Duration
}

// NewCacheRepo создает новый репозиторий кеша и возвращает ошибку при проблемах
func NewCacheRepo(client redis.UniversalClient, namespace string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{
		client:    client,
		namespace: namespace,
		opTimeout: defaultOpTimeout,
	}, nil
}

func (r *CacheRepo) key(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func (r *CacheRepo) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opTimeout)
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(key string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Del(ctx, r.key(key)).Err()
}

// SetJSON сохраняет структуру JSON в кеше
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Set(ctx, r.key(key), data, expiration).Err()
}

// GetJSON получает структуру JSON из кеша; промах возвращает apperrors.ErrNotFound
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := r.opContext()
	defer cancel()
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetNX устанавливает значение ключа, только если ключ не существует.
// Возвращает true, если ключ был установлен, false - если ключ уже существовал.
func (r *CacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.SetNX(ctx, r.key(key), value, expiration).Result()
}
