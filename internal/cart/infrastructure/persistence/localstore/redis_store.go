// Package localstore 游客购物车存储实现。
package localstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
)

const guestKeyPrefix = "stylehub:cart:guest:"

// 游客购物车随游客 cookie 一同过期。
const guestCartTTL = 30 * 24 * time.Hour

type redisStore struct{ client redis.UniversalClient }

func NewRedisStore(client redis.UniversalClient) domain.GuestStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, token string) ([]byte, error) {
	payload, err := s.client.Get(ctx, guestKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return payload, err
}

func (s *redisStore) Set(ctx context.Context, token string, payload []byte) error {
	return s.client.Set(ctx, guestKeyPrefix+token, payload, guestCartTTL).Err()
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, guestKeyPrefix+token).Err()
}
