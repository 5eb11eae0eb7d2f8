package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

const viewedKeyPrefix = "stylehub:viewed:"

type recentlyViewedStore struct{ client redis.UniversalClient }

func NewRecentlyViewedStore(client redis.UniversalClient) domain.ViewedStore {
	return &recentlyViewedStore{client: client}
}

func (s *recentlyViewedStore) Push(ctx context.Context, key, productID string, max int) error {
	k := viewedKeyPrefix + key
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, k, 0, productID)
	pipe.LPush(ctx, k, productID)
	pipe.LTrim(ctx, k, 0, int64(max-1))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *recentlyViewedStore) List(ctx context.Context, key string) ([]string, error) {
	ids, err := s.client.LRange(ctx, viewedKeyPrefix+key, 0, -1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	return ids, err
}

func (s *recentlyViewedStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, viewedKeyPrefix+key).Err()
}
