package analytics

import (
	"context"

	"github.com/inkwell-cms/relevance/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	zincrByFn   func(ctx context.Context, key, member string, delta float64) (float64, error)
	zrevRangeFn func(ctx context.Context, key string, start, stop int) ([]db.ScoredMember, error)
	hsetFn      func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	rpushFn     func(ctx context.Context, key string, values ...string) error
	lrangeFn    func(ctx context.Context, key string, start, stop int) ([]string, error)
	llenFn      func(ctx context.Context, key string) (int64, error)
	getFn       func(ctx context.Context, key string) ([]byte, error)
	setFn       func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) ZIncrBy(ctx context.Context, key, member string, delta float64) (float64, error) {
	if m.zincrByFn != nil {
		return m.zincrByFn(ctx, key, member, delta)
	}
	return delta, nil
}

func (m *mockStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int) ([]db.ScoredMember, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) RPush(ctx context.Context, key string, values ...string) error {
	if m.rpushFn != nil {
		return m.rpushFn(ctx, key, values...)
	}
	return nil
}

func (m *mockStore) LRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) LLen(ctx context.Context, key string) (int64, error) {
	if m.llenFn != nil {
		return m.llenFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}
