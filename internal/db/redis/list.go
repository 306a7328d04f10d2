package redis

import (
	"context"

	"github.com/inkwell-cms/relevance/internal/db"
)

// RPush appends values to a list. A call with no values is a no-op.
func (s *Store) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	if err := s.do(ctx, s.b().Rpush().Key(key).Element(values...).Build()).Error(); err != nil {
		return opErr(db.OpRPush, err)
	}
	return nil
}

// LRange returns list elements over the inclusive range start..stop
// (stop -1 means "to the end").
func (s *Store) LRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	items, err := s.do(ctx, s.b().Lrange().Key(key).Start(int64(start)).Stop(int64(stop)).Build()).AsStrSlice()
	if err != nil {
		return nil, opErr(db.OpLRange, err)
	}
	return items, nil
}

// LLen returns the list length (0 for a missing key).
func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	n, err := s.do(ctx, s.b().Llen().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, opErr(db.OpLLen, err)
	}
	return n, nil
}
