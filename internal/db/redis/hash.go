package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/inkwell-cms/relevance/internal/db"
)

// HSet writes the given fields into a hash.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for f, v := range fields {
		cmd = cmd.FieldValue(f, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return opErr(db.OpHSet, err)
	}
	return nil
}

// HGetAll returns every field of a hash (empty map for a missing key).
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, opErr(db.OpHGetAll, err)
	}
	return m, nil
}

// HGetAllMulti fetches several hashes in one pipelined round-trip, in the
// order of keys.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))
	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("hgetall %s: %w", keys[i], opErr(db.OpHGetAll, err))
		}
		out[i] = m
	}
	return out, nil
}

// Del removes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.do(ctx, s.b().Del().Key(key).Build()).Error(); err != nil {
		return opErr(db.OpDel, err)
	}
	return nil
}

// Exists reports whether a key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, opErr(db.OpExists, err)
	}
	return count > 0, nil
}

// Scan collects all keys matching the pattern, following the cursor until
// exhausted.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		res, err := s.do(ctx, s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()).AsScanEntry()
		if err != nil {
			return nil, opErr(db.OpScan, err)
		}
		keys = append(keys, res.Elements...)
		if cursor = res.Cursor; cursor == 0 {
			return keys, nil
		}
	}
}
