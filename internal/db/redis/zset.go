package redis

import (
	"context"

	"github.com/inkwell-cms/relevance/internal/db"
)

// ZIncrBy atomically increments a member's score and returns the new score.
// A missing member starts from zero.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, delta float64) (float64, error) {
	score, err := s.do(ctx, s.b().Zincrby().Key(key).Increment(delta).Member(member).Build()).AsFloat64()
	if err != nil {
		return 0, opErr(db.OpZIncrBy, err)
	}
	return score, nil
}

// ZRevRangeWithScores returns members by score descending over the inclusive
// rank range start..stop (stop -1 means "to the end").
func (s *Store) ZRevRangeWithScores(ctx context.Context, key string, start, stop int) ([]db.ScoredMember, error) {
	scores, err := s.do(ctx, s.b().Zrevrange().Key(key).Start(int64(start)).Stop(int64(stop)).Withscores().Build()).AsZScores()
	if err != nil {
		return nil, opErr(db.OpZRange, err)
	}

	out := make([]db.ScoredMember, len(scores))
	for i, z := range scores {
		out[i] = db.ScoredMember{Member: z.Member, Score: z.Score}
	}
	return out, nil
}
