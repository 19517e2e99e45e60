package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/chronofeed/chronofeed/internal/db"
)

// ZAdd adds a member with the given score to a sorted set.
func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRem removes members from a sorted set.
func (s *Store) ZRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	cmd := s.b().Zrem().Key(key).Member(members...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZRangeByScore returns members with scores in [min,max], ascending, or in
// [max,min] descending when rev is set. min/max use Redis score syntax
// ("-inf", "(3.5", "+inf"). limit <= 0 means no limit.
func (s *Store) ZRangeByScore(
	ctx context.Context, key string, min, max string, rev bool, limit int,
) ([]string, error) {
	count := int64(limit)
	if limit <= 0 {
		count = -1
	}

	var cmd rueidis.Completed
	if rev {
		cmd = s.b().Zrevrangebyscore().Key(key).Max(max).Min(min).Limit(0, count).Build()
	} else {
		cmd = s.b().Zrangebyscore().Key(key).Min(min).Max(max).Limit(0, count).Build()
	}

	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}

// ZScore returns the score of a member, or db.ErrKeyNotFound when absent.
func (s *Store) ZScore(ctx context.Context, key, member string) (float64, error) {
	cmd := s.b().Zscore().Key(key).Member(member).Build()
	score, err := s.do(ctx, cmd).AsFloat64()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, db.ErrKeyNotFound
		}
		return 0, &db.Error{Op: db.OpZScore, Err: err}
	}
	return score, nil
}
