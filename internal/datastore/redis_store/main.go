package redis_store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charmtap/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(name))
}

func dbKeyUserWheelSpin(userID int64) string {
	return fmt.Sprintf("user:%d:wheel:last_spin", userID)
}

func SetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  v.Score,
		Member: v.UserId,
	}).Err()

	if err != nil {
		return nil, err
	}

	return v, nil
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	// num always greater than 0
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		id, _ := strconv.ParseInt(item.Member.(string), 10, 64)
		results = append(results, &models.LeaderboardItem{
			UserId: id,
			Score:  item.Score,
			Rank:   i + 1,
		})
	}

	return results, nil
}

func GetRank(ctx context.Context, cmd redis.Cmdable, name string, userID int64) (int64, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(name), strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return -1, err
	}

	return rank, nil
}

func GetScore(ctx context.Context, cmd redis.Cmdable, name string, userID int64) (float64, error) {
	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(name), strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return -1, err
	}

	return score, nil
}

func SetUserWheelSpin(ctx context.Context, cmd redis.Cmdable, userID int64, v *models.WheelSpin) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyUserWheelSpin(userID), b, 7*24*time.Hour).Err()
}

func GetUserWheelSpin(ctx context.Context, cmd redis.Cmdable, userID int64) (*models.WheelSpin, error) {
	var v *models.WheelSpin
	b, err := cmd.Get(ctx, dbKeyUserWheelSpin(userID)).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}
