package services

import (
	"context"
	"fmt"

	"charmtap/internal/datastore/redis_store"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

type ServiceLeaderboard struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	redisDBCache  redis.UniversalClient
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache

	serviceUser   *ServiceUser
	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	dbRedisCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, db, dbRedisCache, cache, readonlyCache, serviceUser, serviceConfig}, nil
}

func (service *ServiceLeaderboard) GetOverallLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	return service.getLeaderboard(ctx, user, LEADERBOARD_OVERALL, limit)
}

func (service *ServiceLeaderboard) ClearLeaderboardCache(ctx context.Context, leaderboardName string) error {
	caching.DeleteKeys(ctx, service.redisDBCache, fmt.Sprintf("leaderboard_by_user:%s*", leaderboardName))
	return nil
}

func (service *ServiceLeaderboard) UpdateOverallLeaderboard(ctx context.Context, user *models.User) (*models.LeaderboardItem, error) {
	point, err := service.serviceUser.GetUserGemNoCache(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_OVERALL, &models.LeaderboardItem{
		UserId: user.ID,
		Score:  float64(point),
	})

	service.ClearLeaderboardCache(ctx, LEADERBOARD_OVERALL)

	return leaderboard, err
}

func (service *ServiceLeaderboard) getLeaderboard(ctx context.Context, user *models.User, leaderboardName string, limit int) (*models.LeaderboardResponse, error) {
	callback := func() (*models.LeaderboardResponse, error) {
		leaderboard, err := redis_store.GetLeaderboard(ctx, service.redisDB, leaderboardName, limit)
		if err != nil {
			return nil, err
		}

		rank, err := redis_store.GetRank(ctx, service.redisDB, leaderboardName, user.ID)

		score := float64(0)
		if err == redis.Nil {
			rank = -1
		} else {
			score, err = redis_store.GetScore(ctx, service.redisDB, leaderboardName, user.ID)
		}

		if err != nil && err != redis.Nil {
			return nil, err
		}

		for _, item := range leaderboard {
			u, _ := service.serviceUser.FindUserByID(ctx, item.UserId)
			if u != nil {
				if u.Username == "" {
					item.Username = censorUsername(fmt.Sprintf("%s %s", u.FirstName, u.LastName))
				} else {
					item.Username = censorUsername(u.Username)
				}
			}
		}

		response := &models.LeaderboardResponse{
			Leaderboard: leaderboard,
			Me: &models.LeaderboardItem{
				Username: user.Username,
				UserId:   user.ID,
				Score:    score,
				Rank:     int(rank + 1),
			},
		}

		if user.Username == "" {
			response.Me.Username = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
		}

		return response, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardByUser(leaderboardName, user.ID, limit), CACHE_TTL_1_MIN, callback)
}

func censorUsername(username string) string {
	if len(username) < 3 {
		return username
	}
	firstTwo := username[:2]
	lastChar := string(username[len(username)-1])

	return firstTwo + "*****" + lastChar
}
