package services

import (
	"context"
	"errors"
	"log"

	"charmtap/internal/datastore"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceReward struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceUser    *ServiceUser
	serviceTrigger *ServiceTrigger
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
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

	serviceTrigger, err := do.Invoke[*ServiceTrigger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, serviceUser, serviceTrigger}, nil
}

func (service *ServiceReward) GetAvailableRewardByUserID(ctx context.Context, userID int64) ([]models.Reward, error) {
	callback := func() ([]models.Reward, error) {
		return datastore.GetUserAvailableRewards(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserAvailableReward(userID), CACHE_TTL_5_MINS, callback)
}

// ClaimReward marks the reward claimed, credits its gem entries and records
// the claim event so unlocked media tags get their boost.
func (service *ServiceReward) ClaimReward(ctx context.Context, user *models.User, rewardID int) (*models.Reward, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	mutex := service.rs.NewMutex(LockKeyUserReward(user.ID, rewardID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrRewardLock, errorx.Invalid)
	}

	// nolint:errcheck
	defer mutex.Unlock()

	reward, err := datastore.FindRewardByID(ctx, service.postgresDB, rewardID)
	if err != nil {
		return nil, errorx.Wrap(errors.New("reward not found"), errorx.NotExist)
	}

	if reward.UserID != user.ID {
		return nil, errorx.Wrap(errors.New("reward not found"), errorx.NotExist)
	}

	if reward.Claimed {
		return nil, errorx.Wrap(errors.New("reward already claimed"), errorx.Invalid)
	}

	err = datastore.MarkRewardClaimed(ctx, service.postgresDB, reward.ID)
	if err != nil {
		return nil, err
	}
	reward.Claimed = true

	gems := 0
	for _, entry := range reward.Entries {
		gems += entry.Gem
	}
	if gems > 0 {
		err = service.serviceUser.InsertUserGem(ctx, user, gems, ACTION_REWARD)
		if err != nil {
			return nil, err
		}
	}

	service.serviceTrigger.RecordEvent(ctx, user.ID, EventRewardClaim, reward.Entries)

	err = service.ClearUserAvailableRewardCache(ctx, user.ID)
	if err != nil {
		log.Println(err)
	}

	return reward, nil
}

func (service *ServiceReward) ClearUserAvailableRewardCache(ctx context.Context, userID int64) error {
	return service.cache.Delete(ctx, DBKeyUserAvailableReward(userID))
}
