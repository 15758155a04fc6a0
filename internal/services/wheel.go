package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"charmtap/internal/datastore"
	"charmtap/internal/datastore/redis_store"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/mroth/weightedrand/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceWheel struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	rs            *redsync.Redsync
	postgresDB    *bun.DB
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache

	serviceCatalog  *ServiceCatalog
	serviceUser     *ServiceUser
	serviceConfig   *ServiceConfig
	serviceSelector *ServiceSelector

	bonusGacha *ServiceGacha[*models.BonusGift]
}

func NewServiceWheel(container *do.Injector) (*ServiceWheel, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
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

	serviceCatalog, err := do.Invoke[*ServiceCatalog](container)
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

	serviceSelector, err := do.Invoke[*ServiceSelector](container)
	if err != nil {
		return nil, err
	}

	bonusGacha, err := NewServiceGacha([]weightedrand.Choice[*models.BonusGift, int]{
		weightedrand.NewChoice[*models.BonusGift, int](nil, 70),
		weightedrand.NewChoice(&models.BonusGift{Gems: 5}, 20),
		weightedrand.NewChoice(&models.BonusGift{Gems: 20}, 9),
		weightedrand.NewChoice(&models.BonusGift{Gems: 100}, 1),
	})
	if err != nil {
		return nil, err
	}

	return &ServiceWheel{container, db, rs, postgresDB, cache, readonlyCache, serviceCatalog, serviceUser, serviceConfig, serviceSelector, bonusGacha}, nil
}

func (service *ServiceWheel) GetPrizes(ctx context.Context) ([]models.WheelPrize, error) {
	return service.serviceCatalog.GetActiveWheelPrizes(ctx)
}

// Spin picks one active prize with booster-adjusted weights. The per-user
// lock stops double spins from parallel requests; the redis cooldown record
// stops re-spins inside the cooldown window.
func (service *ServiceWheel) Spin(ctx context.Context, user *models.User) (*models.SpinResult, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	mutex := service.rs.NewMutex(LockKeyUserWheel(user.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, errorx.Wrap(ErrWheelLock, errorx.Invalid)
	}

	// nolint:errcheck
	defer mutex.Unlock()

	cooldownMins, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_WHEEL_COOLDOWN_MINUTES, WHEEL_COOLDOWN_MINUTES_DEFAULT)
	lastSpin, _ := redis_store.GetUserWheelSpin(ctx, service.redisDB, user.ID)
	if lastSpin != nil && time.Since(lastSpin.SpunAt) < time.Duration(cooldownMins)*time.Minute {
		return nil, errorx.Wrap(errors.New("wheel is on cooldown"), errorx.RateLimiting)
	}

	prizes, err := service.serviceCatalog.GetActiveWheelPrizes(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(prizes))
	for _, prize := range prizes {
		candidates = append(candidates, prize.Candidate())
	}

	picked := service.serviceSelector.PickOne(user.ID, candidates)
	if picked == nil {
		return nil, errorx.Wrap(errors.New("no prizes available"), errorx.NotExist)
	}

	prizeID, err := strconv.Atoi(picked.ID)
	if err != nil {
		return nil, err
	}

	var prize *models.WheelPrize
	for i := range prizes {
		if prizes[i].ID == prizeID {
			prize = &prizes[i]
			break
		}
	}
	if prize == nil {
		return nil, errorx.Wrap(errors.New("prize not found"), errorx.NotExist)
	}

	err = redis_store.SetUserWheelSpin(ctx, service.redisDB, user.ID, &models.WheelSpin{
		PrizeID: prize.ID,
		SpunAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Println("wheel spin:", "user:", user.ID, "prize:", prize.ID)

	if prize.Gem > 0 {
		err = service.serviceUser.InsertUserGem(ctx, user, prize.Gem, ACTION_WHEEL_PRIZE)
		if err != nil {
			return nil, err
		}
	}

	if len(prize.UnlockTags) > 0 {
		entries := make([]models.RewardEntry, 0, len(prize.UnlockTags))
		for _, tag := range prize.UnlockTags {
			entries = append(entries, models.RewardEntry{
				Type: models.RewardEntryMediaTagUnlock,
				Tag:  tag,
			})
		}

		err = datastore.InsertReward(ctx, service.postgresDB, &models.Reward{
			UserID:  user.ID,
			Source:  ACTION_WHEEL_PRIZE,
			Entries: entries,
		})
		if err != nil {
			return nil, err
		}

		err = service.cache.Delete(ctx, DBKeyUserAvailableReward(user.ID))
		if err != nil {
			log.Println(err)
		}
	}

	bonus := service.bonusGacha.Pick()
	if bonus != nil && bonus.Gems > 0 {
		err = service.serviceUser.InsertUserGem(ctx, user, bonus.Gems, ACTION_WHEEL_BONUS)
		if err != nil {
			return nil, err
		}
	}

	return &models.SpinResult{
		Prize: prize,
		Bonus: bonus,
	}, nil
}
