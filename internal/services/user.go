package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"charmtap/internal/datastore"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"
)

type ServiceUser struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	bot           *Bot
	serviceConfig *ServiceConfig
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
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

	bot, err := do.Invoke[*Bot](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, db, postgresDB, readonlyPostgresDB, cache, readonlyCache, bot, serviceConfig}, nil
}

func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errors.New("userAuth is nil")
	}

	user, _ := service.FindUserByID(ctx, userAuth.ID)
	if user != nil {
		if (user.Username != strings.ToLower(userAuth.Username)) ||
			(user.FirstName != userAuth.FirstName) ||
			(user.LastName != userAuth.LastName) ||
			(user.PhotoURL != userAuth.PhotoURL) {
			user.Username = strings.ToLower(userAuth.Username)
			user.FirstName = userAuth.FirstName
			user.LastName = userAuth.LastName
			user.PhotoURL = userAuth.PhotoURL
			user.UpdatedAt = time.Now()
			err := datastore.UpdateUserProfile(ctx, service.postgresDB, user)
			if err != nil {
				log.Println("error updating user profile", err)
			}
			_ = service.cache.Delete(ctx, DBKeyUser(user.ID))
		}
		return user, nil
	}

	now := time.Now()
	newUser := &models.User{
		ID:           userAuth.ID,
		FirstName:    userAuth.FirstName,
		IsBot:        userAuth.IsBot,
		IsPremium:    userAuth.IsPremium,
		LastName:     userAuth.LastName,
		Username:     strings.ToLower(userAuth.Username),
		LanguageCode: userAuth.LanguageCode,
		PhotoURL:     userAuth.PhotoURL,
		Level:        1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	log.Println("Create new user:", "user:", newUser.ID, "username:", newUser.Username)
	user, err := datastore.CreateUser(ctx, service.postgresDB, newUser)
	if err != nil {
		return nil, err
	}

	user.IsNewUser = true

	go func() {
		err := service.bot.SendWelcomeMsg(user.ID)
		if err != nil {
			log.Println(err)
		}
	}()

	return user, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceUser) FindUserByIDNoCache(ctx context.Context, userID int64) (*models.User, error) {
	return datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
}

func (service *ServiceUser) Me(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user not found")
	}

	callback := func() (*models.User, error) {
		me, err := datastore.FindUserByID(ctx, service.readonlyPostgresDB, user.ID)
		if err != nil {
			return me, err
		}

		gem, err := service.GetUserGem(ctx, me.ID)
		if err != nil {
			return me, err
		}
		me.TotalGems = gem

		return me, nil
	}

	me, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyMe(user.ID), CACHE_TTL_5_MINS, callback)
	if me != nil && user.IsNewUser {
		me.IsNewUser = user.IsNewUser
	}

	return me, err
}

func (service *ServiceUser) GetUserGem(ctx context.Context, userID int64) (int, error) {
	callback := func() (int, error) {
		return datastore.GetUserTotalGem(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserGems(userID), CACHE_TTL_1_HOUR, callback)
}

func (service *ServiceUser) GetUserGemNoCache(ctx context.Context, userID int64) (int, error) {
	// Use write db to prevent replica lag
	return datastore.GetUserTotalGem(ctx, service.postgresDB, userID)
}

func (service *ServiceUser) InsertUserGem(ctx context.Context, user *models.User, gems int, action string) error {
	var userGem models.UserGem
	userGem.UserID = user.ID
	userGem.Gems = gems
	userGem.Action = action

	err := datastore.InsertUserGem(ctx, service.postgresDB, &userGem)
	if err != nil {
		return err
	}

	serviceLeaderboard, err := do.Invoke[*ServiceLeaderboard](service.container)
	if err != nil {
		return err
	}

	_, err = serviceLeaderboard.UpdateOverallLeaderboard(ctx, user)
	if err != nil {
		return err
	}

	err = service.ClearUserGemCache(ctx, user.ID)
	if err != nil {
		log.Println(err)
	}

	return nil
}

// Tap credits taps and gems and recomputes the level from the lifetime gem
// total. The caller decides what to do about a level up; this only persists
// the new level.
func (service *ServiceUser) Tap(ctx context.Context, user *models.User, taps int) (*models.TapResult, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if taps <= 0 {
		return nil, errors.New("taps must be positive")
	}

	gemsPerTap, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_GEMS_PER_TAP, GEMS_PER_TAP_DEFAULT)
	levelStep, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEVEL_GEM_STEP, LEVEL_GEM_STEP_DEFAULT)
	if levelStep <= 0 {
		levelStep = LEVEL_GEM_STEP_DEFAULT
	}

	totalTaps, err := datastore.IncrementUserTaps(ctx, service.postgresDB, user.ID, taps)
	if err != nil {
		return nil, err
	}

	gems := taps * gemsPerTap
	err = service.InsertUserGem(ctx, user, gems, ACTION_TAP)
	if err != nil {
		return nil, err
	}

	totalGems, err := service.GetUserGemNoCache(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	level := totalGems/levelStep + 1
	leveledUp := level > user.Level
	if leveledUp {
		err = datastore.UpdateUserLevel(ctx, service.postgresDB, user.ID, level)
		if err != nil {
			return nil, err
		}
		_ = service.ClearUserCache(ctx, user.ID)
	}

	return &models.TapResult{
		Taps:      totalTaps,
		Gems:      gems,
		Level:     level,
		LeveledUp: leveledUp,
	}, nil
}

func (service *ServiceUser) ClearUserGemCache(ctx context.Context, userID int64) error {
	err := service.cache.Delete(ctx, DBKeyUserGems(userID))
	if err != nil {
		log.Println(err)
	}

	_ = service.ClearUserCache(ctx, userID)
	return nil
}

func (service *ServiceUser) ClearUserCache(ctx context.Context, userID int64) error {
	err := service.cache.Delete(ctx, DBKeyMe(userID))
	if err != nil {
		log.Println(err)
	}

	err = service.cache.Delete(ctx, DBKeyUser(userID))
	if err != nil {
		log.Println(err)
	}

	return nil
}
