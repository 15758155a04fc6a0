package services

import (
	"context"

	"charmtap/internal/datastore"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceCatalog is the read side of characters, media and wheel prizes.
// Everything here goes through the read replica and the read-through cache;
// writes happen out of band (admin tooling, migrations).
type ServiceCatalog struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceCatalog(container *do.Injector) (*ServiceCatalog, error) {
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

	return &ServiceCatalog{container, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceCatalog) GetActiveCharacters(ctx context.Context) ([]models.Character, error) {
	callback := func() ([]models.Character, error) {
		return datastore.GetActiveCharacters(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCharacters(), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceCatalog) FindCharacterBySlug(ctx context.Context, slug string) (*models.Character, error) {
	callback := func() (*models.Character, error) {
		return datastore.FindCharacterBySlug(ctx, service.readonlyPostgresDB, slug)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCharacter(slug), CACHE_TTL_5_MINS, callback)
}

// EligibleChatMedia returns the media a character may send to this user in
// chat. NSFW items need consent, VIP items need VIP status; the rest of the
// filtering (enabled, chat_enabled, random_send) happens in the query.
func (service *ServiceCatalog) EligibleChatMedia(ctx context.Context, user *models.User, characterSlug string) ([]models.MediaItem, error) {
	callback := func() ([]models.MediaItem, error) {
		return datastore.GetChatMediaItems(ctx, service.readonlyPostgresDB, characterSlug)
	}

	items, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyChatMedia(characterSlug), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if item.NSFW && !user.NSFWConsent {
			continue
		}
		if item.VIPOnly && !user.IsVIP {
			continue
		}
		eligible = append(eligible, item)
	}

	return eligible, nil
}

func (service *ServiceCatalog) FindMediaItemByID(ctx context.Context, id string) (*models.MediaItem, error) {
	return datastore.FindMediaItemByID(ctx, service.readonlyPostgresDB, id)
}

func (service *ServiceCatalog) GetActiveWheelPrizes(ctx context.Context) ([]models.WheelPrize, error) {
	callback := func() ([]models.WheelPrize, error) {
		return datastore.GetActiveWheelPrizes(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyWheelPrizes(), CACHE_TTL_5_MINS, callback)
}
