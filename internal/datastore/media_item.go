package datastore

import (
	"context"
	"strings"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableMediaItem(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MediaItem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.MediaItem)(nil)).Index("index_media_item_character_slug").IfNotExists().Column("character_slug").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetChatMediaItems(ctx context.Context, db *bun.DB, characterSlug string) ([]models.MediaItem, error) {
	var items []models.MediaItem
	err := db.NewSelect().Model(&items).
		Where("character_slug = ?", strings.ToLower(characterSlug)).
		Where("enabled = ?", true).
		Where("chat_enabled = ?", true).
		Where("random_send = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func FindMediaItemByID(ctx context.Context, db *bun.DB, id string) (*models.MediaItem, error) {
	var item models.MediaItem
	err := db.NewSelect().Model(&item).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &item, nil
}
