package datastore

import (
	"context"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableChatMessage(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ChatMessage)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.ChatMessage)(nil)).Index("index_chat_message_user_id_character_slug").IfNotExists().Column("user_id", "character_slug").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertChatMessage(ctx context.Context, db *bun.DB, message *models.ChatMessage) error {
	_, err := db.NewInsert().Model(message).Exec(ctx)
	return err
}

func GetRecentChatMessages(ctx context.Context, db *bun.DB, userID int64, characterSlug string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.NewSelect().Model(&messages).
		Where("user_id = ?", userID).
		Where("character_slug = ?", characterSlug).
		Order("created_at desc").
		Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
