package datastore

import (
	"context"
	"strings"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCharacter(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Character)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActiveCharacters(ctx context.Context, db *bun.DB) ([]models.Character, error) {
	var characters []models.Character
	err := db.NewSelect().Model(&characters).
		Where("enabled = ?", true).
		Order("slug asc").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return characters, nil
}

func FindCharacterBySlug(ctx context.Context, db *bun.DB, slug string) (*models.Character, error) {
	var character models.Character
	err := db.NewSelect().Model(&character).
		Where("slug = ?", strings.ToLower(slug)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &character, nil
}
