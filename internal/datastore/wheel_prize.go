package datastore

import (
	"context"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableWheelPrize(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.WheelPrize)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActiveWheelPrizes(ctx context.Context, db *bun.DB) ([]models.WheelPrize, error) {
	var prizes []models.WheelPrize
	err := db.NewSelect().Model(&prizes).
		Where("enabled = ?", true).
		Order("id asc").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return prizes, nil
}

func FindWheelPrizeByID(ctx context.Context, db *bun.DB, id int) (*models.WheelPrize, error) {
	var prize models.WheelPrize
	err := db.NewSelect().Model(&prize).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &prize, nil
}
