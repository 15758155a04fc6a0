package datastore

import (
	"context"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Reward)(nil)).Index("index_reward_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertReward(ctx context.Context, db *bun.DB, reward *models.Reward) error {
	_, err := db.NewInsert().Model(reward).Exec(ctx)
	return err
}

func GetUserAvailableRewards(ctx context.Context, db *bun.DB, userID int64) ([]models.Reward, error) {
	var rewards []models.Reward
	err := db.NewSelect().Model(&rewards).
		Where("user_id = ?", userID).
		Where("claimed = ?", false).
		Order("id asc").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func FindRewardByID(ctx context.Context, db *bun.DB, id int) (*models.Reward, error) {
	var reward models.Reward
	err := db.NewSelect().Model(&reward).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &reward, nil
}

func MarkRewardClaimed(ctx context.Context, db *bun.DB, id int) error {
	_, err := db.NewUpdate().Model((*models.Reward)(nil)).
		Set("claimed = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
