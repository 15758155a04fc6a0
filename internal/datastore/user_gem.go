package datastore

import (
	"context"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserGem(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserGem)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserGem)(nil)).Index("index_user_gem_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserGem(ctx context.Context, db *bun.DB, userGem *models.UserGem) error {
	_, err := db.NewInsert().Model(userGem).Exec(ctx)
	return err
}

func GetUserTotalGem(ctx context.Context, db *bun.DB, userID int64) (int, error) {
	var total int
	err := db.NewSelect().Model((*models.UserGem)(nil)).
		ColumnExpr("coalesce(sum(gems), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
