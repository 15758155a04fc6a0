package datastore

import (
	"context"
	"strings"

	"charmtap/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_username").IfNotExists().Column("username").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserByID(ctx context.Context, db *bun.DB, userID int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// if the user is not found, return nil
func FindUserByUsername(ctx context.Context, db *bun.DB, username string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("username = ?", strings.ToLower(username)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func EditUser(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	_, err := db.NewUpdate().Model(user).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func UpdateUserProfile(ctx context.Context, db *bun.DB, user *models.User) error {
	_, err := db.NewUpdate().Model(user).
		Column("first_name", "last_name", "username", "photo_url", "updated_at").
		WherePK().Exec(ctx)
	return err
}

func UpdateUserLevel(ctx context.Context, db *bun.DB, userID int64, level int) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("level = ?", level).
		Where("id = ?", userID).Exec(ctx)
	return err
}

func IncrementUserTaps(ctx context.Context, db *bun.DB, userID int64, taps int) (int64, error) {
	var user models.User
	err := db.NewUpdate().Model(&user).
		Set("total_taps = total_taps + ?", taps).
		Where("id = ?", userID).
		Returning("total_taps").
		Scan(ctx)
	if err != nil {
		return 0, err
	}

	return user.TotalTaps, nil
}

func CountUsers(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().Model((*models.User)(nil)).Count(ctx)
}

func GetTopUsersByGems(ctx context.Context, db *bun.DB, limit int) ([]*models.LeaderboardItem, error) {
	var items []*models.LeaderboardItem
	err := db.NewSelect().Model((*models.UserGem)(nil)).
		ColumnExpr("user_id as user_id").
		ColumnExpr("sum(gems) as score").
		GroupExpr("user_id").
		OrderExpr("score desc").
		Limit(limit).
		Scan(ctx, &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}
