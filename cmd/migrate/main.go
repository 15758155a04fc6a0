package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"charmtap/internal/datastore"
	"charmtap/internal/models"
	"charmtap/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserGem(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCharacter(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMediaItem(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableWheelPrize(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableChatMessage(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			log.Println("migration done")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate-config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			defaults := map[string]string{
				services.CONFIG_LEVEL_GEM_STEP:          strconv.Itoa(services.LEVEL_GEM_STEP_DEFAULT),
				services.CONFIG_GEMS_PER_TAP:            strconv.Itoa(services.GEMS_PER_TAP_DEFAULT),
				services.CONFIG_CHAT_MEDIA_SEND_PERCENT: strconv.Itoa(services.CHAT_MEDIA_SEND_PERCENT_DEFAULT),
				services.CONFIG_WHEEL_COOLDOWN_MINUTES:  strconv.Itoa(services.WHEEL_COOLDOWN_MINUTES_DEFAULT),
				services.CONFIG_LEADERBOARD_LIMIT:       strconv.Itoa(services.LEADERBOARD_DEFAULT_LIMIT),
			}

			for key, value := range defaults {
				existing, _ := datastore.GetConfigByKey(ctx, db, key)
				if existing != nil {
					continue
				}

				err = datastore.InsertConfig(ctx, db, models.Config{Key: key, Value: value})
				if err != nil {
					log.Fatal(err)
				}
				log.Println("config seeded:", key, "=", value)
			}

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
