package main

import (
	"context"
	"log"
	"time"

	"charmtap/internal/datastore"
	"charmtap/internal/datastore/redis_store"
	"charmtap/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const defaultLeaderboardCron = "@every 1h"

// LeaderboardJob rebuilds the overall leaderboard zset from postgres so the
// redis copy cannot drift from the gem ledger for long.
type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	schedule := defaultLeaderboardCron
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, "CRONJOB_TIME_LEADERBOARD")
	if err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.rebuildLeaderboard)
	log.Println("Leaderboard cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
	j.rebuildLeaderboard()
}

func (j *LeaderboardJob) rebuildLeaderboard() {
	ctx := context.Background()
	log.Println("Start rebuilding overall leaderboard ...")

	items, err := datastore.GetTopUsersByGems(ctx, j.Db, 1000)
	if err != nil {
		log.Println(err)
		return
	}

	for _, item := range items {
		_, err := redis_store.SetLeaderboard(ctx, j.Redis, services.LEADERBOARD_OVERALL, item)
		if err != nil {
			log.Println(err)
		}
	}

	log.Println("Overall leaderboard rebuilt:", "users:", len(items))
}
