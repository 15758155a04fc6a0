package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrWheelLock = errors.New("wheel spin locked")
var ErrRewardLock = errors.New("reward claim locked")

const (
	CONFIG_SERVER_MODE             = "SERVER_MODE"
	CONFIG_LEADERBOARD_LIMIT       = "LEADERBOARD_LIMIT"
	CONFIG_LEVEL_GEM_STEP          = "LEVEL_GEM_STEP"
	CONFIG_GEMS_PER_TAP            = "GEMS_PER_TAP"
	CONFIG_CHAT_MEDIA_SEND_PERCENT = "CHAT_MEDIA_SEND_PERCENT"
	CONFIG_WHEEL_COOLDOWN_MINUTES  = "WHEEL_COOLDOWN_MINUTES"
	CONFIG_WHEEL_BONUS_TEXT        = "WHEEL_BONUS_TEXT"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_OVERALL = "overall"

	LEADERBOARD_DEFAULT_LIMIT       = 20
	LEVEL_GEM_STEP_DEFAULT          = 100
	GEMS_PER_TAP_DEFAULT            = 1
	CHAT_MEDIA_SEND_PERCENT_DEFAULT = 35
	WHEEL_COOLDOWN_MINUTES_DEFAULT  = 60

	CHAT_RATE_LIMIT_PER_MINUTE = 20

	ACTION_TAP         = "tap"
	ACTION_WHEEL_PRIZE = "wheel:prize"
	ACTION_WHEEL_BONUS = "wheel:bonus"
	ACTION_REWARD      = "reward"

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
	CACHE_TTL_15_MINS   = 15 * time.Minute
	CACHE_TTL_1_HOUR    = 1 * time.Hour
)

func LockKeyUserWheel(userID int64) string {
	return fmt.Sprintf("lock:user-wheel:%d", userID)
}

func LockKeyUserReward(userID int64, rewardID int) string {
	return fmt.Sprintf("lock:user-reward:%d:%d", userID, rewardID)
}

// db
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyMe(userID int64) string {
	return fmt.Sprintf("me:%d", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyUserGems(userID int64) string {
	return fmt.Sprintf("user_gems:%d", userID)
}

func DBKeyCharacters() string {
	return "characters:active"
}

func DBKeyCharacter(slug string) string {
	return fmt.Sprintf("character:%s", strings.ToLower(slug))
}

func DBKeyChatMedia(characterSlug string) string {
	return fmt.Sprintf("chat_media:%s", strings.ToLower(characterSlug))
}

func DBKeyWheelPrizes() string {
	return "wheel_prizes:active"
}

func DBKeyUserAvailableReward(userID int64) string {
	return fmt.Sprintf("user:available_rewards:%d", userID)
}

func DBKeyLeaderboardByUser(name string, userID int64, limit int) string {
	return fmt.Sprintf("leaderboard_by_user:%s:%d:%d", strings.ToLower(name), userID, limit)
}

func LimitKeyUserChat(userID int64) string {
	return fmt.Sprintf("limit:user-chat:%d", userID)
}
