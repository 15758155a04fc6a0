package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"charmtap/internal/models"
)

const (
	EventChat        = "chat"
	EventLevelUp     = "level_up"
	EventRewardClaim = "reward_claim"
	EventTick        = "tick"
)

const (
	BoostFactorChatKeyword = 1.6
	BoostFactorLevelUp     = 1.4
	BoostFactorTagUnlock   = 2.0
	BoostFactorDailyReset  = 1.3
)

// chatKeywordTags maps chat keywords (substring match, lower-cased) to the
// booster tags they nudge.
var chatKeywordTags = map[string][]string{
	"wave":      {"pose:wave"},
	"wink":      {"pose:wink"},
	"sleepy":    {"mood:sleepy"},
	"happy":     {"mood:happy"},
	"beach":     {"set:beach"},
	"halloween": {"event:halloween2025"},
}

type userFinder interface {
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// ServiceTrigger translates domain events into booster instructions. It is
// best-effort flavor, never a correctness path: malformed or unrecognized
// events are silent no-ops and RecordEvent never fails.
type ServiceTrigger struct {
	booster *BoosterEngine
	users   userFinder
	clock   Clock
}

func NewServiceTrigger(booster *BoosterEngine, users userFinder, clock Clock) *ServiceTrigger {
	if clock == nil {
		clock = systemClock{}
	}
	return &ServiceTrigger{booster: booster, users: users, clock: clock}
}

func (service *ServiceTrigger) RecordEvent(ctx context.Context, userID int64, eventType string, payload any) {
	switch eventType {
	case EventChat:
		service.onChat(userID, payload)
	case EventLevelUp:
		service.onLevelUp(ctx, userID)
	case EventRewardClaim:
		service.onRewardClaim(userID, payload)
	case EventTick:
		service.onTick(userID)
	}
}

func (service *ServiceTrigger) onChat(userID int64, payload any) {
	text := chatText(payload)
	if text == "" {
		return
	}

	text = strings.ToLower(text)
	var matched []string
	for keyword, tags := range chatKeywordTags {
		if strings.Contains(text, keyword) {
			matched = append(matched, tags...)
		}
	}

	if len(matched) == 0 {
		return
	}

	service.booster.ApplyBoost(userID, matched, BoostFactorChatKeyword)
}

func (service *ServiceTrigger) onLevelUp(ctx context.Context, userID int64) {
	if service.users == nil {
		return
	}

	user, err := service.users.FindUserByID(ctx, userID)
	if err != nil || user == nil {
		// boosting is cosmetic; a failed lookup just means no boost this time
		if err != nil {
			log.Println("trigger level_up lookup:", err, "user:", userID)
		}
		return
	}

	service.booster.ApplyBoost(userID, []string{fmt.Sprintf("level:%d", user.Level)}, BoostFactorLevelUp)
}

func (service *ServiceTrigger) onRewardClaim(userID int64, payload any) {
	tags := unlockedTags(payload)
	if len(tags) == 0 {
		return
	}

	service.booster.ApplyBoost(userID, tags, BoostFactorTagUnlock)
}

// onTick nudges "daily:reset" media during the midnight UTC window.
func (service *ServiceTrigger) onTick(userID int64) {
	if service.clock.Now().UTC().Hour() != 0 {
		return
	}

	service.booster.ApplyBoost(userID, []string{"daily:reset"}, BoostFactorDailyReset)
}

func chatText(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case *models.ChatMessage:
		if v != nil {
			return v.Text
		}
	case models.ChatMessage:
		return v.Text
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return text
		}
	}
	return ""
}

func unlockedTags(payload any) []string {
	var tags []string

	switch entries := payload.(type) {
	case []models.RewardEntry:
		for _, entry := range entries {
			if entry.Type == models.RewardEntryMediaTagUnlock && entry.Tag != "" {
				tags = append(tags, entry.Tag)
			}
		}
	case []any:
		for _, raw := range entries {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if entry["type"] != models.RewardEntryMediaTagUnlock {
				continue
			}
			if tag, ok := entry["tag"].(string); ok && tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return tags
}
