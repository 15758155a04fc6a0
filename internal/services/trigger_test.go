package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"charmtap/internal/models"
)

type fakeUserFinder struct {
	users map[int64]*models.User
}

func (f *fakeUserFinder) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newTestTrigger(users map[int64]*models.User) (*ServiceTrigger, *BoosterEngine, *fakeClock) {
	engine, clock := newTestBooster()
	trigger := NewServiceTrigger(engine, &fakeUserFinder{users: users}, clock)
	return trigger, engine, clock
}

func TestTriggerChatKeyword(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 1, EventChat, "Hello! *Wave* back at me")

	assert.InDelta(t, 1.6, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1e-9)
}

func TestTriggerChatMultipleKeywords(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 1, EventChat, "feeling sleepy at the beach")

	assert.InDelta(t, 1.6, engine.EffectiveWeight(1, []string{"mood:sleepy"}, 1.0), 1e-9)
	assert.InDelta(t, 1.6, engine.EffectiveWeight(1, []string{"set:beach"}, 1.0), 1e-9)
}

func TestTriggerChatNoKeyword(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 1, EventChat, "good morning")

	assert.InDelta(t, 1.0, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1e-9)
}

func TestTriggerChatMessagePayload(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 1, EventChat, &models.ChatMessage{Text: "wink wink"})

	assert.InDelta(t, 1.6, engine.EffectiveWeight(1, []string{"pose:wink"}, 1.0), 1e-9)
}

func TestTriggerLevelUp(t *testing.T) {
	trigger, engine, _ := newTestTrigger(map[int64]*models.User{
		42: {ID: 42, Level: 3},
	})

	trigger.RecordEvent(context.Background(), 42, EventLevelUp, nil)

	assert.InDelta(t, 1.4, engine.EffectiveWeight(42, []string{"level:3"}, 1.0), 1e-9)
}

func TestTriggerLevelUpMissingUser(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	// lookup failure must be a silent no-op
	trigger.RecordEvent(context.Background(), 42, EventLevelUp, nil)

	assert.InDelta(t, 1.0, engine.EffectiveWeight(42, []string{"level:3"}, 1.0), 1e-9)
}

func TestTriggerRewardClaimEntries(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 5, EventRewardClaim, []models.RewardEntry{
		{Type: "gem", Gem: 50},
		{Type: models.RewardEntryMediaTagUnlock, Tag: "set:beach"},
		{Type: models.RewardEntryMediaTagUnlock, Tag: "pose:wink"},
	})

	assert.InDelta(t, 2.0, engine.EffectiveWeight(5, []string{"set:beach"}, 1.0), 1e-9)
	assert.InDelta(t, 2.0, engine.EffectiveWeight(5, []string{"pose:wink"}, 1.0), 1e-9)
	// gem entry carries no tag
	assert.InDelta(t, 1.0, engine.EffectiveWeight(5, []string{"gem"}, 1.0), 1e-9)
}

func TestTriggerRewardClaimDecodedPayload(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	// shape after a round-trip through JSON
	trigger.RecordEvent(context.Background(), 5, EventRewardClaim, []any{
		map[string]any{"type": models.RewardEntryMediaTagUnlock, "tag": "event:halloween2025"},
		map[string]any{"type": "gem", "gem": float64(10)},
	})

	assert.InDelta(t, 2.0, engine.EffectiveWeight(5, []string{"event:halloween2025"}, 1.0), 1e-9)
}

func TestTriggerTickMidnightWindow(t *testing.T) {
	trigger, engine, clock := newTestTrigger(nil)

	clock.now = time.Date(2025, 10, 2, 0, 30, 0, 0, time.UTC)
	trigger.RecordEvent(context.Background(), 8, EventTick, nil)

	assert.InDelta(t, 1.3, engine.EffectiveWeight(8, []string{"daily:reset"}, 1.0), 1e-9)
}

func TestTriggerTickOutsideWindow(t *testing.T) {
	trigger, engine, clock := newTestTrigger(nil)

	clock.now = time.Date(2025, 10, 2, 13, 0, 0, 0, time.UTC)
	trigger.RecordEvent(context.Background(), 8, EventTick, nil)

	assert.InDelta(t, 1.0, engine.EffectiveWeight(8, []string{"daily:reset"}, 1.0), 1e-9)
}

func TestTriggerUnknownEvent(t *testing.T) {
	trigger, engine, _ := newTestTrigger(nil)

	trigger.RecordEvent(context.Background(), 1, "mystery", "wave")

	assert.InDelta(t, 1.0, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1e-9)
}
