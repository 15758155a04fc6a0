package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBooster() (*BoosterEngine, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
	return NewBoosterEngine(DefaultBoosterConfig(), clock), clock
}

func TestBoosterApplyAndEffectiveWeight(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(1, []string{"pose:wave"}, 1.6)

	assert.InDelta(t, 1.6, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1e-9)
	assert.InDelta(t, 3.2, engine.EffectiveWeight(1, []string{"pose:wave"}, 2.0), 1e-9)

	// untagged weight unaffected
	assert.InDelta(t, 2.0, engine.EffectiveWeight(1, []string{"mood:happy"}, 2.0), 1e-9)
}

func TestBoosterEmptyTagsNoOp(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(1, nil, 2.0)
	engine.ApplyBoost(1, []string{}, 2.0)

	assert.InDelta(t, 1.0, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1e-9)
}

func TestBoosterDecayHalfLife(t *testing.T) {
	engine, clock := newTestBooster()

	engine.ApplyBoost(7, []string{"mood:happy"}, 2.0)

	clock.Advance(15 * time.Minute)
	// excess halves: 1 + (2-1)*0.5
	assert.InDelta(t, 1.5, engine.EffectiveWeight(7, []string{"mood:happy"}, 1.0), 1e-9)

	clock.Advance(15 * time.Minute)
	assert.InDelta(t, 1.25, engine.EffectiveWeight(7, []string{"mood:happy"}, 1.0), 1e-9)
}

func TestBoosterDecayIsLazyAndExact(t *testing.T) {
	engine, clock := newTestBooster()

	engine.ApplyBoost(7, []string{"set:beach"}, 3.0)

	// one 30-minute jump must equal two 15-minute jumps
	clock.Advance(30 * time.Minute)
	assert.InDelta(t, 1.5, engine.EffectiveWeight(7, []string{"set:beach"}, 1.0), 1e-9)
}

func TestBoosterCeiling(t *testing.T) {
	engine, _ := newTestBooster()

	for i := 0; i < 10; i++ {
		engine.ApplyBoost(3, []string{"event:halloween2025"}, 2.0)
	}

	assert.InDelta(t, 5.0, engine.EffectiveWeight(3, []string{"event:halloween2025"}, 1.0), 1e-9)
}

func TestBoosterCompoundingBelowCeiling(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(3, []string{"pose:wink"}, 1.6)
	engine.ApplyBoost(3, []string{"pose:wink"}, 1.6)

	assert.InDelta(t, 2.56, engine.EffectiveWeight(3, []string{"pose:wink"}, 1.0), 1e-9)
}

func TestBoosterPruneAfterLongIdle(t *testing.T) {
	engine, clock := newTestBooster()

	engine.ApplyBoost(9, []string{"pose:wave"}, 1.6)

	// enough half-lives for the excess to drop under the prune threshold
	clock.Advance(24 * time.Hour)
	assert.InDelta(t, 1.0, engine.EffectiveWeight(9, []string{"pose:wave"}, 1.0), 1e-9)

	removed := engine.Sweep()
	assert.Equal(t, 1, removed)
}

func TestBoosterSweepKeepsActiveUsers(t *testing.T) {
	engine, clock := newTestBooster()

	engine.ApplyBoost(1, []string{"pose:wave"}, 5.0)
	engine.ApplyBoost(2, []string{"pose:wave"}, 1.6)

	clock.Advance(75 * time.Minute)

	// five half-lives: user 2's small boost prunes away, user 1's big one survives
	removed := engine.Sweep()
	require.Equal(t, 1, removed)
	assert.Greater(t, engine.EffectiveWeight(1, []string{"pose:wave"}, 1.0), 1.0)
}

func TestBoosterUserIsolation(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(1, []string{"mood:sleepy"}, 2.0)

	assert.InDelta(t, 2.0, engine.EffectiveWeight(1, []string{"mood:sleepy"}, 1.0), 1e-9)
	assert.InDelta(t, 1.0, engine.EffectiveWeight(2, []string{"mood:sleepy"}, 1.0), 1e-9)
}

func TestBoosterReset(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(5, []string{"mood:happy"}, 2.0)
	engine.Reset(5)

	assert.InDelta(t, 1.0, engine.EffectiveWeight(5, []string{"mood:happy"}, 1.0), 1e-9)
}

func TestBoosterMultiTagBoostsMultiply(t *testing.T) {
	engine, _ := newTestBooster()

	engine.ApplyBoost(4, []string{"pose:wave", "set:beach"}, 1.6)

	// candidate carrying both tags gets both multipliers
	assert.InDelta(t, 2.56, engine.EffectiveWeight(4, []string{"pose:wave", "set:beach"}, 1.0), 1e-9)
}
