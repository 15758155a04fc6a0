package services

import (
	"math"
	"sync"
	"time"
)

// Clock is injected so decay can be tested without real sleeps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

type BoosterConfig struct {
	// HalfLife is the time for the excess (m - 1) of every multiplier to
	// halve. Decay is lazy: applied on every read and write, never by timer.
	HalfLife time.Duration
	// Ceiling caps every multiplier; repeated boosts compound up to it.
	Ceiling float64
	// PruneThreshold: multipliers that decay to <= this are dropped from the
	// map, keeping it sparse. Must be slightly above 1.
	PruneThreshold float64
}

func DefaultBoosterConfig() BoosterConfig {
	return BoosterConfig{
		HalfLife:       15 * time.Minute,
		Ceiling:        5.0,
		PruneThreshold: 1.02,
	}
}

type userBoostState struct {
	mu          sync.Mutex
	multipliers map[string]float64
	lastUpdate  time.Time
}

// BoosterEngine keeps per-user tag multipliers that decay toward neutral
// (1.0) over time. State lives in process memory only; it is created lazily
// on the first boost and prunes itself tag-by-tag as multipliers decay.
//
// Mutations for the same user are serialized by a per-user mutex: two
// concurrent boosts must not both read the pre-decay state. Different users
// never contend.
type BoosterEngine struct {
	mu     sync.Mutex
	users  map[int64]*userBoostState
	config BoosterConfig
	clock  Clock
}

func NewBoosterEngine(config BoosterConfig, clock Clock) *BoosterEngine {
	if config.HalfLife <= 0 {
		config.HalfLife = DefaultBoosterConfig().HalfLife
	}
	if config.Ceiling <= 1 {
		config.Ceiling = DefaultBoosterConfig().Ceiling
	}
	if config.PruneThreshold <= 1 {
		config.PruneThreshold = DefaultBoosterConfig().PruneThreshold
	}
	if clock == nil {
		clock = systemClock{}
	}

	return &BoosterEngine{
		users:  map[int64]*userBoostState{},
		config: config,
		clock:  clock,
	}
}

func (engine *BoosterEngine) ensureUserState(userID int64) *userBoostState {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	state := engine.users[userID]
	if state == nil {
		state = &userBoostState{multipliers: map[string]float64{}}
		engine.users[userID] = state
	}
	return state
}

func (engine *BoosterEngine) userState(userID int64) *userBoostState {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.users[userID]
}

// decayLocked brings every multiplier toward 1.0 for the elapsed time and
// advances lastUpdate. Caller holds state.mu.
func (engine *BoosterEngine) decayLocked(state *userBoostState, now time.Time) {
	if state.lastUpdate.IsZero() {
		state.lastUpdate = now
		return
	}

	elapsed := now.Sub(state.lastUpdate)
	state.lastUpdate = now
	if elapsed <= 0 {
		return
	}

	factor := math.Pow(0.5, float64(elapsed)/float64(engine.config.HalfLife))
	for tag, m := range state.multipliers {
		m = 1 + (m-1)*factor
		if m <= engine.config.PruneThreshold {
			delete(state.multipliers, tag)
			continue
		}
		state.multipliers[tag] = m
	}
}

// ApplyBoost multiplies the user's multiplier for each tag by factor, after
// decaying existing state. Tags not present start from an implicit 1.0.
// Factors <= 1 are legal but produce no escalation.
func (engine *BoosterEngine) ApplyBoost(userID int64, tags []string, factor float64) {
	if len(tags) == 0 {
		return
	}

	state := engine.ensureUserState(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	engine.decayLocked(state, engine.clock.Now())

	for _, tag := range tags {
		cur := state.multipliers[tag]
		if cur < 1 {
			cur = 1
		}
		next := cur * factor
		if next > engine.config.Ceiling {
			next = engine.config.Ceiling
		}
		if next <= engine.config.PruneThreshold {
			delete(state.multipliers, tag)
			continue
		}
		state.multipliers[tag] = next
	}
}

// EffectiveWeight returns base multiplied by the user's current multiplier
// for every tag present (absent tags count as 1.0). Decay runs first, so the
// answer is exact regardless of call frequency. Users with no boost state
// get base back unchanged.
func (engine *BoosterEngine) EffectiveWeight(userID int64, tags []string, base float64) float64 {
	state := engine.userState(userID)
	if state == nil || len(tags) == 0 {
		return base
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	engine.decayLocked(state, engine.clock.Now())

	weight := base
	for _, tag := range tags {
		if m, ok := state.multipliers[tag]; ok {
			weight *= m
		}
	}
	return weight
}

// Reset drops all boost state for a user (e.g. on logout).
func (engine *BoosterEngine) Reset(userID int64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	delete(engine.users, userID)
}

// Sweep decays every tracked user and removes the ones whose tag maps have
// fully pruned away. Meant to run periodically from a cron schedule so
// long-inactive users do not accumulate empty entries.
func (engine *BoosterEngine) Sweep() int {
	engine.mu.Lock()
	ids := make([]int64, 0, len(engine.users))
	states := make([]*userBoostState, 0, len(engine.users))
	for id, state := range engine.users {
		ids = append(ids, id)
		states = append(states, state)
	}
	engine.mu.Unlock()

	now := engine.clock.Now()
	removed := 0
	for i, state := range states {
		state.mu.Lock()
		engine.decayLocked(state, now)
		empty := len(state.multipliers) == 0
		state.mu.Unlock()

		if !empty {
			continue
		}

		engine.mu.Lock()
		// Re-check under both locks: a boost may have landed since.
		state.mu.Lock()
		if len(state.multipliers) == 0 {
			delete(engine.users, ids[i])
			removed++
		}
		state.mu.Unlock()
		engine.mu.Unlock()
	}

	return removed
}
