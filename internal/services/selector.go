package services

import (
	"math/rand"
	"sync"
	"time"

	"charmtap/internal/models"
)

// RandSource is injected so selection is reproducible in tests.
type RandSource interface {
	Float64() float64
}

func SystemRandSource() RandSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ServiceSelector turns a filtered candidate list plus per-user boost state
// into a single weighted-random pick.
type ServiceSelector struct {
	booster *BoosterEngine

	mu   sync.Mutex
	rand RandSource
}

func NewServiceSelector(booster *BoosterEngine, rnd RandSource) *ServiceSelector {
	if rnd == nil {
		rnd = SystemRandSource()
	}
	return &ServiceSelector{booster: booster, rand: rnd}
}

func (service *ServiceSelector) draw() float64 {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.rand.Float64()
}

// Roll is a uniform draw in [0, 1) from the selector's source, for
// send-chance checks that should share the injected randomness.
func (service *ServiceSelector) Roll() float64 {
	return service.draw()
}

// PickOne returns nil only when candidates is empty; the caller decides what
// "nothing to send" means. Degenerate weights (all zero or negative) resolve
// to the first candidate deterministically rather than an error, so a
// non-empty list always yields a usable result.
func (service *ServiceSelector) PickOne(userID int64, candidates []models.Candidate) *models.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, candidate := range candidates {
		if candidate.BaseWeight <= 0 {
			continue
		}
		w := service.booster.EffectiveWeight(userID, candidate.Tags, candidate.BaseWeight)
		weights[i] = w
		total += w
	}

	if total <= 0 {
		return &candidates[0]
	}

	r := service.draw() * total
	last := 0
	for i := range candidates {
		if weights[i] <= 0 {
			continue
		}
		last = i
		r -= weights[i]
		if r <= 0 {
			return &candidates[i]
		}
	}

	// float accumulation can leave a sliver of r; the last weighted
	// candidate is the correct fallback.
	return &candidates[last]
}
