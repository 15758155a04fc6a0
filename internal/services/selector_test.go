package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmtap/internal/models"
)

type scriptedRand struct {
	values []float64
	next   int
}

func (r *scriptedRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func TestPickOneEmpty(t *testing.T) {
	engine, _ := newTestBooster()
	selector := NewServiceSelector(engine, &scriptedRand{values: []float64{0.5}})

	assert.Nil(t, selector.PickOne(1, nil))
	assert.Nil(t, selector.PickOne(1, []models.Candidate{}))
}

func TestPickOneDegenerateWeights(t *testing.T) {
	engine, _ := newTestBooster()
	selector := NewServiceSelector(engine, &scriptedRand{values: []float64{0.5}})

	candidates := []models.Candidate{
		{ID: "a", BaseWeight: 0},
		{ID: "b", BaseWeight: -1},
	}

	picked := selector.PickOne(1, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, "a", picked.ID)
}

func TestPickOneSkipsZeroWeight(t *testing.T) {
	engine, _ := newTestBooster()
	selector := NewServiceSelector(engine, &scriptedRand{values: []float64{0.0}})

	candidates := []models.Candidate{
		{ID: "dead", BaseWeight: 0},
		{ID: "live", BaseWeight: 1},
	}

	picked := selector.PickOne(1, candidates)
	require.NotNil(t, picked)
	assert.Equal(t, "live", picked.ID)
}

func TestPickOneBoundaries(t *testing.T) {
	engine, _ := newTestBooster()

	candidates := []models.Candidate{
		{ID: "a", BaseWeight: 1},
		{ID: "b", BaseWeight: 1},
	}

	selector := NewServiceSelector(engine, &scriptedRand{values: []float64{0.0}})
	assert.Equal(t, "a", selector.PickOne(1, candidates).ID)

	// a draw just under 1 lands on the last candidate
	selector = NewServiceSelector(engine, &scriptedRand{values: []float64{0.999999}})
	assert.Equal(t, "b", selector.PickOne(1, candidates).ID)
}

func TestPickOneDistribution(t *testing.T) {
	engine, _ := newTestBooster()
	selector := NewServiceSelector(engine, rand.New(rand.NewSource(42)))

	candidates := []models.Candidate{
		{ID: "a", BaseWeight: 1},
		{ID: "b", BaseWeight: 1},
		{ID: "c", BaseWeight: 2},
	}

	counts := map[string]int{}
	draws := 10000
	for i := 0; i < draws; i++ {
		picked := selector.PickOne(1, candidates)
		require.NotNil(t, picked)
		counts[picked.ID]++
	}

	assert.InDelta(t, 0.25, float64(counts["a"])/float64(draws), 0.02)
	assert.InDelta(t, 0.25, float64(counts["b"])/float64(draws), 0.02)
	assert.InDelta(t, 0.50, float64(counts["c"])/float64(draws), 0.02)
}

func TestPickOneBoostShiftsDistribution(t *testing.T) {
	engine, _ := newTestBooster()
	engine.ApplyBoost(1, []string{"pose:wave"}, 2.0)

	selector := NewServiceSelector(engine, rand.New(rand.NewSource(7)))

	candidates := []models.Candidate{
		{ID: "boosted", BaseWeight: 1, Tags: []string{"pose:wave"}},
		{ID: "plain", BaseWeight: 1},
	}

	counts := map[string]int{}
	draws := 10000
	for i := 0; i < draws; i++ {
		counts[selector.PickOne(1, candidates).ID]++
	}

	// effective weights 2:1
	assert.InDelta(t, 2.0/3.0, float64(counts["boosted"])/float64(draws), 0.02)

	// a different user sees the unboosted 1:1 split
	counts = map[string]int{}
	for i := 0; i < draws; i++ {
		counts[selector.PickOne(2, candidates).ID]++
	}
	assert.InDelta(t, 0.5, float64(counts["boosted"])/float64(draws), 0.02)
}
