package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseTags(t *testing.T) {
	assert.Nil(t, CollapseTags(nil))
	assert.Equal(t, []string{"pose:wave"}, CollapseTags([]string{"pose:wave"}))

	// first-seen order wins
	assert.Equal(t,
		[]string{"pose:wave", "set:beach", "mood:happy"},
		CollapseTags([]string{"pose:wave", "set:beach", "pose:wave", "mood:happy", "set:beach"}))
}

func TestCollapseTagsLeavesInputIntact(t *testing.T) {
	tags := []string{"pose:wave", "pose:wave", "set:beach"}

	out := CollapseTags(tags)

	assert.Equal(t, []string{"pose:wave", "set:beach"}, out)
	assert.Equal(t, []string{"pose:wave", "pose:wave", "set:beach"}, tags)
}

func TestMediaItemCandidateKeepsRowTags(t *testing.T) {
	item := MediaItem{
		ID:         "m1",
		SendChance: 0.4,
		Tags:       []string{"pose:wave", "pose:wave", "set:beach"},
	}

	candidate := item.Candidate()

	assert.Equal(t, []string{"pose:wave", "set:beach"}, candidate.Tags)
	assert.Equal(t, []string{"pose:wave", "pose:wave", "set:beach"}, item.Tags)
	assert.Equal(t, 0.4, candidate.BaseWeight)
}
