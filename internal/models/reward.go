package models

import (
	"time"

	"github.com/uptrace/bun"
)

const RewardEntryMediaTagUnlock = "mediaTagUnlock"

// RewardEntry is a single line inside a reward: gems, or a media tag unlock
// that feeds the booster on claim.
type RewardEntry struct {
	Type string `json:"type"`
	Gem  int    `json:"gem,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

type Reward struct {
	bun.BaseModel `bun:"table:reward"`
	ID            int           `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64         `bun:"user_id" json:"user_id"`
	Source        string        `bun:"source" json:"source"`
	Entries       []RewardEntry `bun:"entries,type:jsonb" json:"entries"`
	Claimed       bool          `bun:"claimed" json:"claimed"`
	CreatedAt     time.Time     `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at" json:"updated_at"`
}
