package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type WheelPrize struct {
	bun.BaseModel `bun:"table:wheel_prize"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name" json:"name"`
	Weight        float64   `bun:"weight" json:"weight"`
	Tags          []string  `bun:"tags,array" json:"tags"`
	Gem           int       `bun:"gem" json:"gem"`
	UnlockTags    []string  `bun:"unlock_tags,array" json:"unlock_tags"`
	Enabled       bool      `bun:"enabled" json:"enabled"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

func (prize *WheelPrize) Candidate() Candidate {
	return Candidate{
		ID:         strconv.Itoa(prize.ID),
		BaseWeight: prize.Weight,
		Tags:       CollapseTags(prize.Tags),
	}
}

// WheelSpin is the last spin result kept in redis for the cooldown check.
type WheelSpin struct {
	PrizeID int       `json:"prize_id" msgpack:"prize_id"`
	SpunAt  time.Time `json:"spun_at" msgpack:"spun_at"`
}

type SpinResult struct {
	Prize *WheelPrize `json:"prize"`
	Bonus *BonusGift  `json:"bonus,omitempty"`
}

type BonusGift struct {
	Gems int `json:"gems"`
}
