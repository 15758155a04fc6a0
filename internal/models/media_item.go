package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MediaItem struct {
	bun.BaseModel `bun:"table:media_item"`
	ID            string    `bun:"id,pk" json:"id"`
	CharacterSlug string    `bun:"character_slug" json:"character_slug"`
	URL           string    `bun:"url" json:"url"`
	Caption       string    `bun:"caption" json:"caption"`
	SendChance    float64   `bun:"send_chance" json:"send_chance"`
	Tags          []string  `bun:"tags,array" json:"tags"`
	Enabled       bool      `bun:"enabled" json:"enabled"`
	ChatEnabled   bool      `bun:"chat_enabled" json:"chat_enabled"`
	RandomSend    bool      `bun:"random_send" json:"random_send"`
	NSFW          bool      `bun:"nsfw" json:"nsfw"`
	VIPOnly       bool      `bun:"vip_only" json:"vip_only"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

// Candidate maps the item to the selector shape. SendChance is the base
// weight; eligibility flags are filtered before this point.
func (item *MediaItem) Candidate() Candidate {
	return Candidate{
		ID:         item.ID,
		BaseWeight: item.SendChance,
		Tags:       CollapseTags(item.Tags),
	}
}
