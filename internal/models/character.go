package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Character struct {
	bun.BaseModel `bun:"table:character"`
	Slug          string    `bun:"slug,pk" json:"slug"`
	Name          string    `bun:"name" json:"name"`
	Persona       string    `bun:"persona" json:"-"`
	Greeting      string    `bun:"greeting" json:"greeting"`
	FallbackReply string    `bun:"fallback_reply" json:"-"`
	AvatarURL     string    `bun:"avatar_url" json:"avatar_url"`
	Enabled       bool      `bun:"enabled" json:"enabled"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}
