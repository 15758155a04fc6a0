package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            int64     `bun:"id,pk" json:"id"`
	FirstName     string    `bun:"first_name" json:"first_name"`
	IsBot         bool      `bun:"is_bot" json:"-"`
	IsPremium     bool      `bun:"is_premium" json:"-"`
	LastName      string    `bun:"last_name" json:"last_name"`
	Username      string    `bun:"username" json:"username"`
	LanguageCode  string    `bun:"language_code" json:"language_code"`
	PhotoURL      string    `bun:"photo_url" json:"photo_url"`
	Level         int       `bun:"level" json:"level"`
	TotalTaps     int64     `bun:"total_taps" json:"total_taps"`
	IsVIP         bool      `bun:"is_vip" json:"is_vip"`
	NSFWConsent   bool      `bun:"nsfw_consent" json:"nsfw_consent"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`

	TotalGems int  `bun:"-" json:"total_gems"`
	IsNewUser bool `bun:"-" json:"is_new_user"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	IsBot        bool   `json:"is_bot"`
	IsPremium    bool   `json:"is_premium"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
}

type TapResult struct {
	Taps      int64 `json:"taps"`
	Gems      int   `json:"gems"`
	Level     int   `json:"level"`
	LeveledUp bool  `json:"leveled_up"`
}
