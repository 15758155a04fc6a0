package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserGem struct {
	bun.BaseModel `bun:"table:user_gem"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	Gems          int       `bun:"gems" json:"gems"`
	Action        string    `bun:"action" json:"action"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
