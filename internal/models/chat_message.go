package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ChatRoleUser      = "user"
	ChatRoleCharacter = "character"
)

type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_message"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        int64     `bun:"user_id" json:"user_id"`
	CharacterSlug string    `bun:"character_slug" json:"character_slug"`
	Role          string    `bun:"role" json:"role"`
	Text          string    `bun:"text" json:"text"`
	MediaID       *string   `bun:"media_id" json:"media_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type ChatReply struct {
	Message *ChatMessage `json:"message"`
	Media   *MediaItem   `json:"media,omitempty"`
}
