package models

import "time"

type Chat struct {
	BaseModel
	Theme *string `json:"theme,omitempty"`

	CharacterID uint       `gorm:"index;not null" json:"characterId"`
	Character   *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`

	UserID uint  `gorm:"index;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one turn in a chat. Immutable once created; ordered by
// CreatedAt ascending within its chat.
type Message struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ChatID  uint   `gorm:"index;not null" json:"chatId"`
	Content string `gorm:"size:1000;not null" json:"content"`
	Sender  Sender `gorm:"type:varchar(10);not null" json:"sender"`

	// Attribution: exactly one of the two is set, matching Sender.
	UserID      *uint      `json:"userId,omitempty"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CharacterID *uint      `json:"characterId,omitempty"`
	Character   *Character `gorm:"foreignKey:CharacterID" json:"character,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
