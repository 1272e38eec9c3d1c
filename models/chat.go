package models

import "time"

// ChatMessage is a persisted line of room chat (recent history snapshot).
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Room      string    `gorm:"index" json:"room"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
