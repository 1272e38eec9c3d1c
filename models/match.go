package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchResult records one finished match for the history behind the
// leaderboard.
type MatchResult struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RoomID     string         `json:"room_id"`
	GameType   string         `json:"game_type"` // othello | connect4 | blackjack | uno | override
	Winner     string         `json:"winner"`
	ScoresJSON datatypes.JSON `json:"scores"` // player name -> final score
	FinishedAt time.Time      `json:"finished_at"`
	CreatedAt  time.Time      `json:"created_at"`
}
